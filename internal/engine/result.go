package engine

// Status classifies the outcome of one evaluation. Every status describes a
// property of the submitted code, never of the service itself.
type Status string

const (
	StatusSuccess          Status = "Success"
	StatusCompilationError Status = "CompilationError"
	StatusRuntimeError     Status = "RuntimeError"
	StatusTimeout          Status = "Timeout"
)

// Result is the engine's sole output: exactly one of the four statuses, with
// the fields that status populates. LineNumber is nil whenever no line could
// be parsed out of the diagnostics; it is never a placeholder zero.
type Result struct {
	Status        Status `json:"status"`
	Output        string `json:"output,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	ExceptionType string `json:"exception_type,omitempty"`
	LineNumber    *int   `json:"line_number,omitempty"`
}

func timeoutResult() *Result {
	return &Result{
		Status:       StatusTimeout,
		ErrorMessage: "Execution time exceeded limit",
	}
}
