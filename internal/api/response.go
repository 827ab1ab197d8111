package api

import (
	"encoding/json"
	"net/http"
)

// Stable machine-readable error codes. Clients switch on these instead of
// parsing human-readable messages.
const (
	CodeMissingField     = "MISSING_FIELD"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeExecutionFailed  = "EXECUTION_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeTimeout          = "TIMEOUT"
)

// Every response uses the same envelope: success=true populates data,
// success=false populates error.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data"`
	Error   *errorBody `json:"error"`
}

type errorBody struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

func writeOK(w http.ResponseWriter, data any, httpStatus int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeFail(w http.ResponseWriter, message, code string, details map[string]any, httpStatus int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &errorBody{Message: message, Code: code, Details: details},
	})
}
