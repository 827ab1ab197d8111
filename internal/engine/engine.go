// Package engine compiles and executes a single Java submission in an
// isolated workspace and turns the raw toolchain output into a classified
// Result. Student-caused failures (compile errors, uncaught exceptions,
// timeouts) come back as a Result; only environment failures (missing
// toolchain, filesystem or spawn problems, an unkillable process tree) are
// returned as errors.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// MainClass is the one entry class the engine supports. The submitted
	// source must declare it; javac enforces the file/class name match.
	MainClass = "Main"

	// SourceFile is the file name the source text is written to.
	SourceFile = MainClass + ".java"

	DefaultCompileTimeout = 10 * time.Second
	DefaultExecuteTimeout = 5 * time.Second
)

// Operational defects. These mean the service is broken or withdrew, not
// that the submission is wrong, and callers must report them as such.
var (
	ErrWorkspace         = errors.New("workspace setup failed")
	ErrToolchainNotFound = errors.New("java toolchain not found")
	ErrSpawn             = errors.New("failed to start process")
	ErrTerminate         = errors.New("failed to terminate process tree")
)

// Config holds the immutable toolchain settings for one Engine. Tests point
// JavacPath/JavaPath at stand-in scripts to run without a JDK.
type Config struct {
	JavacPath      string
	JavaPath       string
	WorkDir        string // base directory for per-submission workspaces
	CompileTimeout time.Duration
	ExecuteTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.JavacPath == "" {
		c.JavacPath = "javac"
	}
	if c.JavaPath == "" {
		c.JavaPath = "java"
	}
	if c.WorkDir == "" {
		c.WorkDir = filepath.Join(os.TempDir(), "java_exec")
	}
	if c.CompileTimeout <= 0 {
		c.CompileTimeout = DefaultCompileTimeout
	}
	if c.ExecuteTimeout <= 0 {
		c.ExecuteTimeout = DefaultExecuteTimeout
	}
	return c
}

type Engine struct {
	cfg    Config
	logger *zerolog.Logger
}

func New(cfg Config, logger *zerolog.Logger) *Engine {
	return &Engine{cfg: cfg.withDefaults(), logger: logger}
}

// Evaluate compiles and runs one submission. The workspace is destroyed on
// every return path. Compilation always finishes (one way or the other)
// before execution starts; concurrent Evaluate calls never share state.
func (e *Engine) Evaluate(ctx context.Context, source string) (*Result, error) {
	ws, err := e.acquire(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkspace, err)
	}
	defer e.release(ws)

	cout, err := e.compile(ctx, ws)
	if err != nil {
		return nil, err
	}
	if cout.timedOut {
		return timeoutResult(), nil
	}
	if cout.exitCode != 0 {
		// javac occasionally splits output across streams; prefer stderr.
		raw := strings.TrimSpace(cout.stderr)
		if raw == "" {
			raw = strings.TrimSpace(cout.stdout)
		}
		return &Result{
			Status:       StatusCompilationError,
			ErrorMessage: raw,
			LineNumber:   parseCompileLine(raw),
		}, nil
	}

	rout, err := e.run(ctx, ws)
	if err != nil {
		return nil, err
	}
	if rout.timedOut {
		return timeoutResult(), nil
	}

	stdout := normalizeOutput(rout.stdout)
	stderr := strings.TrimSpace(rout.stderr)

	// A non-zero exit code, or any text on stderr, signals a runtime fault.
	if rout.exitCode != 0 || stderr != "" {
		excType, line := parseRuntimeTrace(stderr)
		msg := "Runtime error"
		if stderr != "" {
			if excType != "" {
				// Recognized JVM trace: the first line carries the headline.
				msg, _, _ = strings.Cut(stderr, "\n")
			} else {
				// Unrecognized diagnostics are kept whole, never dropped.
				msg = stderr
			}
		}
		return &Result{
			Status:        StatusRuntimeError,
			ErrorMessage:  msg,
			ExceptionType: excType,
			LineNumber:    line,
			Output:        stdout,
		}, nil
	}

	return &Result{Status: StatusSuccess, Output: stdout}, nil
}

// normalizeOutput strips at most one trailing newline from captured stdout.
// Everything else is preserved byte for byte.
func normalizeOutput(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
