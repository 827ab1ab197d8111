package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// Diagnostic parsing is deliberately pure and lossy-tolerant: any text that
// does not match the toolchain conventions degrades to "no line number, no
// exception type" instead of failing.

// javac reports errors as: Main.java:<line>: error: <message>
var compileLineRE = regexp.MustCompile(`\bMain\.java:(\d+):`)

// First line of a JVM stack trace, with or without a message:
//
//	Exception in thread "main" java.lang.ArithmeticException: / by zero
//	Exception in thread "main" java.lang.StackOverflowError
var runtimeExcRE = regexp.MustCompile(`(?m)^Exception in thread "[^"]+" ([\w.$]+(?:Exception|Error)[\w.$]*)(?::[^\n]*)?$`)

// Stack frame referencing the submitted source: at Main.method(Main.java:42)
var runtimeLineRE = regexp.MustCompile(`\bat\s+Main\.\w+\(Main\.java:(\d+)\)`)

// parseCompileLine returns the first line number javac reported, or nil when
// the diagnostics match no known shape. Only the first error is surfaced so
// the student fixes issues one at a time instead of chasing cascades.
func parseCompileLine(raw string) *int {
	m := compileLineRE.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// parseRuntimeTrace extracts the simple exception class name from the trace
// header and the first line number attributed to the submitted source.
// Either value may be missing: a trace whose every frame is library code
// yields no line number at all.
func parseRuntimeTrace(raw string) (excType string, line *int) {
	if m := runtimeExcRE.FindStringSubmatch(raw); m != nil {
		full := strings.TrimSpace(m[1])
		if i := strings.LastIndex(full, "."); i >= 0 {
			full = full[i+1:]
		}
		excType = full
	}
	if m := runtimeLineRE.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			line = &n
		}
	}
	return excType, line
}
