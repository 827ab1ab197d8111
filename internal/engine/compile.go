package engine

import (
	"context"
	"os/exec"
)

// compile invokes javac against the workspace source. The -d flag keeps the
// generated class files inside the workspace, isolated from every other
// submission running concurrently. javac on a single file is effectively
// bounded, but the compile deadline reuses the same tree-kill supervision
// as execution so a pathological input cannot wedge the service.
func (e *Engine) compile(ctx context.Context, ws *Workspace) (procOutcome, error) {
	cmd := exec.Command(e.cfg.JavacPath, "-d", ws.Root, SourceFile)
	cmd.Dir = ws.Root
	return e.supervise(ctx, cmd, e.cfg.CompileTimeout)
}
