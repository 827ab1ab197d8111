package engine

import (
	"context"
	"os/exec"
)

// run executes the compiled Main class under the wall-clock deadline. The
// classpath is restricted to the workspace so the program sees nothing but
// its own artifacts, and the working directory keeps relative file I/O
// inside the workspace.
func (e *Engine) run(ctx context.Context, ws *Workspace) (procOutcome, error) {
	cmd := exec.Command(e.cfg.JavaPath, "-cp", ws.Root, MainClass)
	cmd.Dir = ws.Root
	return e.supervise(ctx, cmd, e.cfg.ExecuteTimeout)
}
