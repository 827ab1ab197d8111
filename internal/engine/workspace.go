package engine

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is the isolated filesystem scope for one submission. It holds
// the source file and whatever class files javac emits, and nothing else
// ever reads or writes it.
type Workspace struct {
	Root       string
	SourcePath string
}

// acquire creates a fresh UUID-named directory under the configured base dir
// and writes the source text verbatim into Main.java. UUID naming guarantees
// concurrent submissions never collide.
func (e *Engine) acquire(source string) (*Workspace, error) {
	root := filepath.Join(e.cfg.WorkDir, uuid.NewString())
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, err
	}
	srcPath := filepath.Join(root, SourceFile)
	if err := os.WriteFile(srcPath, []byte(source), 0o644); err != nil {
		_ = os.RemoveAll(root)
		return nil, err
	}
	return &Workspace{Root: root, SourcePath: srcPath}, nil
}

// release removes the workspace tree. It is idempotent, and failures are
// logged rather than escalated: a cleanup problem must never mask the
// evaluation outcome already in hand.
func (e *Engine) release(ws *Workspace) {
	if ws == nil {
		return
	}
	if err := os.RemoveAll(ws.Root); err != nil {
		e.logger.Error().Err(err).Str("workspace", ws.Root).Msg("failed to remove workspace")
	}
}
