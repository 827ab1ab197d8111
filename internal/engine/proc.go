package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"syscall"
	"time"
)

// procOutcome is the raw outcome of one supervised child process.
type procOutcome struct {
	timedOut bool
	exitCode int
	stdout   string
	stderr   string
}

// supervise starts cmd in its own process group, buffers both output streams
// and waits for it to finish, racing completion against the wall-clock
// deadline. On expiry the entire group is SIGKILLed so descendants the
// program spawned die with it, then the child is reaped before returning.
func (e *Engine) supervise(ctx context.Context, cmd *exec.Cmd, timeout time.Duration) (procOutcome, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return procOutcome{}, fmt.Errorf("%w: %s: %v", ErrToolchainNotFound, cmd.Path, err)
		}
		return procOutcome{}, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case waitErr := <-done:
		return procOutcome{
			exitCode: exitCodeOf(waitErr),
			stdout:   stdout.String(),
			stderr:   stderr.String(),
		}, nil

	case <-timer.C:
		if err := killProcessTree(cmd.Process.Pid); err != nil {
			return procOutcome{}, fmt.Errorf("%w: pid %d: %v", ErrTerminate, cmd.Process.Pid, err)
		}
		<-done // reap; the group is dead, so this cannot block
		e.logger.Warn().
			Str("cmd", cmd.Path).
			Dur("timeout", timeout).
			Msg("process tree killed on deadline")
		return procOutcome{timedOut: true}, nil

	case <-ctx.Done():
		if err := killProcessTree(cmd.Process.Pid); err != nil {
			return procOutcome{}, fmt.Errorf("%w: pid %d: %v", ErrTerminate, cmd.Process.Pid, err)
		}
		<-done
		return procOutcome{}, ctx.Err()
	}
}

func exitCodeOf(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// killProcessTree SIGKILLs the process group created at spawn time. A group
// that already exited is not an error; anything else is, since a runaway
// program the supervisor cannot stop is a resource-safety violation.
func killProcessTree(pid int) error {
	pgid, err := syscall.Getpgid(pid)
	if err != nil {
		// Fall back to the single process if the group is unreadable.
		err = syscall.Kill(pid, syscall.SIGKILL)
	} else {
		err = syscall.Kill(-pgid, syscall.SIGKILL)
	}
	if err != nil && !errors.Is(err, syscall.ESRCH) {
		return err
	}
	return nil
}
