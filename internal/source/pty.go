package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"

	"fortio.org/safecast"
	"github.com/creack/pty"

	"webtee/internal/system"
)

// Size is a PTY window size in cells. Zero values leave the default.
type Size struct {
	Cols int
	Rows int
}

func (s Size) winsize() (*pty.Winsize, error) {
	if s.Cols <= 0 || s.Rows <= 0 {
		return nil, nil
	}
	cols, err := safecast.Conv[uint16](s.Cols)
	if err != nil {
		return nil, fmt.Errorf("cols: %w", err)
	}
	rows, err := safecast.Conv[uint16](s.Rows)
	if err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return &pty.Winsize{Cols: cols, Rows: rows}, nil
}

// RunPTY starts cmd on a pseudo terminal and copies its output to w until
// the command exits. Cancelling ctx kills the command.
func RunPTY(ctx context.Context, cmd *exec.Cmd, size Size, w io.Writer) error {
	ws, err := size.winsize()
	if err != nil {
		return err
	}
	ptmx, err := pty.StartWithSize(cmd, ws)
	if err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	defer func() { _ = ptmx.Close() }() // Best-effort close; will kill the child

	stop := context.AfterFunc(ctx, func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	})
	defer stop()

	system.Logger.Info("command started", "cmd", cmd.Path, "pid", cmd.Process.Pid)
	copyErr := Copy(context.Background(), ptmx, w)
	// Linux reports EIO on the master once the child side is gone.
	if errors.Is(copyErr, syscall.EIO) {
		copyErr = nil
	}
	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if copyErr != nil {
		return copyErr
	}
	return waitErr
}
