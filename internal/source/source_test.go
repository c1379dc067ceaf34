package source

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a polling test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, b *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if b.String() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("got %q, want %q", b.String(), want)
}

func TestCopy(t *testing.T) {
	in := strings.Repeat("\x1b[1mbold\x1b[0m plain\n", 1000)
	var out bytes.Buffer
	if err := Copy(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if out.String() != in {
		t.Fatalf("copied %d bytes, want %d", out.Len(), len(in))
	}
}

func TestCopy_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Copy(ctx, strings.NewReader("x"), &bytes.Buffer{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestFollow_AppendedData(t *testing.T) {
	p := filepath.Join(t.TempDir(), "build.log")
	if err := os.WriteFile(p, []byte("start\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &syncBuffer{}
	errc := make(chan error, 1)
	go func() { errc <- Follow(ctx, p, out) }()

	waitFor(t, out, "start\n")
	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("\x1b[32mmore\x1b[0m\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()
	waitFor(t, out, "start\n\x1b[32mmore\x1b[0m\n")

	cancel()
	select {
	case <-errc:
	case <-time.After(3 * time.Second):
		t.Fatalf("Follow did not stop after cancel")
	}
}

func TestFollow_MissingFile(t *testing.T) {
	err := Follow(context.Background(), filepath.Join(t.TempDir(), "nope"), &bytes.Buffer{})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRunPTY(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty not supported")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var out syncBuffer
	cmd := exec.Command("sh", "-c", `printf '\033[1mhi\033[0m'`)
	if err := RunPTY(context.Background(), cmd, Size{Cols: 80, Rows: 24}, &out); err != nil {
		t.Fatalf("RunPTY error: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[1mhi\x1b[0m") {
		t.Fatalf("output %q", out.String())
	}
}

func TestSize_Overflow(t *testing.T) {
	if _, err := (Size{Cols: 70000, Rows: 10}).winsize(); err == nil {
		t.Fatalf("expected overflow error")
	}
	ws, err := Size{}.winsize()
	if err != nil || ws != nil {
		t.Fatalf("zero size = %v, %v", ws, err)
	}
}
