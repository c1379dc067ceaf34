package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"webtee/internal/render"
	"webtee/internal/stream"
	"webtee/internal/webui/server"
)

func TestStreamURL(t *testing.T) {
	cases := map[string]string{
		"127.0.0.1:8788":        "ws://127.0.0.1:8788/ws",
		"http://host:1/":        "ws://host:1/ws",
		"https://host/":         "wss://host/ws",
		"ws://host:2/ws":        "ws://host:2/ws",
		"http://host/prefix/ws": "ws://host/prefix/ws",
	}
	for in, want := range cases {
		got, err := StreamURL(in)
		if err != nil || got != want {
			t.Fatalf("StreamURL(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := StreamURL("ftp://host"); err == nil {
		t.Fatalf("expected error for ftp scheme")
	}
}

func TestAttach_RendersUntilEOF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tee := stream.NewTee(stream.TeeOptions{HistoryBytes: 1 << 10})
	ts := httptest.NewServer((&server.Server{Tee: tee}).Handler())
	defer ts.Close()

	_, _ = tee.Write([]byte("hello \x1b[1mworld"))
	_, _ = tee.Write([]byte("\x1b[0m!"))
	_ = tee.Close()

	wsURL, err := StreamURL(ts.URL)
	if err != nil {
		t.Fatalf("StreamURL: %v", err)
	}
	tree := render.NewHTMLTree()
	sess := stream.NewSession(tree, stream.ModeIncremental)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Attach(ctx, wsURL, sess); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if !sess.Done() {
		t.Fatalf("session not done after eof")
	}
	got := tree.String()
	if !strings.Contains(got, `hello <span class="bold">world</span>!`) {
		t.Fatalf("rendered %s", got)
	}
}
