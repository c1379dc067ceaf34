// Package client attaches to a running webtee server over WebSocket.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"webtee/internal/stream"
	"webtee/internal/system"
)

// StreamURL turns a server address or page URL into its /ws endpoint.
// "127.0.0.1:8788", "http://host:8788/" and "ws://host:8788/ws" are all
// accepted.
func StreamURL(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Attach connects to wsURL and hands every frame to sess until the stream
// ends, the server closes the connection, or ctx is done.
func Attach(ctx context.Context, wsURL string, sess *stream.Session) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()
	system.Logger.Debug("attached", "url", wsURL)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var ce *websocket.CloseError
			if errors.As(err, &ce) && ce.Code == websocket.CloseNormalClosure {
				return nil
			}
			if sess.Done() {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		sess.HandleFrame(frame)
	}
}
