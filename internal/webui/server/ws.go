package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"webtee/internal/stream"
	"webtee/internal/system"
)

const writeWait = 10 * time.Second

// wsUpgrader upgrades HTTP connections to WebSocket.
var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; the server typically binds to localhost.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamWSHandler streams the Tee to one viewer.
//
// Server protocol: every chunk is sent as a JSON text frame
// {"type":"text","data":"..."}; the end of the stream is {"type":"eof"}
// followed by a normal close. Client frames are read and discarded.
func (s *Server) streamWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, fmt.Sprintf("upgrade failed: %v", err), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	sub := s.Tee.Subscribe()
	defer sub.Cancel()
	system.Logger.Info("viewer connected", "remote", r.RemoteAddr, "transport", "ws")
	defer system.Logger.Info("viewer disconnected", "remote", r.RemoteAddr, "transport", "ws")

	// Reader: keeps control frames flowing and notices the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(m stream.Message) error {
		frame, err := stream.Encode(m)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, frame)
	}
	for _, m := range sub.Replay {
		if err := send(m); err != nil {
			return
		}
	}
	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case m, ok := <-sub.C:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream ended"),
					time.Now().Add(writeWait))
				return
			}
			if err := send(m); err != nil {
				system.Logger.Debug("viewer write failed", "remote", r.RemoteAddr, "err", err)
				return
			}
		}
	}
}
