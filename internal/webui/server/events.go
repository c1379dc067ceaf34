package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"webtee/internal/render"
	"webtee/internal/stream"
	"webtee/internal/system"
)

// sseWriter frames Server-Sent Events. The first write error sticks.
type sseWriter struct {
	w   http.ResponseWriter
	f   http.Flusher
	err error
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Disable certain reverse proxy buffering if present
	w.Header().Set("X-Accel-Buffering", "no")
	return &sseWriter{w: w, f: flusher}, true
}

func (s *sseWriter) event(name string, data []byte) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data)
}

func (s *sseWriter) flush() error {
	if s.err == nil {
		s.f.Flush()
	}
	return s.err
}

// pump hands the replay and then live messages to deliver until the stream
// ends, the client goes away, or deliver fails.
func pump(r *http.Request, sub *stream.Subscription, deliver func(stream.Message) error) {
	for _, m := range sub.Replay {
		if err := deliver(m); err != nil {
			return
		}
	}
	notify := r.Context().Done()
	for {
		select {
		case <-notify:
			return
		case m, ok := <-sub.C:
			if !ok {
				return
			}
			if err := deliver(m); err != nil {
				return
			}
		}
	}
}

// eventsHandler streams the Tee as Server-Sent Events, one event per
// message, named after the message type.
func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	sse, ok := newSSEWriter(w)
	if !ok {
		return
	}
	sub := s.Tee.Subscribe()
	defer sub.Cancel()

	pump(r, sub, func(m stream.Message) error {
		payload, err := stream.Encode(m)
		if err != nil {
			return err
		}
		sse.event(m.Type, payload)
		return sse.flush()
	})
}

// renderEventsHandler runs a Session for this viewer on the server and
// streams the resulting display mutations as "op" events. The page applies
// them to its own tree, so it needs no decoder of its own.
//
// Query: t=html forwards payloads as document ops.
func (s *Server) renderEventsHandler(w http.ResponseWriter, r *http.Request) {
	sse, ok := newSSEWriter(w)
	if !ok {
		return
	}
	sub := s.Tee.Subscribe()
	defer sub.Cancel()
	system.Logger.Info("viewer connected", "remote", r.RemoteAddr, "transport", "sse")
	defer system.Logger.Info("viewer disconnected", "remote", r.RemoteAddr, "transport", "sse")

	tree := render.NewOpTree(func(op render.Op) {
		b, err := json.Marshal(op)
		if err != nil {
			system.Logger.Warn("encode op", "err", err)
			return
		}
		sse.event("op", b)
	})
	sess := stream.NewSession(tree, stream.ModeFromQuery(r.URL.Query()))
	pump(r, sub, func(m stream.Message) error {
		sess.Handle(m)
		return sse.flush()
	})
}
