package server

import (
	"io"
	"net/http"

	"webtee/internal/render"
	"webtee/internal/stream"
	"webtee/internal/system"
)

const (
	pageHead = "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>webtee snapshot</title>\n<link rel=\"stylesheet\" href=\"/style.css\">\n</head>\n<body>"
	pageTail = "</body>\n</html>\n"
)

// snapshotHandler renders the retained history server-side through the
// same decoder/renderer pipeline a viewer runs.
//
// Query: t=html writes the raw payloads as the document; fragment=1 returns
// only the <pre id="content"> element. X-Webtee-Done is "1" once the stream
// has ended.
func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	tree := render.NewHTMLTree()
	sess := stream.NewSession(tree, stream.ModeFromQuery(r.URL.Query()))
	for _, chunk := range s.Tee.History() {
		sess.Handle(stream.TextMessage(chunk))
	}
	done := s.Tee.Closed()
	if done {
		sess.Handle(stream.EOFMessage())
		w.Header().Set("X-Webtee-Done", "1")
	} else {
		w.Header().Set("X-Webtee-Done", "0")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	fragment := r.URL.Query().Get("fragment") == "1"
	if !fragment && sess.Mode() == stream.ModeIncremental {
		_, _ = io.WriteString(w, pageHead)
	}
	if err := tree.Render(w); err != nil {
		system.Logger.Warn("snapshot render failed", "err", err)
		return
	}
	if !fragment && sess.Mode() == stream.ModeIncremental {
		_, _ = io.WriteString(w, pageTail)
	}
}
