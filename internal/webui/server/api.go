package server

import (
	"encoding/json"
	"net/http"

	"webtee/internal/stream"
	appver "webtee/internal/version"
)

func versionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": appver.AppVersion})
}

func schemaHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stream.MessageSchema())
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"viewers": s.Tee.Viewers(),
		"done":    s.Tee.Closed(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err, ok := v.(error); ok {
		_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
