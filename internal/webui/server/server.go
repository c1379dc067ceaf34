package server

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"webtee/internal/stream"
	"webtee/internal/system"
	webembed "webtee/internal/webui/embed"
)

// Server serves the viewer page and streams a Tee to every connected viewer.
type Server struct {
	Addr string
	Tee  *stream.Tee
}

// Handler builds the gin engine with every route mounted.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	s.mountAPIGin(r)
	r.GET("/ws", gin.WrapF(s.streamWSHandler))
	r.GET("/snapshot", gin.WrapF(s.snapshotHandler))
	mountEmbeddedUIGin(r)
	return r
}

// Start listens on s.Addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	system.Logger.Info("webtee server listening", "addr", s.Addr)
	return srv.ListenAndServe()
}

func (s *Server) mountAPIGin(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/health", gin.WrapF(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	api.GET("/version", gin.WrapF(versionHandler))
	api.GET("/schema", gin.WrapF(schemaHandler))
	api.GET("/status", gin.WrapF(s.statusHandler))
	api.GET("/events", gin.WrapF(s.eventsHandler))
	api.GET("/render", gin.WrapF(s.renderEventsHandler))
}

// mountEmbeddedUIGin serves the embedded page at all non-API GET routes.
func mountEmbeddedUIGin(r *gin.Engine) {
	dist, err := fs.Sub(webembed.DistFS, "dist")
	if err != nil {
		r.NoRoute(func(c *gin.Context) {
			c.String(http.StatusNotFound, "viewer assets not found")
		})
		return
	}
	r.NoRoute(func(c *gin.Context) {
		// Do not hijack API routes
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/api" {
			c.Status(http.StatusNotFound)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		p := strings.TrimPrefix(c.Request.URL.Path, "/")
		if p == "" {
			p = "index.html"
		}
		// served directly: http.FileServer would redirect /index.html back to /
		b, err := fs.ReadFile(dist, p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
				c.Status(http.StatusNotFound)
				return
			}
			c.Status(http.StatusInternalServerError)
			return
		}
		ct := mime.TypeByExtension(filepath.Ext(p))
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Data(http.StatusOK, ct, b)
	})
}
