package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"webtee/internal/source"
	"webtee/internal/stream"
	"webtee/internal/system"
	"webtee/internal/webui/server"
)

// producer writes terminal output into w until the source is exhausted.
type producer func(ctx context.Context, w io.Writer) error

type serveOptions struct {
	addr    string
	open    bool
	wait    bool
	history int
	keep    bool
	linger  time.Duration
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("addr", "a", "", "address to bind (host:port); defaults to the config value")
	cmd.Flags().BoolP("open", "o", false, "open the browser after start")
	cmd.Flags().Bool("no-wait", false, "do not hold output back until the first viewer connects")
	cmd.Flags().Int("history", 0, "bytes of output replayed to late viewers (default from config)")
	cmd.Flags().Bool("keep", false, "keep serving after the stream ends, until interrupted")
	cmd.Flags().Duration("linger", 2*time.Second, "how long to wait for viewers to detach after the stream ends")
}

// resolveServeOptions merges flags over the loaded config.
func resolveServeOptions(cmd *cobra.Command) serveOptions {
	f := cmd.Flags()
	o := serveOptions{
		addr:    cfg.Addr,
		open:    cfg.Open,
		wait:    cfg.WaitForViewer,
		history: cfg.HistoryBytes,
	}
	if f.Changed("addr") {
		o.addr, _ = f.GetString("addr")
	}
	if f.Changed("open") {
		o.open, _ = f.GetBool("open")
	}
	if noWait, _ := f.GetBool("no-wait"); noWait {
		o.wait = false
	}
	if f.Changed("history") {
		o.history, _ = f.GetInt("history")
	}
	o.keep, _ = f.GetBool("keep")
	o.linger, _ = f.GetDuration("linger")
	return o
}

func stdinProducer(r io.Reader) producer {
	return func(ctx context.Context, w io.Writer) error {
		return source.Copy(ctx, r, w)
	}
}

// serveStream runs the viewer server and the producer side by side. The
// server stops once the stream has ended and viewers had a chance to
// receive the eof message, or when either side fails.
func serveStream(cmd *cobra.Command, produce producer) error {
	o := resolveServeOptions(cmd)
	// stdout carries the viewer URL; keep access logs off it
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = os.Stderr
	tee := stream.NewTee(stream.TeeOptions{HistoryBytes: o.history, WaitForViewer: o.wait})
	srv := &server.Server{Addr: o.addr, Tee: tee}

	// Handle Ctrl+C
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	serverCtx, stopServer := context.WithCancel(gctx)
	defer stopServer()
	// unblocks a Write waiting for a viewer when we are shutting down early
	stopTee := context.AfterFunc(gctx, func() { _ = tee.Close() })
	defer stopTee()

	g.Go(func() error {
		err := srv.Start(serverCtx)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer stopServer()
		errc := make(chan error, 1)
		// a blocked stdin read cannot be interrupted; leave it behind on cancel
		go func() { errc <- produce(gctx, tee) }()
		var err error
		select {
		case err = <-errc:
		case <-gctx.Done():
			err = gctx.Err()
		}
		_ = tee.Close()
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, stream.ErrClosed) {
			return err
		}
		system.Logger.Info("stream ended", "viewers", tee.Viewers())
		if o.keep {
			<-gctx.Done()
			return nil
		}
		drainViewers(gctx, tee, o.linger)
		return nil
	})

	url := "http://" + displayAddr(o.addr) + "/"
	fmt.Println(url)
	if o.open {
		if err := system.OpenBrowser(url); err != nil {
			system.Logger.Warn("failed to open browser", "err", err)
		}
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// drainViewers waits until every viewer has detached or d elapses.
func drainViewers(ctx context.Context, tee *stream.Tee, d time.Duration) {
	deadline := time.NewTimer(d)
	defer deadline.Stop()
	tick := time.NewTicker(25 * time.Millisecond)
	defer tick.Stop()
	for tee.Viewers() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			system.Logger.Debug("viewers still attached at shutdown", "viewers", tee.Viewers())
			return
		case <-tick.C:
		}
	}
}

// displayAddr makes wildcard binds clickable.
func displayAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream stdin to browser viewers (the default command)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveStream(cmd, stdinProducer(os.Stdin))
	},
}
