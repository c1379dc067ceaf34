package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"webtee/internal/render"
	"webtee/internal/source"
	"webtee/internal/stream"
	webembed "webtee/internal/webui/embed"
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("mode", "", "rendering mode: incremental or html (default from config)")
	renderCmd.Flags().Bool("fragment", false, "print only the <pre id=\"content\"> element")
	renderCmd.Flags().Bool("plain", false, "strip escape sequences and print plain text")
	renderCmd.Flags().Bool("term", false, "re-style the output for this terminal instead of HTML")
}

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render captured terminal output to HTML",
	Long: "Reads terminal output from the file (or stdin) and renders it through the\n" +
		"same decoder and renderer a browser viewer uses.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := io.Reader(os.Stdin)
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		out := cmd.OutOrStdout()

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			b, err := io.ReadAll(in)
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, xansi.Strip(string(b)))
			return err
		}

		modeName := cfg.Mode
		if cmd.Flags().Changed("mode") {
			modeName, _ = cmd.Flags().GetString("mode")
		}
		mode, err := stream.ParseMode(modeName)
		if err != nil {
			return err
		}

		if asTerm, _ := cmd.Flags().GetBool("term"); asTerm {
			tree := render.NewTermTree(out)
			if err := feed(cmd.Context(), in, tree, mode); err != nil {
				return err
			}
			return tree.Err()
		}

		tree := render.NewHTMLTree()
		if err := feed(cmd.Context(), in, tree, mode); err != nil {
			return err
		}
		fragment, _ := cmd.Flags().GetBool("fragment")
		if fragment || mode == stream.ModeHTML {
			return tree.Render(out)
		}
		return writePage(out, tree)
	},
}

// sessionWriter hands every write to a Session as one text message, so
// reads are rendered with the same fragment boundaries a viewer sees.
type sessionWriter struct{ sess *stream.Session }

func (w sessionWriter) Write(p []byte) (int, error) {
	w.sess.Handle(stream.TextMessage(string(p)))
	return len(p), nil
}

func feed(ctx context.Context, in io.Reader, view stream.View, mode stream.Mode) error {
	sess := stream.NewSession(view, mode)
	if err := source.Copy(ctx, in, sessionWriter{sess}); err != nil {
		return err
	}
	sess.Handle(stream.EOFMessage())
	return nil
}

// writePage wraps the tree in a standalone page with the viewer stylesheet
// inlined.
func writePage(w io.Writer, tree *render.HTMLTree) error {
	css, err := fs.ReadFile(webembed.DistFS, "dist/style.css")
	if err != nil {
		return fmt.Errorf("read stylesheet: %w", err)
	}
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>webtee</title>\n<style>\n%s</style>\n</head>\n<body>", css); err != nil {
		return err
	}
	if err := tree.Render(w); err != nil {
		return err
	}
	_, err = io.WriteString(w, "</body>\n</html>\n")
	return err
}
