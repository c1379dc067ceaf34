package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"webtee/internal/client"
	"webtee/internal/render"
	"webtee/internal/stream"
)

func init() {
	rootCmd.AddCommand(attachCmd)
	attachCmd.Flags().String("mode", "", "rendering mode: incremental or html (default from config)")
	attachCmd.Flags().Bool("html", false, "print the rendered HTML once the stream ends")
}

var attachCmd = &cobra.Command{
	Use:   "attach <addr|url>",
	Short: "Watch a running webtee server from the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wsURL, err := client.StreamURL(args[0])
		if err != nil {
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

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		out := cmd.OutOrStdout()
		if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
			tree := render.NewHTMLTree()
			if err := client.Attach(ctx, wsURL, stream.NewSession(tree, mode)); err != nil && !isCancel(ctx) {
				return err
			}
			return tree.Render(out)
		}
		tree := render.NewTermTree(out)
		if err := client.Attach(ctx, wsURL, stream.NewSession(tree, mode)); err != nil && !isCancel(ctx) {
			return err
		}
		return tree.Err()
	},
}

func isCancel(ctx context.Context) bool { return ctx.Err() != nil }
