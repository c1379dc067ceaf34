package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"webtee/internal/source"
)

func init() {
	rootCmd.AddCommand(tailCmd)
	addServeFlags(tailCmd)
}

var tailCmd = &cobra.Command{
	Use:   "tail <file>",
	Short: "Follow a growing log file and stream it",
	Long:  "Streams the current contents of the file, then everything appended to it until it is removed or renamed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		return serveStream(cmd, func(ctx context.Context, w io.Writer) error {
			return source.Follow(ctx, path, w)
		})
	},
}
