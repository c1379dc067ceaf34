package cli

import (
	"context"
	"io"
	"os/exec"

	"github.com/spf13/cobra"

	"webtee/internal/source"
)

func init() {
	rootCmd.AddCommand(runCmd)
	addServeFlags(runCmd)
	runCmd.Flags().Int("cols", 120, "terminal width reported to the command")
	runCmd.Flags().Int("rows", 40, "terminal height reported to the command")
}

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Run a command on a PTY and stream its output",
	Long: "Runs the command on a pseudo terminal so it keeps its colors, and streams\n" +
		"everything it prints to browser viewers.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cols, _ := cmd.Flags().GetInt("cols")
		rows, _ := cmd.Flags().GetInt("rows")
		size := source.Size{Cols: cols, Rows: rows}
		return serveStream(cmd, func(ctx context.Context, w io.Writer) error {
			c := exec.Command(args[0], args[1:]...)
			return source.RunPTY(ctx, c, size, w)
		})
	},
}
