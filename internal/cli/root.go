package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"webtee/internal/config"
	"webtee/internal/system"
)

var (
	configPath string
	logLevel   string
	// cfg is the effective configuration, loaded before any command runs.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "webtee",
	Short: "webtee – watch terminal output in the browser",
	Long: "webtee tees terminal output (stdin, a followed file, or a command in a PTY)\n" +
		"to browser viewers over WebSocket, keeping ANSI colors and styles.\n\n" +
		"With no subcommand it streams stdin:  make 2>&1 | webtee --open",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
			// `config --init` is how a missing file gets created
			if errors.Is(err, fs.ErrNotExist) && cmd == configCmd {
				cfg, err = config.Default(), nil
			}
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		return system.SetLevel(level)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default action: stream stdin
		return serveStream(cmd, stdinProducer(os.Stdin))
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <user config dir>/webtee/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	addServeFlags(rootCmd)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
