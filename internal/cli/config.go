package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"webtee/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("init", false, "write the default config file if it does not exist")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the config file path and effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := config.Path()
			if err != nil {
				return err
			}
			path = p
		}
		out := cmd.OutOrStdout()

		if initFile, _ := cmd.Flags().GetBool("init"); initFile {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			body, err := config.Default().Encode()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %s\n", path)
			return nil
		}

		body, err := cfg.Encode()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# %s\n%s", path, body)
		return nil
	},
}
