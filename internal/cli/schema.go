package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"webtee/internal/stream"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of stream messages",
	Long:  "Prints the JSON Schema of the messages sent over /ws and /api/events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := stream.MarshalSchema(stream.MessageSchema())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}
