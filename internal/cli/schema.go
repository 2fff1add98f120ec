package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grouperdev/grouper/pkg/config"
)

func NewSchemaCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for rule files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outFile != "" {
				err := os.WriteFile(outFile, config.SchemaJSON(), 0o600)
				if err != nil {
					return fmt.Errorf("write schema file: %w", err)
				}

				return nil
			}

			_, err := cmd.OutOrStdout().Write(config.SchemaJSON())

			return err //nolint:wrapcheck // Write error needs no context.
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write the schema to a file instead of stdout")

	return cmd
}
