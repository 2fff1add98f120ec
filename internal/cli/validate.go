package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grouperdev/grouper/pkg/config"
)

func NewValidateCmd(_ *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a fingerprinting rule file without evaluating anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.GetPath()
			if len(args) > 0 {
				path = args[0]
			}

			l, err := config.NewLoaderFromFile(path)
			if err != nil {
				return err //nolint:wrapcheck // Error is already descriptive.
			}

			err = l.Validate()
			if err != nil {
				return fmt.Errorf("validate %q: %w", path, err)
			}

			cfg, err := l.Load()
			if err != nil {
				return fmt.Errorf("load %q: %w", path, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d rules)\n", path, len(cfg.Rules))

			return err //nolint:wrapcheck // Write error needs no context.
		},
	}

	return cmd
}
