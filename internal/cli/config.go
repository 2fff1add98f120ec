package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grouperdev/grouper/pkg/yaml"
)

func NewConfigCmd(ea *EvalArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the active fingerprinting rules",
		Long: `Print the rule set that eval would use, after defaulting and validation:
the file given via --rules, the rule file at the default location, or the
embedded defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := loadRules(ea.RulesPath)
			if err != nil {
				return err
			}

			if path != "" {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
				if err != nil {
					return fmt.Errorf("write header: %w", err)
				}
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode rules: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err //nolint:wrapcheck // Write error needs no context.
		},
	}

	cmd.Flags().StringVar(&ea.RulesPath, "rules", "", "Path to the fingerprinting rule file")

	err := cmd.MarkFlagFilename("rules", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark rules flag: %w", err))
	}

	bindEnvVars(cmd)

	return cmd
}
