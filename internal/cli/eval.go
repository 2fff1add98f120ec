package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/grouperdev/grouper/pkg/config"
	"github.com/grouperdev/grouper/pkg/event"
	"github.com/grouperdev/grouper/pkg/grouping"
)

const cmdExamples = `  # Evaluate an event against the default rules:
  grouper event.json

  # Evaluate with an explicit rule file:
  grouper --rules ./rules.yaml event.yaml

  # Read the event from stdin:
  cat event.json | grouper

  # Re-evaluate whenever the rule file changes:
  grouper --rules ./rules.yaml --watch event.json

  # Emit JSON instead of YAML:
  grouper event.json --output json`

var errNoEvents = errors.New("no events provided (pass files or pipe a document to stdin)")

type EvalArgs struct {
	*RootArgs

	RulesPath  string
	Output     string
	Watch      bool
	WriteRules bool
}

func NewEvalArgs(rootArgs *RootArgs) *EvalArgs {
	return &EvalArgs{
		RootArgs: rootArgs,
	}
}

func (ea *EvalArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ea.RulesPath, "rules", "", "Path to the fingerprinting rule file")
	cmd.Flags().StringVarP(&ea.Output, "output", "o", "yaml", "Output format, one of: [yaml, json]")
	cmd.Flags().BoolVarP(&ea.Watch, "watch", "w", false, "Watch the rule file and re-evaluate on changes")
	cmd.Flags().BoolVar(&ea.WriteRules, "write-rules", false, "Write the default rule files and exit")

	err := cmd.MarkFlagFilename("rules", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark rules flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions([]string{"yaml", "json"}, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewEvalCmd(ea *EvalArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "eval [event...]",
		Short:   "Evaluate events against the fingerprinting rules",
		Example: cmdExamples,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eval(cmd, ea, args)
		},
	}
	ea.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func eval(cmd *cobra.Command, ea *EvalArgs, args []string) error {
	if ea.WriteRules {
		return config.WriteDefault(config.GetPath(), false) //nolint:wrapcheck // Error is already descriptive.
	}

	cfg, rulesPath, err := loadRules(ea.RulesPath)
	if err != nil {
		return err
	}

	events, err := readEvents(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	g := grouping.New(cfg)
	ctx := cmd.Context()

	evaluateAll := func() error {
		for i, ev := range events {
			res := g.Evaluate(ctx, ev)

			err := printResult(cmd.OutOrStdout(), res, ea.Output, i > 0)
			if err != nil {
				return err
			}
		}

		return nil
	}

	err = evaluateAll()
	if err != nil {
		return err
	}

	if !ea.Watch {
		return nil
	}

	if rulesPath == "" {
		return errors.New("--watch requires a rule file on disk")
	}

	w := config.NewWatcher(g, rulesPath, config.WithOnReload(func(*grouping.Config) {
		err := evaluateAll()
		if err != nil {
			slog.Error("re-evaluate", slog.Any("error", err))
		}
	}))

	return w.Watch(ctx) //nolint:wrapcheck // Error is already descriptive.
}

// loadRules resolves the active rule set: an explicit path, the rule file
// at the default location, or the embedded defaults. It returns the path
// of the file-backed rule set (empty for embedded defaults).
func loadRules(path string) (*grouping.Config, string, error) {
	if path == "" {
		defaultPath := config.GetPath()
		if _, err := os.Stat(defaultPath); err != nil {
			slog.Debug("no rule file found, using embedded defaults",
				slog.String("path", defaultPath),
			)

			return config.Default(), "", nil
		}

		path = defaultPath
	}

	l, err := config.NewLoaderFromFile(path)
	if err != nil {
		return nil, "", err //nolint:wrapcheck // Error is already descriptive.
	}

	err = l.Validate()
	if err != nil {
		return nil, "", fmt.Errorf("validate %q: %w", path, err)
	}

	cfg, err := l.Load()
	if err != nil {
		return nil, "", fmt.Errorf("load %q: %w", path, err)
	}

	return cfg, path, nil
}

func readEvents(stdin io.Reader, args []string) ([]*event.Event, error) {
	if len(args) == 0 {
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, errNoEvents
		}

		args = []string{"-"}
	}

	events := make([]*event.Event, 0, len(args))

	for _, arg := range args {
		var (
			data []byte
			err  error
		)

		if arg == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(arg) //nolint:gosec // G304: Potential file inclusion via variable.
		}
		if err != nil {
			return nil, fmt.Errorf("read event %q: %w", arg, err)
		}

		ev, err := event.FromDocument(data)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", arg, err)
		}

		events = append(events, ev)
	}

	return events, nil
}
