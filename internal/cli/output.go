package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/grouperdev/grouper/pkg/grouping"
	"github.com/grouperdev/grouper/pkg/yaml"
)

func printResult(w io.Writer, res *grouping.Result, format string, separator bool) error {
	switch format {
	case "yaml":
		if separator {
			_, err := fmt.Fprintln(w, "---")
			if err != nil {
				return fmt.Errorf("write separator: %w", err)
			}
		}

		enc := yaml.NewEncoder(w)

		err := enc.Encode(res)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		defer func() {
			err := enc.Close()
			if err != nil {
				slog.Error("failed to close YAML encoder", slog.Any("error", err))
			}
		}()

		return nil

	case "json":
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		_, err = fmt.Fprintf(w, "%s\n", b)
		if err != nil {
			return fmt.Errorf("write result: %w", err)
		}

		return nil
	}

	return fmt.Errorf("unknown output format %q", format)
}
