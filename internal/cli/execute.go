package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/grouperdev/grouper/pkg/version"
)

// Execute runs the root command with signal handling, tracing, and styled
// error output.
func Execute(ctx context.Context) error {
	shutdown, err := setupTracing(ctx)
	if err != nil {
		slog.Warn("tracing setup failed, continuing without it", slog.Any("error", err))

		shutdown = func(context.Context) error { return nil }
	}

	defer func() {
		err := shutdown(ctx)
		if err != nil {
			slog.Warn("tracing shutdown", slog.Any("error", err))
		}
	}()

	return fang.Execute(ctx, NewRootCmd(), //nolint:wrapcheck // fang reports the error itself.
		fang.WithVersion(version.GetVersion()),
		fang.WithErrorHandler(ErrorHandler),
		fang.WithNotifySignal(os.Interrupt),
	)
}
