package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
)

// Message prefixes that mark an error as CLI misuse rather than a runtime
// failure. Cobra has no typed usage error, so the message text is the only
// signal (spf13/cobra#2266).
var usagePrefixes = []string{
	"flag needs an argument:",
	"unknown flag:",
	"unknown shorthand flag:",
	"unknown command",
	"invalid argument",
}

// ErrorHandler renders err in fang's styled error format, appending a
// --help hint when the error looks like command-line misuse.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	writeln(w, styles.ErrorHeader.String())
	writeln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error()))
	writeln(w, "")

	if !isUsageError(err) {
		return
	}

	writeln(w, lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render("Try"),
		styles.Program.Flag.Render("--help"),
		styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render("for usage."),
	))
	writeln(w, "")
}

func isUsageError(err error) bool {
	msg := err.Error()

	for _, prefix := range usagePrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}

	return false
}

func writeln(w io.Writer, s string) {
	_, err := fmt.Fprintln(w, s)
	if err != nil {
		panic(err)
	}
}
