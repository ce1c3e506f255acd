package conversation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// IdleHint is shown when the cook has been idle past the threshold.
const IdleHint = "→ press enter for the next step"

var (
	notifyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	urgentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
)

// CLINotifier writes notifications to a terminal. Colors are dropped when
// the output is not a TTY.
type CLINotifier struct {
	log *logger.Logger
	out io.Writer
}

// NewCLINotifier creates a notifier writing to out.
// If out is nil, os.Stdout is used.
func NewCLINotifier(log *logger.Logger, out io.Writer) *CLINotifier {
	if out == nil {
		out = os.Stdout
	}
	return &CLINotifier{log: log, out: out}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	_, err := fmt.Fprintln(n.out, notifyStyle.Render(message))
	return err
}

// NotifyUrgent prints an urgent notification in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	_, err := fmt.Fprintln(n.out, urgentStyle.Render(message))
	return err
}

// Hint prints the idle hint.
func (n *CLINotifier) Hint(ctx context.Context) error {
	n.log.Debug("idle hint")
	_, err := fmt.Fprintln(n.out, hintStyle.Render(IdleHint))
	return err
}
