package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipeplus/internal/conversation"
	"github.com/hammamikhairi/recipeplus/internal/cook"
	"github.com/hammamikhairi/recipeplus/internal/display"
	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/idle"
	"github.com/hammamikhairi/recipeplus/internal/logger"
	"github.com/hammamikhairi/recipeplus/internal/settings"
)

func newCookCmd(c *cli) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "cook <recipe>",
		Short: "Walk through a recipe one step at a time",
		Long: `Walk through a recipe one step at a time. In a terminal this opens a
full-screen view driven by the arrow keys; with --plain, or when output is
not a terminal, it reads commands line by line (enter for the next step,
"help" for the rest).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := c.app

			r, err := a.catalog.Find(ctx, args[0])
			if err != nil {
				return notFound(args[0], err)
			}
			session, err := cook.NewSession(r, a.log.Named("cook"))
			if err != nil {
				return err
			}

			// External edits to the settings file apply while cooking.
			watchCtx, stopWatch := context.WithCancel(ctx)
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := a.settings.Watch(watchCtx); err != nil {
					a.log.Warn("%v", err)
				}
			}()
			defer func() {
				stopWatch()
				wg.Wait()
			}()

			if !plain && isTerminal(a.out) {
				fmt.Fprint(a.out, display.RenderBanner(a.render.Theme()))
				monitor := idle.New(a.log.Named("idle"), idle.WithThreshold(a.settings.Snapshot().IdleThreshold))
				cancel := followThreshold(a.settings, monitor)
				defer cancel()
				return display.NewCookUI(session, a.render, monitor, nil).Run(ctx)
			}

			lc := newLineCook(session, a.render, a.log, a.out)
			cancel := lc.follow(a.settings)
			defer cancel()
			return lc.run(ctx, cmd.InOrStdin())
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "line-by-line mode even in a terminal")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// followThreshold keeps the monitor's threshold in step with the settings.
func followThreshold(s *settings.Store, m *idle.Monitor) (cancel func()) {
	return s.Subscribe(func(snap settings.Settings) {
		m.SetThreshold(snap.IdleThreshold)
	})
}

// lockedWriter serialises the prompt loop and the idle hint.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// lineCook is cook mode for plain terminals and pipes.
type lineCook struct {
	session  *cook.Session
	render   *display.Renderer
	parser   *conversation.Parser
	notifier *conversation.CLINotifier
	monitor  *idle.Monitor
	out      io.Writer
	log      *logger.Logger
}

func newLineCook(s *cook.Session, r *display.Renderer, log *logger.Logger, out io.Writer, opts ...idle.Option) *lineCook {
	w := &lockedWriter{w: out}
	lc := &lineCook{
		session:  s,
		render:   r,
		parser:   conversation.NewParser(log.Named("parser")),
		notifier: conversation.NewCLINotifier(log.Named("notify"), w),
		out:      w,
		log:      log,
	}
	lc.monitor = idle.New(log.Named("idle"), append([]idle.Option{
		idle.WithOnHint(func() { _ = lc.notifier.Hint(context.Background()) }),
	}, opts...)...)
	return lc
}

// follow applies the current idle threshold and tracks later changes.
func (lc *lineCook) follow(s *settings.Store) (cancel func()) {
	lc.monitor.SetThreshold(s.Snapshot().IdleThreshold)
	return followThreshold(s, lc.monitor)
}

// run reads commands from in until quit, EOF or ctx is cancelled.
func (lc *lineCook) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	lc.monitor.Start(ctx)
	defer lc.monitor.Stop()

	r := lc.session.Recipe()
	_ = lc.notifier.Notify(ctx, fmt.Sprintf("Cooking %s. Type help for commands.", r.Name))
	lc.showStep()

	for {
		var input string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case input, ok = <-lines:
			if !ok {
				return nil
			}
		}

		lc.monitor.Interact()
		cmd := lc.parser.Parse(input)
		lc.log.Debug("command: %s", cmd.Type)
		if quit := lc.handle(ctx, cmd); quit {
			return nil
		}
	}
}

func (lc *lineCook) handle(ctx context.Context, cmd conversation.Command) (quit bool) {
	switch cmd.Type {
	case conversation.CmdNext:
		if lc.session.Done() {
			_ = lc.notifier.Notify(ctx, "Already finished. Type back or quit.")
			return false
		}
		if _, err := lc.session.Next(); errors.Is(err, domain.ErrNoMoreSteps) {
			_ = lc.notifier.Notify(ctx, "That was the last step. Enjoy!")
			return false
		}
		lc.showStep()
	case conversation.CmdBack:
		if _, err := lc.session.Prev(); errors.Is(err, domain.ErrOutOfRange) {
			_ = lc.notifier.Notify(ctx, "Already at the first step.")
		}
		lc.showStep()
	case conversation.CmdGoto:
		if _, err := lc.session.Jump(cmd.Step); err != nil {
			_, total := lc.session.Position()
			_ = lc.notifier.NotifyUrgent(ctx, fmt.Sprintf("There is no step %d (1-%d).", cmd.Step, total))
			return false
		}
		lc.showStep()
	case conversation.CmdRepeat:
		lc.showStep()
	case conversation.CmdTimers:
		lc.showTimers()
	case conversation.CmdHelp:
		fmt.Fprintln(lc.out, conversation.Help)
	case conversation.CmdQuit:
		_ = lc.notifier.Notify(ctx, "Bye!")
		return true
	default:
		_ = lc.notifier.NotifyUrgent(ctx, fmt.Sprintf("Unknown command %q. Type help for commands.", cmd.Raw))
	}
	return false
}

func (lc *lineCook) showStep() {
	n, total := lc.session.Position()
	t := lc.render.Theme()
	fmt.Fprintf(lc.out, "\n%s\n%s\n", t.Muted.Render(fmt.Sprintf("Step %d of %d", n, total)), lc.render.Step(lc.session.Current().Text))
}

func (lc *lineCook) showTimers() {
	tags := lc.session.Timers()
	if len(tags) == 0 {
		fmt.Fprintln(lc.out, "No timers in this step.")
		return
	}
	var b strings.Builder
	for _, tag := range tags {
		label := tag.Label
		if label == "" {
			label = "Timer"
		}
		fmt.Fprintf(&b, "  %s %s\n", label, display.FormatDuration(tag.Duration()))
	}
	fmt.Fprint(lc.out, b.String())
}
