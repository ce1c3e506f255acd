// Package cook walks through a recipe one step at a time.
package cook

import (
	"fmt"

	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/logger"
	"github.com/hammamikhairi/recipeplus/internal/steptext"
)

// Session is a cooking pass over one recipe. Not safe for concurrent use;
// the TUI and the line-mode loop both drive it from a single goroutine.
type Session struct {
	recipe *domain.Recipe
	index  int
	done   bool
	log    *logger.Logger
}

// NewSession starts at the first step. A recipe without steps cannot be
// cooked and returns domain.ErrNoSteps.
func NewSession(r *domain.Recipe, log *logger.Logger) (*Session, error) {
	if len(r.Steps) == 0 {
		return nil, fmt.Errorf("%q: %w", r.Name, domain.ErrNoSteps)
	}
	log.Info("cooking %q (%d steps)", r.Name, len(r.Steps))
	return &Session{recipe: r, log: log}, nil
}

// Recipe returns the recipe being cooked.
func (s *Session) Recipe() *domain.Recipe { return s.recipe }

// Current returns the step in focus.
func (s *Session) Current() domain.Step {
	return s.recipe.Steps[s.index]
}

// Position returns the 1-based step number and the step count.
func (s *Session) Position() (int, int) {
	return s.index + 1, len(s.recipe.Steps)
}

// Done reports whether the cook moved past the last step.
func (s *Session) Done() bool { return s.done }

// Next moves to the following step. On the last step it marks the session
// done and returns domain.ErrNoMoreSteps.
func (s *Session) Next() (domain.Step, error) {
	if s.index == len(s.recipe.Steps)-1 {
		if !s.done {
			s.log.Info("finished %q", s.recipe.Name)
		}
		s.done = true
		return s.Current(), domain.ErrNoMoreSteps
	}
	s.index++
	s.log.Debug("step %d/%d", s.index+1, len(s.recipe.Steps))
	return s.Current(), nil
}

// Prev moves back one step and clears Done. On the first step it returns
// domain.ErrOutOfRange.
func (s *Session) Prev() (domain.Step, error) {
	s.done = false
	if s.index == 0 {
		return s.Current(), domain.ErrOutOfRange
	}
	s.index--
	s.log.Debug("step %d/%d", s.index+1, len(s.recipe.Steps))
	return s.Current(), nil
}

// Jump moves to the 1-based step n.
func (s *Session) Jump(n int) (domain.Step, error) {
	if n < 1 || n > len(s.recipe.Steps) {
		return s.Current(), fmt.Errorf("step %d of %d: %w", n, len(s.recipe.Steps), domain.ErrOutOfRange)
	}
	s.index = n - 1
	s.done = false
	s.log.Debug("jumped to step %d/%d", n, len(s.recipe.Steps))
	return s.Current(), nil
}

// Timers returns the timer tags in the current step.
func (s *Session) Timers() []steptext.TimerTag {
	return steptext.Tags(s.Current().Text)
}
