package cook

import (
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/logger"
)

func testRecipe() *domain.Recipe {
	return &domain.Recipe{
		Name: "Rice",
		Steps: []domain.Step{
			{Text: "Rinse the rice"},
			{Text: "Simmer{Pot:00:15} then rest{00:05}"},
			{Text: "Fluff and serve"},
		},
	}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(testRecipe(), logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestNoSteps(t *testing.T) {
	_, err := NewSession(&domain.Recipe{Name: "Empty"}, logger.New(logger.LevelOff, nil))
	if !errors.Is(err, domain.ErrNoSteps) {
		t.Fatalf("expected ErrNoSteps, got %v", err)
	}
}

func TestNavigation(t *testing.T) {
	s := newSession(t)

	if n, total := s.Position(); n != 1 || total != 3 {
		t.Fatalf("expected 1/3, got %d/%d", n, total)
	}
	if _, err := s.Prev(); !errors.Is(err, domain.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange before first step, got %v", err)
	}

	step, err := s.Next()
	if err != nil || step.Text != "Simmer{Pot:00:15} then rest{00:05}" {
		t.Fatalf("unexpected next: %q %v", step.Text, err)
	}
	s.Next()
	if s.Done() {
		t.Fatal("reaching the last step is not done yet")
	}

	if _, err := s.Next(); !errors.Is(err, domain.ErrNoMoreSteps) {
		t.Fatalf("expected ErrNoMoreSteps, got %v", err)
	}
	if !s.Done() {
		t.Fatal("expected done after moving past the last step")
	}
	if n, _ := s.Position(); n != 3 {
		t.Fatalf("position should stay on last step, got %d", n)
	}

	step, err = s.Prev()
	if err != nil || step.Text != "Simmer{Pot:00:15} then rest{00:05}" {
		t.Fatalf("unexpected prev: %q %v", step.Text, err)
	}
	if s.Done() {
		t.Fatal("going back should clear done")
	}
}

func TestJump(t *testing.T) {
	tests := []struct {
		n       int
		wantPos int
		wantErr bool
	}{
		{1, 1, false},
		{3, 3, false},
		{0, 1, true},
		{4, 1, true},
		{-2, 1, true},
	}
	for _, tt := range tests {
		s := newSession(t)
		_, err := s.Jump(tt.n)
		if tt.wantErr != errors.Is(err, domain.ErrOutOfRange) {
			t.Fatalf("Jump(%d) err = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if pos, _ := s.Position(); pos != tt.wantPos {
			t.Fatalf("Jump(%d) position = %d, want %d", tt.n, pos, tt.wantPos)
		}
	}
}

func TestTimers(t *testing.T) {
	s := newSession(t)
	if len(s.Timers()) != 0 {
		t.Fatal("first step has no timers")
	}
	s.Jump(2)
	tags := s.Timers()
	if len(tags) != 2 {
		t.Fatalf("expected 2 timers, got %d", len(tags))
	}
	if tags[0].Label != "Pot" || tags[0].Duration() != 15*time.Minute {
		t.Fatalf("unexpected first tag %+v", tags[0])
	}
	if tags[1].Label != "" || tags[1].Duration() != 5*time.Minute {
		t.Fatalf("unexpected second tag %+v", tags[1])
	}
}
