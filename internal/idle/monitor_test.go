package idle

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/hammamikhairi/recipeplus/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock is a settable clock for driving the monitor by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)}
}

func TestHintFiresOncePerIdlePeriod(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	clock := newClock()
	fired := 0
	m := New(log, WithThreshold(10*time.Second), WithClock(clock.Now), WithOnHint(func() { fired++ }))

	// Exactly at the threshold is not yet past it.
	if m.Tick(clock.Advance(10 * time.Second)) {
		t.Fatal("hint fired at threshold, expected only after it")
	}
	if !m.Tick(clock.Advance(1 * time.Second)) {
		t.Fatal("expected hint after threshold")
	}
	if !m.ShowHint() || m.State() != Hinting {
		t.Fatalf("expected hinting, got %s", m.State())
	}

	// Further ticks in the same idle period do not fire again.
	for i := 0; i < 5; i++ {
		if m.Tick(clock.Advance(time.Second)) {
			t.Fatal("hint fired twice in one idle period")
		}
	}
	if fired != 1 {
		t.Fatalf("expected 1 callback, got %d", fired)
	}

	// Interaction clears it; a new idle period fires again.
	m.Touch(clock.Now())
	if m.ShowHint() {
		t.Fatal("expected hint cleared by interaction")
	}
	if !m.Tick(clock.Advance(11 * time.Second)) {
		t.Fatal("expected hint in second idle period")
	}
	if fired != 2 {
		t.Fatalf("expected 2 callbacks, got %d", fired)
	}
}

func TestInteractionResetsElapsed(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	clock := newClock()
	m := New(log, WithThreshold(10*time.Second), WithClock(clock.Now))

	for i := 0; i < 10; i++ {
		clock.Advance(8 * time.Second)
		m.Interact()
		if m.Tick(clock.Advance(time.Second)) {
			t.Fatalf("hint fired at iteration %d despite interactions", i)
		}
	}
	if m.ShowHint() {
		t.Fatal("expected hint to stay down")
	}
}

func TestZeroThresholdDisables(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	clock := newClock()
	m := New(log, WithThreshold(0), WithClock(clock.Now))

	if m.Tick(clock.Advance(24 * time.Hour)) {
		t.Fatal("hint fired with threshold 0")
	}
	if m.ShowHint() {
		t.Fatal("expected no hint with threshold 0")
	}
}

func TestSetThreshold(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	clock := newClock()
	m := New(log, WithThreshold(10*time.Second), WithClock(clock.Now))

	m.Tick(clock.Advance(11 * time.Second))
	if !m.ShowHint() {
		t.Fatal("expected hint")
	}

	m.SetThreshold(0)
	if m.ShowHint() {
		t.Fatal("disabling should clear the hint")
	}
	if m.Tick(clock.Advance(time.Hour)) {
		t.Fatal("hint fired after disabling")
	}

	m.SetThreshold(30 * time.Second)
	m.Interact()
	if m.Tick(clock.Advance(20 * time.Second)) {
		t.Fatal("hint fired before new threshold")
	}
	if !m.Tick(clock.Advance(11 * time.Second)) {
		t.Fatal("expected hint after new threshold")
	}
}

func TestStartStop(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	clock := newClock()
	var fired atomic.Int32
	m := New(log,
		WithThreshold(10*time.Second),
		WithTickInterval(5*time.Millisecond),
		WithClock(clock.Now),
		WithOnHint(func() { fired.Add(1) }),
	)

	m.Start(context.Background())
	m.Start(context.Background()) // second start is a no-op
	clock.Advance(time.Minute)

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	m.Stop()
	m.Stop() // idempotent

	if fired.Load() != 1 {
		t.Fatalf("expected exactly one hint, got %d", fired.Load())
	}
}

func TestStopOnContextCancel(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ctx, cancel := context.WithCancel(context.Background())
	m := New(log, WithTickInterval(time.Millisecond))
	m.Start(ctx)
	cancel()
	m.Stop()
}

func TestRestartAfterContextCancel(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	clock := newClock()
	var fired atomic.Int32
	m := New(log,
		WithThreshold(10*time.Second),
		WithTickInterval(5*time.Millisecond),
		WithClock(clock.Now),
		WithOnHint(func() { fired.Add(1) }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	cancel()

	m.runMu.Lock()
	done := m.done
	m.runMu.Unlock()
	<-done

	m.Start(context.Background())
	defer m.Stop()
	clock.Advance(time.Minute)

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fired.Load() != 1 {
		t.Fatalf("expected a hint after restart, got %d", fired.Load())
	}
}
