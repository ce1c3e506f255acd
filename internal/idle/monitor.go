// Package idle implements the idle-hint timer: after a stretch without user
// interaction a hint flag goes up, and any interaction puts it back down.
package idle

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/recipeplus/internal/logger"
)

// DefaultThreshold is how long the user must be idle before the hint shows.
const DefaultThreshold = 10 * time.Second

// State is the monitor's position in the two-state machine.
type State int

const (
	// Idle means no hint is showing; the user interacted recently.
	Idle State = iota
	// Hinting means the threshold passed without interaction.
	Hinting
)

// String returns a human-readable state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hinting:
		return "hinting"
	default:
		return "unknown"
	}
}

// Option configures the monitor.
type Option func(*Monitor)

// WithThreshold sets the idle period after which the hint shows. Zero
// disables the hint.
func WithThreshold(d time.Duration) Option {
	return func(m *Monitor) {
		m.threshold = d
	}
}

// WithTickInterval sets how often a started monitor checks the clock.
func WithTickInterval(d time.Duration) Option {
	return func(m *Monitor) {
		m.tickInterval = d
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// WithOnHint registers a callback fired on every Idle -> Hinting transition.
// It runs on the monitor goroutine when the monitor is started, or on the
// caller's goroutine when Tick is driven by hand.
func WithOnHint(fn func()) Option {
	return func(m *Monitor) {
		m.onHint = fn
	}
}

// Monitor tracks the last interaction and raises the hint flag once per
// idle period. Tick and Touch may be driven by hand (a UI event loop) or by
// Start, which runs its own ticker.
type Monitor struct {
	log          *logger.Logger
	tickInterval time.Duration
	now          func() time.Time
	onHint       func()

	mu              sync.Mutex
	threshold       time.Duration
	state           State
	lastInteraction time.Time

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a monitor. The idle period starts now.
func New(log *logger.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		log:          log,
		tickInterval: 1 * time.Second,
		now:          time.Now,
		threshold:    DefaultThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastInteraction = m.now()
	return m
}

// Touch records a user interaction and clears the hint.
func (m *Monitor) Touch(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Hinting {
		m.log.Debug("idle: interaction, hint cleared")
	}
	m.lastInteraction = now
	m.state = Idle
}

// Interact is Touch at the monitor's clock.
func (m *Monitor) Interact() {
	m.Touch(m.now())
}

// Tick evaluates the machine at now. It returns true only on the tick that
// moves Idle -> Hinting.
func (m *Monitor) Tick(now time.Time) bool {
	m.mu.Lock()
	fired := false
	if m.state == Idle && m.threshold > 0 && now.Sub(m.lastInteraction) > m.threshold {
		m.state = Hinting
		fired = true
		m.log.Debug("idle: no interaction for %s, showing hint", now.Sub(m.lastInteraction).Round(time.Second))
	}
	onHint := m.onHint
	m.mu.Unlock()

	if fired && onHint != nil {
		onHint()
	}
	return fired
}

// ShowHint reports whether the hint flag is up.
func (m *Monitor) ShowHint() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Hinting
}

// State returns the current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetThreshold changes the idle period live. Zero disables the hint and
// clears it if it is showing.
func (m *Monitor) SetThreshold(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.threshold = d
	if d <= 0 {
		m.state = Idle
	}
	m.log.Debug("idle: threshold set to %s", d)
}

// Threshold returns the current idle period.
func (m *Monitor) Threshold() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// Start begins ticking in the background. Non-blocking. A monitor whose
// context was cancelled can be started again.
func (m *Monitor) Start(ctx context.Context) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if m.running {
		select {
		case <-m.done:
			m.cancel()
			m.running = false
		default:
			m.log.Warn("idle monitor already running")
			return
		}
	}

	childCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	go m.loop(childCtx, m.done)

	m.log.Debug("idle monitor started (tick=%s, threshold=%s)", m.tickInterval, m.Threshold())
}

// Stop halts the ticker and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if !m.running {
		return
	}

	m.cancel()
	<-m.done
	m.running = false
	m.log.Debug("idle monitor stopped")
}

func (m *Monitor) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick(m.now())
		}
	}
}
