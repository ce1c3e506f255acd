package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/recipeplus/internal/logger"
)

// Store is the single process-wide owner of the settings snapshot.
// Safe for concurrent use.
type Store struct {
	path string // empty for an unpersisted store
	log  *logger.Logger

	mu   sync.RWMutex
	snap Settings
	subs map[int]func(Settings)
	next int
}

// NewMemory creates a store that is never written to disk.
func NewMemory(log *logger.Logger, initial Settings) *Store {
	return &Store{
		log:  log,
		snap: initial.normalize(),
		subs: make(map[int]func(Settings)),
	}
}

// Open loads settings from path. A missing file yields the defaults; the
// file is created on the first change.
func Open(path string, log *logger.Logger) (*Store, error) {
	s := NewMemory(log, Defaults())
	s.path = path

	snap, err := readFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debug("settings: %s not found, using defaults", path)
	case err != nil:
		return nil, err
	default:
		s.snap = snap
	}
	return s, nil
}

// Path returns the backing file, or "" for a memory store.
func (s *Store) Path() string { return s.path }

// Snapshot returns the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers fn to receive every new snapshot. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Settings)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Update applies fn to a copy of the snapshot, persists and publishes it.
func (s *Store) Update(fn func(*Settings)) error {
	s.mu.Lock()
	next := s.snap
	fn(&next)
	next = next.normalize()
	if next == s.snap {
		s.mu.Unlock()
		return nil
	}
	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.snap = next
	subs := s.subscribers()
	s.mu.Unlock()

	s.publish(next, subs)
	return nil
}

// Set changes one setting from its string form.
func (s *Store) Set(key, value string) error {
	next, err := s.Snapshot().With(key, value)
	if err != nil {
		return err
	}
	return s.Update(func(cur *Settings) { *cur = next })
}

// Get returns one setting in string form.
func (s *Store) Get(key string) (string, error) {
	return s.Snapshot().Get(key)
}

// Reset restores the defaults.
func (s *Store) Reset() error {
	return s.Update(func(cur *Settings) { *cur = Defaults() })
}

// Watch reloads the file when it is edited outside the process and
// publishes the result. Blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("settings dir: %w", err)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	s.log.Debug("settings: watching %s", s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				s.reload()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("settings watcher: %v", err)
		}
	}
}

// reload re-reads the file and publishes if anything changed.
func (s *Store) reload() {
	snap, err := readFile(s.path)
	if err != nil {
		// Half-written files are common mid-save; the next event retries.
		s.log.Debug("settings: reload %s: %v", s.path, err)
		return
	}

	s.mu.Lock()
	if snap == s.snap {
		s.mu.Unlock()
		return
	}
	s.snap = snap
	subs := s.subscribers()
	s.mu.Unlock()

	s.log.Info("settings reloaded from %s", s.path)
	s.publish(snap, subs)
}

// subscribers returns the callbacks in registration order. Caller holds mu.
func (s *Store) subscribers() []func(Settings) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Settings), len(ids))
	for i, id := range ids {
		out[i] = s.subs[id]
	}
	return out
}

func (s *Store) publish(snap Settings, subs []func(Settings)) {
	for _, fn := range subs {
		fn(snap)
	}
}

// persist writes snap to disk via a temp file and rename. Caller holds mu.
func (s *Store) persist(snap Settings) error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("settings dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing settings: %w", err)
	}
	s.log.Debug("settings: saved %s", s.path)
	return nil
}

func readFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	snap := Defaults()
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Settings{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return snap.normalize(), nil
}
