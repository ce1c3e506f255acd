// Package storage provides recipe persistence implementations.
package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory recipe store. Safe for concurrent access.
// Callers get copies; mutating a returned recipe does not touch the store.
type MemoryStore struct {
	mu       sync.RWMutex
	recipes  map[string]*domain.Recipe
	sections map[string]domain.Section // keyed by name
	log      *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		recipes:  make(map[string]*domain.Recipe),
		sections: make(map[string]domain.Section),
		log:      log,
	}
}

// SaveRecipe inserts or replaces a recipe. Missing IDs are assigned in place.
func (s *MemoryStore) SaveRecipe(ctx context.Context, r *domain.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.ErrNameRequired
	}
	prepare(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving recipe %s (%q, section=%s)", r.ID, r.Name, r.Section)
	s.recipes[r.ID] = cloneRecipe(r)
	return nil
}

// Recipe retrieves a recipe by ID.
func (s *MemoryStore) Recipe(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return cloneRecipe(r), nil
}

// ListRecipes returns every recipe, newest first.
func (s *MemoryStore) ListRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, cloneRecipe(r))
	}
	sortNewestFirst(out)
	s.log.Debug("listing recipes, count=%d", len(out))
	return out, nil
}

// DeleteRecipe removes a recipe together with its ingredients and steps.
func (s *MemoryStore) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.recipes, id)
	s.log.Debug("deleted recipe %s", id)
	return nil
}

// SetFavorite flags or unflags a recipe.
func (s *MemoryStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Favorite = favorite
	return nil
}

// DeleteAll erases every recipe and section.
func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipes = make(map[string]*domain.Recipe)
	s.sections = make(map[string]domain.Section)
	s.log.Info("erased all recipes and sections")
	return nil
}

// Sections returns all sections sorted by name.
func (s *MemoryStore) Sections(ctx context.Context) ([]domain.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Section, 0, len(s.sections))
	for _, sec := range s.sections {
		out = append(out, sec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SaveSection creates a section. Names are unique.
func (s *MemoryStore) SaveSection(ctx context.Context, sec *domain.Section) error {
	sec.Name = strings.TrimSpace(sec.Name)
	if sec.Name == "" {
		return domain.ErrNameRequired
	}
	if sec.ID == "" {
		sec.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sections[sec.Name]; ok {
		return domain.ErrAlreadyExists
	}
	s.sections[sec.Name] = *sec
	return nil
}

// RenameSection renames a section and every recipe filed under it.
func (s *MemoryStore) RenameSection(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sections[oldName]
	if !ok {
		return domain.ErrNotFound
	}
	if oldName == newName {
		return nil
	}
	if _, taken := s.sections[newName]; taken {
		return domain.ErrAlreadyExists
	}
	delete(s.sections, oldName)
	sec.Name = newName
	s.sections[newName] = sec

	moved := 0
	for _, r := range s.recipes {
		if r.Section == oldName {
			r.Section = newName
			moved++
		}
	}
	s.log.Debug("renamed section %q -> %q (%d recipes)", oldName, newName, moved)
	return nil
}

// DeleteSection removes a section and files its recipes under the default.
func (s *MemoryStore) DeleteSection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sections[name]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sections, name)
	for _, r := range s.recipes {
		if r.Section == name {
			r.Section = domain.DefaultSection
		}
	}
	s.log.Debug("deleted section %q", name)
	return nil
}

// prepare fills IDs, ownership, positions and defaults before a save.
func prepare(r *domain.Recipe) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Section = domain.NormalizeSection(r.Section)
	if r.SavedAt.IsZero() {
		r.SavedAt = time.Now()
	}
	r.SavedAt = r.SavedAt.UTC()
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		if ing.ID == "" {
			ing.ID = uuid.NewString()
		}
		ing.RecipeID = r.ID
		ing.Position = i
	}
	for i := range r.Steps {
		st := &r.Steps[i]
		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		st.RecipeID = r.ID
		st.Position = i
	}
}

func cloneRecipe(r *domain.Recipe) *domain.Recipe {
	c := *r
	c.Ingredients = append([]domain.Ingredient(nil), r.Ingredients...)
	c.Steps = append([]domain.Step(nil), r.Steps...)
	if r.Photo != nil {
		c.Photo = append([]byte(nil), r.Photo...)
	}
	return &c
}

func sortNewestFirst(rs []*domain.Recipe) {
	sort.SliceStable(rs, func(i, j int) bool {
		if !rs[i].SavedAt.Equal(rs[j].SavedAt) {
			return rs[i].SavedAt.After(rs[j].SavedAt)
		}
		return rs[i].Name < rs[j].Name
	})
}
