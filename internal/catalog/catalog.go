// Package catalog is the recipe book: creating, editing, filing and
// finding recipes on top of a domain.RecipeStore.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/logger"
	"github.com/hammamikhairi/recipeplus/internal/photo"
)

// DefaultImageQuality is used when no quality source is configured.
const DefaultImageQuality = 0.8

// Catalog manages recipes and sections.
type Catalog struct {
	store   domain.RecipeStore
	log     *logger.Logger
	quality func() float64
	now     func() time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithImageQuality sets where photo quality is read from on each save,
// typically the live settings snapshot.
func WithImageQuality(fn func() float64) Option {
	return func(c *Catalog) { c.quality = fn }
}

// WithClock overrides time.Now for SavedAt stamps.
func WithClock(fn func() time.Time) Option {
	return func(c *Catalog) { c.now = fn }
}

// New creates a catalog over store.
func New(store domain.RecipeStore, log *logger.Logger, opts ...Option) *Catalog {
	c := &Catalog{
		store:   store,
		log:     log,
		quality: func() float64 { return DefaultImageQuality },
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Create stores a new recipe built from d. The section is created if it
// does not exist yet, and the photo is re-encoded as JPEG.
func (c *Catalog) Create(ctx context.Context, d domain.Draft) (*domain.Recipe, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, domain.ErrNameRequired
	}

	r := &domain.Recipe{
		Name:        d.Name,
		Section:     domain.NormalizeSection(d.Section),
		Favorite:    d.Favorite,
		Ingredients: append([]domain.Ingredient(nil), d.Ingredients...),
		SavedAt:     c.now(),
	}
	for _, text := range d.Steps {
		r.Steps = append(r.Steps, domain.Step{Text: text})
	}

	if len(d.Photo) > 0 {
		jpg, err := c.encodePhoto(d.Photo)
		if err != nil {
			return nil, err
		}
		r.Photo = jpg
	}

	if err := c.ensureSection(ctx, r.Section); err != nil {
		return nil, err
	}
	if err := c.store.SaveRecipe(ctx, r); err != nil {
		return nil, fmt.Errorf("saving recipe: %w", err)
	}
	c.log.Info("created recipe %q in %s (%d steps)", r.Name, r.Section, len(r.Steps))
	return r, nil
}

// Update replaces an existing recipe and refreshes its SavedAt.
func (c *Catalog) Update(ctx context.Context, r *domain.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.ErrNameRequired
	}
	if _, err := c.store.Recipe(ctx, r.ID); err != nil {
		return err
	}
	r.Section = domain.NormalizeSection(r.Section)
	if err := c.ensureSection(ctx, r.Section); err != nil {
		return err
	}
	r.SavedAt = c.now()
	if err := c.store.SaveRecipe(ctx, r); err != nil {
		return fmt.Errorf("updating recipe: %w", err)
	}
	c.log.Info("recipe updated: %s", r.Name)
	return nil
}

// Get returns a recipe by ID.
func (c *Catalog) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	return c.store.Recipe(ctx, id)
}

// Find resolves ref as an ID first, then as an exact (case-insensitive)
// name. Ambiguous names resolve to the newest recipe.
func (c *Catalog) Find(ctx context.Context, ref string) (*domain.Recipe, error) {
	r, err := c.store.Recipe(ctx, ref)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	all, err := c.store.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range all {
		if strings.EqualFold(r.Name, strings.TrimSpace(ref)) {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// SetPhoto replaces a recipe's photo, re-encoded at the configured image
// quality. An empty raw removes the photo.
func (c *Catalog) SetPhoto(ctx context.Context, id string, raw []byte) (*domain.Recipe, error) {
	r, err := c.store.Recipe(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Photo = nil
	if len(raw) > 0 {
		if r.Photo, err = c.encodePhoto(raw); err != nil {
			return nil, err
		}
	}
	r.SavedAt = c.now()
	if err := c.store.SaveRecipe(ctx, r); err != nil {
		return nil, fmt.Errorf("saving photo: %w", err)
	}
	if r.Photo == nil {
		c.log.Info("photo of %q removed", r.Name)
	} else {
		c.log.Info("photo of %q replaced", r.Name)
	}
	return r, nil
}

func (c *Catalog) encodePhoto(raw []byte) ([]byte, error) {
	jpg, err := photo.Encode(bytes.NewReader(raw), c.quality())
	if err != nil {
		return nil, fmt.Errorf("recipe photo: %w", err)
	}
	return jpg, nil
}

// Delete removes a recipe with its ingredients and steps.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.store.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	c.log.Info("deleted recipe %s", id)
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (c *Catalog) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	r, err := c.store.Recipe(ctx, id)
	if err != nil {
		return false, err
	}
	fav := !r.Favorite
	if err := c.store.SetFavorite(ctx, id, fav); err != nil {
		return false, err
	}
	return fav, nil
}

// SetFavorite sets the favorite flag.
func (c *Catalog) SetFavorite(ctx context.Context, id string, favorite bool) error {
	return c.store.SetFavorite(ctx, id, favorite)
}

// List returns summaries of every recipe, newest first.
func (c *Catalog) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	all, err := c.store.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecipeSummary, len(all))
	for i, r := range all {
		out[i] = r.Summary()
	}
	return out, nil
}

// Favorites returns summaries of favorite recipes, newest first.
func (c *Catalog) Favorites(ctx context.Context) ([]domain.RecipeSummary, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return keep(all, OnlyFavorites), nil
}

// EraseAll deletes every recipe, ingredient, step and section.
func (c *Catalog) EraseAll(ctx context.Context) error {
	c.log.Warn("erasing all data")
	return c.store.DeleteAll(ctx)
}

func (c *Catalog) ensureSection(ctx context.Context, name string) error {
	if name == domain.DefaultSection {
		return nil
	}
	err := c.store.SaveSection(ctx, &domain.Section{Name: name})
	switch {
	case err == nil:
		c.log.Debug("created section %q", name)
		return nil
	case errors.Is(err, domain.ErrAlreadyExists):
		return nil
	default:
		return fmt.Errorf("creating section %q: %w", name, err)
	}
}

// Filter selects recipes for Grouped.
type Filter func(domain.RecipeSummary) bool

// All keeps every recipe.
func All(domain.RecipeSummary) bool { return true }

// OnlyFavorites keeps favorite recipes.
func OnlyFavorites(s domain.RecipeSummary) bool { return s.Favorite }

// Group is one section's worth of recipes.
type Group struct {
	Section string
	Recipes []domain.RecipeSummary
}

// Grouped returns the recipes kept by filter, grouped by section. Groups
// are sorted by section name; recipes in a group are newest first.
// Sections with no matching recipe are left out.
func (c *Catalog) Grouped(ctx context.Context, filter Filter) ([]Group, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return group(keep(all, filter)), nil
}

func keep(in []domain.RecipeSummary, filter Filter) []domain.RecipeSummary {
	if filter == nil {
		filter = All
	}
	var out []domain.RecipeSummary
	for _, s := range in {
		if filter(s) {
			out = append(out, s)
		}
	}
	return out
}

// group keeps the order of in within each section.
func group(in []domain.RecipeSummary) []Group {
	idx := make(map[string]int)
	var out []Group
	for _, s := range in {
		i, ok := idx[s.Section]
		if !ok {
			i = len(out)
			idx[s.Section] = i
			out = append(out, Group{Section: s.Section})
		}
		out[i].Recipes = append(out[i].Recipes, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Section < out[j].Section })
	return out
}
