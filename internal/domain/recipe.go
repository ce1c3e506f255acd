// Package domain defines the core types and interfaces for Recipe+.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"strings"
	"time"
)

// DefaultSection is the section a recipe lands in when none is given.
const DefaultSection = "Uncategorized"

// Recipe is a complete recipe as the user authored it.
type Recipe struct {
	ID          string
	Name        string
	Section     string // section name, never empty once saved
	Favorite    bool
	Ingredients []Ingredient
	Steps       []Step
	Photo       []byte // JPEG, nil when the recipe has no photo
	SavedAt     time.Time
}

// Summary returns the lightweight listing view of r.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:       r.ID,
		Name:     r.Name,
		Section:  r.Section,
		Favorite: r.Favorite,
		HasPhoto: len(r.Photo) > 0,
		SavedAt:  r.SavedAt,
	}
}

// StepTexts returns the raw text of every step in order.
func (r *Recipe) StepTexts() []string {
	out := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Text
	}
	return out
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID       string
	Name     string
	Section  string
	Favorite bool
	HasPhoto bool
	SavedAt  time.Time
}

// Ingredient is a single ingredient line. Every field is free text; the
// editor offers unit pickers but nothing downstream interprets them.
type Ingredient struct {
	ID         string
	RecipeID   string
	Position   int
	Name       string
	Quantity   string
	Unit       string // "cups", "tbsp", "g", ...
	TimeAmount string // prep time for this ingredient, e.g. "5"
	TimeUnit   string // "min", "hr"
	Difficulty string // "Easy", "Medium", "Hard"
}

// Step is one instruction. Text may carry timer tags like {Oven:00:20}.
type Step struct {
	ID       string
	RecipeID string
	Position int
	Text     string
}

// Section groups recipes by name.
type Section struct {
	ID   string
	Name string
}

// NormalizeSection trims name and substitutes DefaultSection for blanks.
func NormalizeSection(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultSection
	}
	return name
}

// Draft is a recipe as entered, before it is stored. Steps are raw text;
// Photo holds the undecoded image the user picked, if any.
type Draft struct {
	Name        string
	Section     string
	Favorite    bool
	Ingredients []Ingredient
	Steps       []string
	Photo       []byte
}

// Pickers offered by the recipe editor. Ingredient fields stay free text,
// so these are suggestions rather than a closed set.
var (
	CookingUnits = []string{"Cup(s)", "Tbsp", "Tspn", "Oz", "Misc"}
	TimeUnits    = []string{"Minutes", "Hours"}
	Difficulties = []string{"Easy", "Moderate", "Hard"}
)
