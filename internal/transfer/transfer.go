// Package transfer moves recipes in and out of the app as TOML files.
// Photos stay behind; everything else round-trips.
package transfer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/hammamikhairi/recipeplus/internal/domain"
)

// FormatVersion is written to every export.
const FormatVersion = 1

// ErrVersion is returned for files written by a newer format.
var ErrVersion = errors.New("unsupported recipe file version")

type file struct {
	Version int      `toml:"version"`
	Recipes []recipe `toml:"recipe"`
}

type recipe struct {
	Name        string       `toml:"name"`
	Section     string       `toml:"section,omitempty"`
	Favorite    bool         `toml:"favorite,omitempty"`
	Steps       []string     `toml:"steps"`
	Ingredients []ingredient `toml:"ingredient,omitempty"`
}

type ingredient struct {
	Name       string `toml:"name"`
	Quantity   string `toml:"quantity,omitempty"`
	Unit       string `toml:"unit,omitempty"`
	TimeAmount string `toml:"time_amount,omitempty"`
	TimeUnit   string `toml:"time_unit,omitempty"`
	Difficulty string `toml:"difficulty,omitempty"`
}

// Export writes recipes to w.
func Export(w io.Writer, recipes []*domain.Recipe) error {
	f := file{Version: FormatVersion, Recipes: make([]recipe, 0, len(recipes))}
	for _, r := range recipes {
		out := recipe{
			Name:     r.Name,
			Section:  r.Section,
			Favorite: r.Favorite,
			Steps:    r.StepTexts(),
		}
		for _, ing := range r.Ingredients {
			out.Ingredients = append(out.Ingredients, ingredient{
				Name:       ing.Name,
				Quantity:   ing.Quantity,
				Unit:       ing.Unit,
				TimeAmount: ing.TimeAmount,
				TimeUnit:   ing.TimeUnit,
				Difficulty: ing.Difficulty,
			})
		}
		f.Recipes = append(f.Recipes, out)
	}
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("encoding recipes: %w", err)
	}
	return nil
}

// Import reads drafts from r. Unknown keys are rejected so typos in a
// hand-written file surface instead of silently dropping data.
func Import(r io.Reader) ([]domain.Draft, error) {
	var f file
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&f); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("decoding recipes: %s", strict.String())
		}
		return nil, fmt.Errorf("decoding recipes: %w", err)
	}
	if f.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}

	drafts := make([]domain.Draft, 0, len(f.Recipes))
	for i, rec := range f.Recipes {
		if strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("recipe #%d: %w", i+1, domain.ErrNameRequired)
		}
		d := domain.Draft{
			Name:     rec.Name,
			Section:  rec.Section,
			Favorite: rec.Favorite,
			Steps:    rec.Steps,
		}
		for _, ing := range rec.Ingredients {
			d.Ingredients = append(d.Ingredients, domain.Ingredient{
				Name:       ing.Name,
				Quantity:   ing.Quantity,
				Unit:       ing.Unit,
				TimeAmount: ing.TimeAmount,
				TimeUnit:   ing.TimeUnit,
				Difficulty: ing.Difficulty,
			})
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}
