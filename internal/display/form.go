package display

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/huh"

	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/settings"
	"github.com/hammamikhairi/recipeplus/internal/steptext"
)

// ErrFormAborted is returned when the cook cancels the recipe form.
var ErrFormAborted = errors.New("recipe entry cancelled")

// formValues holds the raw field contents of the recipe form.
type formValues struct {
	name        string
	section     string
	ingredients string // one per line: "2 Cup(s) flour"
	difficulty  string
	steps       string // one per line
	photoPath   string
	favorite    bool
}

// RecipeForm asks for a new recipe interactively. sections are offered as
// suggestions for the section field.
func RecipeForm(sections []string, t Theme) (domain.Draft, error) {
	var v formValues

	difficulty := []huh.Option[string]{huh.NewOption("Not set", "")}
	for _, d := range domain.Difficulties {
		difficulty = append(difficulty, huh.NewOption(d, d))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("What is this recipe called? (required)").
				Placeholder("e.g., Chicken Alfredo").
				Value(&v.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Section").
				Description("Leave empty for " + domain.DefaultSection).
				Suggestions(sections).
				Value(&v.section),

			huh.NewConfirm().
				Title("Favorite?").
				Value(&v.favorite),
		),

		huh.NewGroup(
			huh.NewText().
				Title("Ingredients").
				Description("One per line: quantity, unit, name. Units: " + strings.Join(domain.CookingUnits, ", ")).
				Placeholder("2 Cup(s) flour\n1 Tbsp sugar").
				CharLimit(5000).
				Value(&v.ingredients),

			huh.NewSelect[string]().
				Title("Difficulty").
				Options(difficulty...).
				Value(&v.difficulty),
		),

		huh.NewGroup(
			huh.NewText().
				Title("Steps").
				Description("One per line. Add a timer with " + steptext.Placeholder + " or {Label:HH:MM}.").
				Placeholder("Preheat the oven{Oven:00:15}").
				CharLimit(10000).
				Value(&v.steps),

			huh.NewInput().
				Title("Photo").
				Description("Path to a PNG, JPEG or GIF (optional)").
				Value(&v.photoPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := os.Stat(strings.TrimSpace(s))
					return err
				}),
		),
	).WithTheme(formTheme(t))

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return domain.Draft{}, ErrFormAborted
		}
		return domain.Draft{}, fmt.Errorf("recipe form: %w", err)
	}

	d := v.draft()
	if p := strings.TrimSpace(v.photoPath); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			return domain.Draft{}, fmt.Errorf("reading photo: %w", err)
		}
		d.Photo = data
	}
	return d, nil
}

func formTheme(t Theme) *huh.Theme {
	if t.Appearance == settings.Dark {
		return huh.ThemeDracula()
	}
	return huh.ThemeCharm()
}

// draft converts the raw form fields into a Draft. Blank lines are skipped.
func (v formValues) draft() domain.Draft {
	d := domain.Draft{
		Name:     strings.TrimSpace(v.name),
		Section:  strings.TrimSpace(v.section),
		Favorite: v.favorite,
	}
	for _, line := range strings.Split(v.ingredients, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ing := ParseIngredient(line)
		ing.Difficulty = v.difficulty
		d.Ingredients = append(d.Ingredients, ing)
	}
	for _, line := range strings.Split(v.steps, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			d.Steps = append(d.Steps, line)
		}
	}
	return d
}

// ParseIngredient reads "2 Cup(s) flour" style lines. A leading quantity
// and a known unit are optional; whatever remains is the name.
func ParseIngredient(line string) domain.Ingredient {
	fields := strings.Fields(line)
	var ing domain.Ingredient

	if len(fields) > 1 && isQuantity(fields[0]) {
		ing.Quantity = fields[0]
		fields = fields[1:]
	}
	if len(fields) > 1 {
		if unit, ok := knownUnit(fields[0]); ok {
			ing.Unit = unit
			fields = fields[1:]
		}
	}
	ing.Name = strings.Join(fields, " ")
	return ing
}

func isQuantity(s string) bool {
	digit := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r), r == '½', r == '¼', r == '¾':
			digit = true
		case r == '.', r == '/', r == ',', r == '-':
		default:
			return false
		}
	}
	return digit
}

var unitAliases = map[string]string{
	"cup": "Cup(s)", "cups": "Cup(s)", "cup(s)": "Cup(s)",
	"tbsp": "Tbsp", "tablespoon": "Tbsp", "tablespoons": "Tbsp",
	"tsp": "Tspn", "tspn": "Tspn", "teaspoon": "Tspn", "teaspoons": "Tspn",
	"oz": "Oz", "ounce": "Oz", "ounces": "Oz",
	"misc": "Misc",
}

func knownUnit(s string) (string, bool) {
	u, ok := unitAliases[strings.ToLower(s)]
	return u, ok
}
