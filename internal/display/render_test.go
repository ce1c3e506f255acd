package display

import (
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/hammamikhairi/recipeplus/internal/catalog"
	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/logger"
	"github.com/hammamikhairi/recipeplus/internal/settings"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripANSI(s string) string { return ansi.ReplaceAllString(s, "") }

func lipglossRenderer(p termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(p)
	return r
}

func newTestRenderer(t *testing.T, p termenv.Profile) (*Renderer, *lipgloss.Renderer) {
	t.Helper()
	lr := lipglossRenderer(p)
	r, err := NewRenderer(NewTheme(settings.Defaults(), lr), logger.New(logger.LevelOff, nil),
		WithMarkdownStyle("notty"), WithCacheSize(8))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r, lr
}

func TestStepPreservesText(t *testing.T) {
	for _, p := range []termenv.Profile{termenv.Ascii, termenv.TrueColor} {
		r, _ := newTestRenderer(t, p)
		for _, text := range []string{
			"",
			"plain text",
			"Wait {01:45} and stir",
			"Set {Oven:00:20} now",
			"{00:01}{00:02}",
			"tabs\tstay\tput {T:00:01}",
			"two\nlines {L:00:03}\n\nand a gap",
			"  leading and trailing  ",
			"Use {12} then {1:2:3}",
		} {
			got := r.Step(text)
			if p == termenv.Ascii && got != text {
				t.Fatalf("ascii Step(%q) = %q", text, got)
			}
			if stripANSI(got) != text {
				t.Fatalf("Step(%q) lost characters: %q", text, stripANSI(got))
			}
		}
	}
}

func TestStepHighlightsTimers(t *testing.T) {
	r, _ := newTestRenderer(t, termenv.TrueColor)
	theme := r.Theme()

	got := r.Step("Set {Oven:00:20} now")
	want := theme.Body.Render("Set ") + theme.Timer.Render("{Oven:00:20}") + theme.Body.Render(" now")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if theme.Timer.Render("x") == theme.Body.Render("x") {
		t.Fatal("timer and body styles should differ")
	}
}

func TestStepCache(t *testing.T) {
	r, lr := newTestRenderer(t, termenv.TrueColor)

	first := r.Step("Bake{Oven:00:30}")
	r.Step("Bake{Oven:00:30}")
	r.Step("Rest")
	if r.CacheLen() != 2 {
		t.Fatalf("expected 2 cached steps, got %d", r.CacheLen())
	}

	dark := settings.Defaults()
	dark.Appearance = settings.Dark
	if err := r.SetTheme(NewTheme(dark, lr)); err != nil {
		t.Fatal(err)
	}
	if r.CacheLen() != 0 {
		t.Fatalf("theme change must purge the cache, have %d", r.CacheLen())
	}
	if r.Step("Bake{Oven:00:30}") == first {
		t.Fatal("expected new colors after theme change")
	}
}

func TestStepIgnoresRenderingFromOldTheme(t *testing.T) {
	r, lr := newTestRenderer(t, termenv.TrueColor)
	const text = "Bake{Oven:00:30}"

	r.mu.RLock()
	oldGen := r.gen
	r.mu.RUnlock()

	dark := settings.Defaults()
	dark.Appearance = settings.Dark
	if err := r.SetTheme(NewTheme(dark, lr)); err != nil {
		t.Fatal(err)
	}

	// A render that read the old theme finishes after the purge.
	r.steps.Add(stepKey{gen: oldGen, text: text}, "stale")

	if got := r.Step(text); got == "stale" {
		t.Fatal("served a rendering made with the previous theme")
	}
}

func TestFollowSettings(t *testing.T) {
	r, lr := newTestRenderer(t, termenv.TrueColor)
	store := settings.NewMemory(logger.New(logger.LevelOff, nil), settings.Defaults())
	cancel := r.Follow(store, lr)
	defer cancel()

	r.Step("Boil{00:10}")
	if err := store.Set("primary-color", "purple"); err != nil {
		t.Fatal(err)
	}
	if r.Theme().Primary != Color(settings.ColorPurple, settings.Light) {
		t.Fatalf("renderer did not follow settings, primary=%s", r.Theme().Primary)
	}
	if r.CacheLen() != 0 {
		t.Fatal("expected cache purge on settings change")
	}
}

func TestColorFallsBackToGray(t *testing.T) {
	if Color(settings.ColorTag(42), settings.Dark) != Color(settings.ColorGray, settings.Dark) {
		t.Fatal("unknown tag should render gray")
	}
	if Color(settings.ColorRed, settings.Dark) == Color(settings.ColorRed, settings.Light) {
		t.Fatal("dark and light variants should differ")
	}
}

func TestRecipeDetail(t *testing.T) {
	r, _ := newTestRenderer(t, termenv.Ascii)
	rec := &domain.Recipe{
		Name:     "Pancakes",
		Section:  "Breakfast",
		Favorite: true,
		Ingredients: []domain.Ingredient{
			{Name: "flour", Quantity: "2", Unit: "Cup(s)", TimeAmount: "5", TimeUnit: "Minutes", Difficulty: "Easy"},
		},
		Steps:   []domain.Step{{Text: "Whisk"}, {Text: "Fry{Pan:00:03}"}},
		SavedAt: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC),
	}

	out, err := r.RecipeDetail(rec)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	for _, want := range []string{"Pancakes", "Breakfast", "Ingredients", "flour", "Easy", " 1. Whisk", " 2. Fry{Pan:00:03}"} {
		if !strings.Contains(out, want) {
			t.Fatalf("detail missing %q:\n%s", want, out)
		}
	}

	rec.Steps = nil
	out, err = r.RecipeDetail(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No steps found.") {
		t.Fatalf("expected empty-steps message:\n%s", out)
	}
}

func TestIngredientLine(t *testing.T) {
	tests := []struct {
		in   domain.Ingredient
		want string
	}{
		{domain.Ingredient{Name: "salt"}, "salt"},
		{domain.Ingredient{Name: "flour", Quantity: "2", Unit: "Cup(s)"}, "2 Cup(s) flour"},
		{domain.Ingredient{Name: "rice", Quantity: "1", TimeAmount: "20", TimeUnit: "Minutes", Difficulty: "Easy"}, "1 rice (20 Minutes, Easy)"},
	}
	for _, tt := range tests {
		if got := ingredientLine(tt.in); got != tt.want {
			t.Fatalf("ingredientLine(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecipeList(t *testing.T) {
	r, _ := newTestRenderer(t, termenv.Ascii)

	if got := r.RecipeList(nil); !strings.Contains(got, "No recipes yet.") {
		t.Fatalf("unexpected empty list %q", got)
	}

	groups := []catalog.Group{
		{Section: "Breakfast", Recipes: []domain.RecipeSummary{{ID: "0123456789", Name: "Oats", Favorite: true}}},
		{Section: "Dinner", Recipes: []domain.RecipeSummary{{ID: "abc", Name: "Chili", HasPhoto: true}}},
	}
	out := r.RecipeList(groups)
	for _, want := range []string{"Breakfast", "★ Oats", "01234567", "Dinner", "Chili [photo]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Breakfast") > strings.Index(out, "Dinner") {
		t.Fatal("groups out of order")
	}
}

func TestCenterLines(t *testing.T) {
	st := lipglossRenderer(termenv.Ascii).NewStyle()
	got := centerLines("ab\nabcd\n", 20, st)
	want := strings.Repeat(" ", 8) + "ab\n" + strings.Repeat(" ", 8) + "abcd\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := centerLines("wide", 2, st); got != "wide\n" {
		t.Fatalf("narrow terminal should not pad, got %q", got)
	}
}
