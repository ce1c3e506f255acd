package display

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru"

	"github.com/hammamikhairi/recipeplus/internal/catalog"
	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/logger"
	"github.com/hammamikhairi/recipeplus/internal/settings"
	"github.com/hammamikhairi/recipeplus/internal/steptext"
)

// DefaultCacheSize bounds the rendered-step cache.
const DefaultCacheSize = 256

// Renderer turns recipes and step text into styled terminal output.
// Safe for concurrent use; the theme can be swapped while rendering.
type Renderer struct {
	mu        sync.RWMutex
	theme     Theme
	gen       uint64 // bumped by SetTheme; part of every cache key
	steps     *lru.Cache
	md        *glamour.TermRenderer
	mdStyle   string // forced glamour style, empty to follow the theme
	width     int
	cacheSize int
	log       *logger.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithWidth sets the wrap width for markdown sections.
func WithWidth(n int) RendererOption {
	return func(r *Renderer) { r.width = n }
}

// WithCacheSize sets how many rendered steps are kept.
func WithCacheSize(n int) RendererOption {
	return func(r *Renderer) { r.cacheSize = n }
}

// WithMarkdownStyle forces a glamour standard style ("notty", "ascii",
// "dark", ...) instead of following the theme.
func WithMarkdownStyle(style string) RendererOption {
	return func(r *Renderer) { r.mdStyle = style }
}

// NewRenderer creates a renderer for theme.
func NewRenderer(theme Theme, log *logger.Logger, opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{width: 80, cacheSize: DefaultCacheSize, log: log}
	for _, o := range opts {
		o(r)
	}
	cache, err := lru.New(r.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("step cache: %w", err)
	}
	r.steps = cache
	if err := r.SetTheme(theme); err != nil {
		return nil, err
	}
	return r, nil
}

// Theme returns the active theme.
func (r *Renderer) Theme() Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.theme
}

// SetTheme switches styles and drops every cached rendering.
func (r *Renderer) SetTheme(t Theme) error {
	style := r.mdStyle
	if style == "" {
		style = t.MarkdownStyle()
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}

	r.mu.Lock()
	r.theme = t
	r.md = md
	r.gen++
	r.mu.Unlock()

	r.steps.Purge()
	r.log.Debug("theme set: %s, primary %s", t.Appearance, t.Primary)
	return nil
}

// Follow re-themes the renderer on every settings change. The returned
// func stops following.
func (r *Renderer) Follow(store *settings.Store, lr *lipgloss.Renderer) (cancel func()) {
	return store.Subscribe(func(s settings.Settings) {
		if err := r.SetTheme(NewTheme(s, lr)); err != nil {
			r.log.Warn("applying settings: %v", err)
		}
	})
}

// CacheLen reports how many rendered steps are cached.
func (r *Renderer) CacheLen() int { return r.steps.Len() }

// Step renders step text: timer tags bold in the primary color, the rest
// in the body style. Every character of text appears in the output in
// order; only styling is added.
func (r *Renderer) Step(text string) string {
	r.mu.RLock()
	t, key := r.theme, stepKey{gen: r.gen, text: text}
	r.mu.RUnlock()

	if v, ok := r.steps.Get(key); ok {
		return v.(string)
	}

	var b strings.Builder
	for seg := range steptext.Annotate(text) {
		if seg.Kind == steptext.Timer {
			b.WriteString(paint(t.Timer, seg.Value))
		} else {
			b.WriteString(paint(t.Body, seg.Value))
		}
	}
	out := b.String()
	r.steps.Add(key, out)
	return out
}

// stepKey ties a cached rendering to the theme it was drawn with, so a
// rendering that races a theme change is never served afterwards.
type stepKey struct {
	gen  uint64
	text string
}

// paint styles s line by line so lipgloss never pads multi-line text.
func paint(st lipgloss.Style, s string) string {
	if !strings.Contains(s, "\n") {
		return st.Render(s)
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = st.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// RecipeList renders grouped summaries, one section header per group.
func (r *Renderer) RecipeList(groups []catalog.Group) string {
	t := r.Theme()
	if len(groups) == 0 {
		return t.Muted.Render("No recipes yet.") + "\n"
	}

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.Section.Render(g.Section))
		b.WriteByte('\n')
		for _, s := range g.Recipes {
			star := "  "
			if s.Favorite {
				star = t.Favorite.Render("★") + " "
			}
			photo := ""
			if s.HasPhoto {
				photo = t.Muted.Render(" [photo]")
			}
			fmt.Fprintf(&b, "  %s%s%s  %s\n", star, t.Body.Render(s.Name), photo,
				t.Muted.Render(s.SavedAt.Local().Format("Jan 2, 2006")+"  "+shortID(s.ID)))
		}
	}
	return b.String()
}

// RecipeDetail renders the header and ingredients as markdown, then each
// step through Step.
func (r *Renderer) RecipeDetail(rec *domain.Recipe) (string, error) {
	r.mu.RLock()
	md := r.md
	t := r.theme
	r.mu.RUnlock()

	head, err := md.Render(detailMarkdown(rec))
	if err != nil {
		return "", fmt.Errorf("rendering %q: %w", rec.Name, err)
	}

	var b strings.Builder
	b.WriteString(head)
	if len(rec.Steps) == 0 {
		b.WriteString("  " + t.Muted.Render("No steps found.") + "\n")
		return b.String(), nil
	}
	b.WriteString("  " + t.Title.Render("Steps") + "\n\n")
	for i, st := range rec.Steps {
		fmt.Fprintf(&b, "  %s %s\n", t.Muted.Render(fmt.Sprintf("%2d.", i+1)), r.Step(st.Text))
	}
	return b.String(), nil
}

func detailMarkdown(rec *domain.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rec.Name)

	meta := []string{"*" + rec.Section + "*"}
	if rec.Favorite {
		meta = append(meta, "★ favorite")
	}
	if len(rec.Photo) > 0 {
		meta = append(meta, "has photo")
	}
	meta = append(meta, "saved "+rec.SavedAt.Local().Format("Jan 2, 2006 15:04"))
	b.WriteString(strings.Join(meta, " · ") + "\n\n")

	b.WriteString("## Ingredients\n\n")
	if len(rec.Ingredients) == 0 {
		b.WriteString("_none listed_\n")
	}
	for _, ing := range rec.Ingredients {
		b.WriteString("- " + ingredientLine(ing) + "\n")
	}
	return b.String()
}

func ingredientLine(ing domain.Ingredient) string {
	parts := []string{}
	for _, p := range []string{ing.Quantity, ing.Unit, ing.Name} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	line := strings.Join(parts, " ")

	var extra []string
	if ing.TimeAmount != "" {
		extra = append(extra, strings.TrimSpace(ing.TimeAmount+" "+ing.TimeUnit))
	}
	if ing.Difficulty != "" {
		extra = append(extra, ing.Difficulty)
	}
	if len(extra) > 0 {
		line += " (" + strings.Join(extra, ", ") + ")"
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
