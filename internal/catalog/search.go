package catalog

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/hammamikhairi/recipeplus/internal/domain"
)

// nameSource lets fuzzy match against recipe names.
type nameSource []domain.RecipeSummary

func (n nameSource) String(i int) string { return strings.ToLower(n[i].Name) }
func (n nameSource) Len() int            { return len(n) }

// Search finds recipes by name, ignoring case. Names containing query come
// first (newest first), followed by fuzzy matches ranked by score. An
// empty query matches nothing.
func (c *Catalog) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.RecipeSummary
	var rest nameSource
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		} else {
			rest = append(rest, s)
		}
	}
	substring := len(out)

	for _, m := range fuzzy.FindFrom(q, rest) {
		out = append(out, rest[m.Index])
	}
	c.log.Debug("search %q: %d substring, %d fuzzy", q, substring, len(out)-substring)
	return out, nil
}
