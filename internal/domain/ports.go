package domain

import "context"

// RecipeStore persists recipes, their ingredients and steps, and the
// sections they are filed under. Implementations can be in-memory or
// SQLite; both honour the same ownership rules:
//
//   - deleting a recipe deletes its ingredients and steps,
//   - renaming a section renames it on every recipe that uses it,
//   - deleting a section moves its recipes to DefaultSection.
type RecipeStore interface {
	SaveRecipe(ctx context.Context, r *Recipe) error
	Recipe(ctx context.Context, id string) (*Recipe, error)
	ListRecipes(ctx context.Context) ([]*Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	SetFavorite(ctx context.Context, id string, favorite bool) error
	DeleteAll(ctx context.Context) error

	Sections(ctx context.Context) ([]Section, error)
	SaveSection(ctx context.Context, s *Section) error
	RenameSection(ctx context.Context, oldName, newName string) error
	DeleteSection(ctx context.Context, name string) error
}

// Notifier delivers messages to the user. Implementations can write to
// stdout or a TUI.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
