package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/logger"
)

func quietLog() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(":memory:", quietLog())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// forEachStore runs fn against every RecipeStore implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, s domain.RecipeStore)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore(quietLog())) })
	t.Run("sqlite", func(t *testing.T) { fn(t, setupSQLite(t)) })
}

func pancakes() *domain.Recipe {
	return &domain.Recipe{
		Name:    "  Pancakes ",
		Section: "Breakfast",
		Ingredients: []domain.Ingredient{
			{Name: "Flour", Quantity: "2", Unit: "cups"},
			{Name: "Milk", Quantity: "1.5", Unit: "cups", TimeAmount: "5", TimeUnit: "min", Difficulty: "Easy"},
		},
		Steps: []domain.Step{
			{Text: "Whisk everything"},
			{Text: "Rest the batter{Rest:00:10}"},
		},
		Photo: []byte{0xff, 0xd8, 0xff},
	}
}

func TestSaveAndGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		r := pancakes()
		require.NoError(t, s.SaveRecipe(ctx, r))
		require.NotEmpty(t, r.ID)
		assert.Equal(t, "Pancakes", r.Name)
		assert.False(t, r.SavedAt.IsZero())

		got, err := s.Recipe(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pancakes", got.Name)
		assert.Equal(t, "Breakfast", got.Section)
		assert.Equal(t, []byte{0xff, 0xd8, 0xff}, got.Photo)
		assert.True(t, got.SavedAt.Equal(r.SavedAt))
		assert.Equal(t, time.UTC, got.SavedAt.Location())

		require.Len(t, got.Ingredients, 2)
		assert.Equal(t, "Flour", got.Ingredients[0].Name)
		assert.Equal(t, "Easy", got.Ingredients[1].Difficulty)
		assert.Equal(t, r.ID, got.Ingredients[1].RecipeID)
		assert.Equal(t, 1, got.Ingredients[1].Position)

		assert.Equal(t, []string{"Whisk everything", "Rest the batter{Rest:00:10}"}, got.StepTexts())
	})
}

func TestSaveRequiresName(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		err := s.SaveRecipe(context.Background(), &domain.Recipe{Name: "   "})
		assert.ErrorIs(t, err, domain.ErrNameRequired)
	})
}

func TestBlankSectionFallsBackToDefault(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		r := &domain.Recipe{Name: "Toast"}
		require.NoError(t, s.SaveRecipe(ctx, r))
		got, err := s.Recipe(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSection, got.Section)
	})
}

func TestUpdateReplacesChildren(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		r := pancakes()
		require.NoError(t, s.SaveRecipe(ctx, r))

		r.Steps = r.Steps[:1]
		r.Steps[0].Text = "Whisk and fry"
		r.Ingredients = nil
		require.NoError(t, s.SaveRecipe(ctx, r))

		got, err := s.Recipe(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Whisk and fry"}, got.StepTexts())
		assert.Empty(t, got.Ingredients)

		all, err := s.ListRecipes(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestReturnedRecipesAreCopies(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		r := pancakes()
		require.NoError(t, s.SaveRecipe(ctx, r))

		got, err := s.Recipe(ctx, r.ID)
		require.NoError(t, err)
		got.Name = "Changed"
		got.Steps[0].Text = "Changed"

		again, err := s.Recipe(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pancakes", again.Name)
		assert.Equal(t, "Whisk everything", again.Steps[0].Text)
	})
}

func TestListNewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		for i, name := range []string{"Old", "Middle", "New"} {
			r := &domain.Recipe{Name: name, SavedAt: base.Add(time.Duration(i) * time.Hour), Steps: []domain.Step{{Text: name}}}
			require.NoError(t, s.SaveRecipe(ctx, r))
		}

		all, err := s.ListRecipes(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "New", all[0].Name)
		assert.Equal(t, "Old", all[2].Name)
		assert.Equal(t, []string{"Middle"}, all[1].StepTexts())
	})
}

func TestDeleteRecipe(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		r := pancakes()
		require.NoError(t, s.SaveRecipe(ctx, r))

		require.NoError(t, s.DeleteRecipe(ctx, r.ID))
		_, err := s.Recipe(ctx, r.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, s.DeleteRecipe(ctx, r.ID), domain.ErrNotFound)
	})
}

func TestDeleteCascadesToChildRows(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()
	r := pancakes()
	require.NoError(t, s.SaveRecipe(ctx, r))
	require.NoError(t, s.DeleteRecipe(ctx, r.ID))

	for _, table := range []string{"ingredients", "steps"} {
		var n int
		require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, table)
	}
}

func TestSetFavorite(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		r := pancakes()
		require.NoError(t, s.SaveRecipe(ctx, r))

		require.NoError(t, s.SetFavorite(ctx, r.ID, true))
		got, err := s.Recipe(ctx, r.ID)
		require.NoError(t, err)
		assert.True(t, got.Favorite)

		require.NoError(t, s.SetFavorite(ctx, r.ID, false))
		got, err = s.Recipe(ctx, r.ID)
		require.NoError(t, err)
		assert.False(t, got.Favorite)

		assert.ErrorIs(t, s.SetFavorite(ctx, "missing", true), domain.ErrNotFound)
	})
}

func TestSections(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		require.NoError(t, s.SaveSection(ctx, &domain.Section{Name: "Dinner"}))
		require.NoError(t, s.SaveSection(ctx, &domain.Section{Name: " Breakfast "}))
		assert.ErrorIs(t, s.SaveSection(ctx, &domain.Section{Name: "Dinner"}), domain.ErrAlreadyExists)
		assert.ErrorIs(t, s.SaveSection(ctx, &domain.Section{Name: ""}), domain.ErrNameRequired)

		secs, err := s.Sections(ctx)
		require.NoError(t, err)
		require.Len(t, secs, 2)
		assert.Equal(t, "Breakfast", secs[0].Name)
		assert.Equal(t, "Dinner", secs[1].Name)
		assert.NotEmpty(t, secs[0].ID)
	})
}

func TestRenameSectionMovesRecipes(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		require.NoError(t, s.SaveSection(ctx, &domain.Section{Name: "Breakfast"}))
		require.NoError(t, s.SaveSection(ctx, &domain.Section{Name: "Dinner"}))
		r := pancakes()
		require.NoError(t, s.SaveRecipe(ctx, r))

		assert.ErrorIs(t, s.RenameSection(ctx, "Breakfast", "Dinner"), domain.ErrAlreadyExists)
		assert.ErrorIs(t, s.RenameSection(ctx, "Lunch", "Brunch"), domain.ErrNotFound)
		assert.ErrorIs(t, s.RenameSection(ctx, "Breakfast", " "), domain.ErrNameRequired)

		require.NoError(t, s.RenameSection(ctx, "Breakfast", "Brunch"))
		got, err := s.Recipe(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Brunch", got.Section)

		secs, err := s.Sections(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Brunch", secs[0].Name)
	})
}

func TestDeleteSectionUncategorizes(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		require.NoError(t, s.SaveSection(ctx, &domain.Section{Name: "Breakfast"}))
		r := pancakes()
		require.NoError(t, s.SaveRecipe(ctx, r))

		require.NoError(t, s.DeleteSection(ctx, "Breakfast"))
		assert.ErrorIs(t, s.DeleteSection(ctx, "Breakfast"), domain.ErrNotFound)

		got, err := s.Recipe(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSection, got.Section)
	})
}

func TestDeleteAll(t *testing.T) {
	forEachStore(t, func(t *testing.T, s domain.RecipeStore) {
		ctx := context.Background()
		require.NoError(t, s.SaveSection(ctx, &domain.Section{Name: "Breakfast"}))
		require.NoError(t, s.SaveRecipe(ctx, pancakes()))
		require.NoError(t, s.SaveRecipe(ctx, &domain.Recipe{Name: "Toast"}))

		require.NoError(t, s.DeleteAll(ctx))

		all, err := s.ListRecipes(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		secs, err := s.Sections(ctx)
		require.NoError(t, err)
		assert.Empty(t, secs)
	})
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/data/recipes.db"
	ctx := context.Background()

	s, err := OpenSQLite(path, quietLog())
	require.NoError(t, err)
	r := pancakes()
	require.NoError(t, s.SaveRecipe(ctx, r))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, quietLog())
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Recipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
	assert.Len(t, got.Steps, 2)
}

func TestOnlyUniqueViolationsAreDuplicates(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO sections (id, name) VALUES ('a', 'Soups')`)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `INSERT INTO sections (id, name) VALUES ('b', 'Soups')`)
	require.Error(t, err)
	assert.True(t, isUniqueConstraintErr(err), "duplicate name: %v", err)

	_, err = s.db.ExecContext(ctx, `INSERT INTO steps (id, recipe_id, position, text) VALUES ('s', 'missing', 0, 'x')`)
	require.Error(t, err)
	assert.False(t, isUniqueConstraintErr(err), "foreign key: %v", err)

	_, err = s.db.ExecContext(ctx, `INSERT INTO recipes (id, name, saved_at) VALUES ('r', NULL, 0)`)
	require.Error(t, err)
	assert.False(t, isUniqueConstraintErr(err), "not null: %v", err)

	assert.False(t, isUniqueConstraintErr(nil))
}
