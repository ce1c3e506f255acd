package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/logger"
)

//go:embed schema.sql
var schemaSQL string

// Compile-time interface check.
var _ domain.RecipeStore = (*SQLiteStore)(nil)

// SQLiteStore keeps recipes in a SQLite file. Ingredients and steps are
// child rows with ON DELETE CASCADE, so deleting a recipe removes them.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema. Use ":memory:" for a throwaway database.
func OpenSQLite(path string, log *logger.Logger) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection: in-memory databases are per-connection, and the
	// foreign_keys pragma must hold on every statement.
	db.SetMaxOpenConns(1)

	if err := InitDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	log.Debug("sqlite store ready at %s", path)
	return &SQLiteStore{db: db, log: log}, nil
}

// InitDB enables foreign keys and runs the embedded schema.
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRecipe upserts the recipe and replaces its children in one transaction.
func (s *SQLiteStore) SaveRecipe(ctx context.Context, r *domain.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.ErrNameRequired
	}
	prepare(r)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (id, name, section, favorite, photo, saved_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				section = excluded.section,
				favorite = excluded.favorite,
				photo = excluded.photo,
				saved_at = excluded.saved_at`,
			r.ID, r.Name, r.Section, r.Favorite, r.Photo, r.SavedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("upsert recipe: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE recipe_id = ?`, r.ID); err != nil {
			return fmt.Errorf("clear ingredients: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM steps WHERE recipe_id = ?`, r.ID); err != nil {
			return fmt.Errorf("clear steps: %w", err)
		}

		for _, ing := range r.Ingredients {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO ingredients (id, recipe_id, position, name, quantity, unit, time_amount, time_unit, difficulty)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				ing.ID, r.ID, ing.Position, ing.Name, ing.Quantity, ing.Unit, ing.TimeAmount, ing.TimeUnit, ing.Difficulty)
			if err != nil {
				return fmt.Errorf("insert ingredient: %w", err)
			}
		}
		for _, st := range r.Steps {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO steps (id, recipe_id, position, text) VALUES (?, ?, ?, ?)`,
				st.ID, r.ID, st.Position, st.Text)
			if err != nil {
				return fmt.Errorf("insert step: %w", err)
			}
		}

		s.log.Debug("saved recipe %s (%q, %d ingredients, %d steps)", r.ID, r.Name, len(r.Ingredients), len(r.Steps))
		return nil
	})
}

// Recipe retrieves a recipe with its ingredients and steps.
func (s *SQLiteStore) Recipe(ctx context.Context, id string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, section, favorite, photo, saved_at FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	byID := map[string]*domain.Recipe{r.ID: r}
	if err := s.loadChildren(ctx, byID, `WHERE recipe_id = ?`, id); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecipes returns every recipe, newest first.
func (s *SQLiteStore) ListRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, section, favorite, photo, saved_at FROM recipes ORDER BY saved_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Recipe
	byID := make(map[string]*domain.Recipe)
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
		byID[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadChildren(ctx, byID, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRecipe removes a recipe; the schema cascades to its children.
func (s *SQLiteStore) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := mustAffect(res); err != nil {
		return err
	}
	s.log.Debug("deleted recipe %s", id)
	return nil
}

// SetFavorite flags or unflags a recipe.
func (s *SQLiteStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE recipes SET favorite = ? WHERE id = ?`, favorite, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// DeleteAll erases every recipe, ingredient, step and section.
func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{`DELETE FROM recipes`, `DELETE FROM sections`} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		s.log.Info("erased all recipes and sections")
	}
	return err
}

// Sections returns all sections sorted by name.
func (s *SQLiteStore) Sections(ctx context.Context) ([]domain.Section, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM sections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Section
	for rows.Next() {
		var sec domain.Section
		if err := rows.Scan(&sec.ID, &sec.Name); err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// SaveSection creates a section. Names are unique.
func (s *SQLiteStore) SaveSection(ctx context.Context, sec *domain.Section) error {
	sec.Name = strings.TrimSpace(sec.Name)
	if sec.Name == "" {
		return domain.ErrNameRequired
	}
	if sec.ID == "" {
		sec.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO sections (id, name) VALUES (?, ?)`, sec.ID, sec.Name)
	if isUniqueConstraintErr(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// RenameSection renames a section and every recipe filed under it.
func (s *SQLiteStore) RenameSection(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.ErrNameRequired
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE sections SET name = ? WHERE name = ?`, newName, oldName)
		if isUniqueConstraintErr(err) {
			return domain.ErrAlreadyExists
		}
		if err != nil {
			return err
		}
		if err := mustAffect(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE recipes SET section = ? WHERE section = ?`, newName, oldName); err != nil {
			return fmt.Errorf("moving recipes: %w", err)
		}
		s.log.Debug("renamed section %q -> %q", oldName, newName)
		return nil
	})
}

// DeleteSection removes a section and files its recipes under the default.
func (s *SQLiteStore) DeleteSection(ctx context.Context, name string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE name = ?`, name)
		if err != nil {
			return err
		}
		if err := mustAffect(res); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE recipes SET section = ? WHERE section = ?`, domain.DefaultSection, name)
		return err
	})
}

// loadChildren fills ingredients and steps for the recipes in byID. where
// and args narrow the child queries; an empty where loads every row.
func (s *SQLiteStore) loadChildren(ctx context.Context, byID map[string]*domain.Recipe, where string, args ...any) error {
	if len(byID) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recipe_id, position, name, quantity, unit, time_amount, time_unit, difficulty
		FROM ingredients `+where+` ORDER BY recipe_id, position`, args...)
	if err != nil {
		return fmt.Errorf("loading ingredients: %w", err)
	}
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &ing.Position, &ing.Name, &ing.Quantity,
			&ing.Unit, &ing.TimeAmount, &ing.TimeUnit, &ing.Difficulty); err != nil {
			rows.Close()
			return err
		}
		if r, ok := byID[ing.RecipeID]; ok {
			r.Ingredients = append(r.Ingredients, ing)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, recipe_id, position, text
		FROM steps `+where+` ORDER BY recipe_id, position`, args...)
	if err != nil {
		return fmt.Errorf("loading steps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var st domain.Step
		if err := rows.Scan(&st.ID, &st.RecipeID, &st.Position, &st.Text); err != nil {
			return err
		}
		if r, ok := byID[st.RecipeID]; ok {
			r.Steps = append(r.Steps, st)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	var (
		r       domain.Recipe
		photo   []byte
		savedAt int64
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Section, &r.Favorite, &photo, &savedAt); err != nil {
		return nil, err
	}
	if len(photo) > 0 {
		r.Photo = photo
	}
	r.SavedAt = time.Unix(0, savedAt).UTC()
	return &r, nil
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// isUniqueConstraintErr reports a UNIQUE or PRIMARY KEY violation. Other
// constraint failures (NOT NULL, foreign keys) are not duplicates.
func isUniqueConstraintErr(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
