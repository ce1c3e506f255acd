package catalog

import (
	"context"

	"github.com/hammamikhairi/recipeplus/internal/domain"
)

// Sections returns every section by name.
func (c *Catalog) Sections(ctx context.Context) ([]domain.Section, error) {
	return c.store.Sections(ctx)
}

// AddSection creates a named section.
func (c *Catalog) AddSection(ctx context.Context, name string) (*domain.Section, error) {
	sec := &domain.Section{Name: name}
	if err := c.store.SaveSection(ctx, sec); err != nil {
		return nil, err
	}
	c.log.Info("added section %q", sec.Name)
	return sec, nil
}

// RenameSection renames a section; its recipes follow.
func (c *Catalog) RenameSection(ctx context.Context, oldName, newName string) error {
	if err := c.store.RenameSection(ctx, oldName, newName); err != nil {
		return err
	}
	c.log.Info("renamed section %q to %q", oldName, newName)
	return nil
}

// DeleteSection removes a section. Its recipes move to the default section.
func (c *Catalog) DeleteSection(ctx context.Context, name string) error {
	if err := c.store.DeleteSection(ctx, name); err != nil {
		return err
	}
	c.log.Info("deleted section %q", name)
	return nil
}
