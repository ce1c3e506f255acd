package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/transfer"
)

func newExportCmd(c *cli) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export [recipe...]",
		Short: "Write recipes to a TOML file",
		Long:  "Write the named recipes, or every recipe, as TOML to stdout or --out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var recipes []*domain.Recipe
			if len(args) == 0 {
				list, err := c.app.catalog.List(ctx)
				if err != nil {
					return err
				}
				for _, s := range list {
					r, err := c.app.catalog.Get(ctx, s.ID)
					if err != nil {
						return err
					}
					recipes = append(recipes, r)
				}
			}
			for _, ref := range args {
				r, err := c.app.catalog.Find(ctx, ref)
				if err != nil {
					return notFound(ref, err)
				}
				recipes = append(recipes, r)
			}

			var w io.Writer = c.app.out
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := transfer.Export(w, recipes); err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(c.app.out, "Exported %d recipe(s) to %s\n", len(recipes), outPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "file to write instead of stdout")
	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add the recipes from a TOML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			drafts, err := transfer.Import(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, d := range drafts {
				if _, err := c.app.catalog.Create(cmd.Context(), d); err != nil {
					return fmt.Errorf("importing %q: %w", d.Name, err)
				}
			}
			fmt.Fprintf(c.app.out, "Imported %d recipe(s)\n", len(drafts))
			return nil
		},
	}
}
