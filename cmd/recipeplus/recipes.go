package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipeplus/internal/catalog"
	"github.com/hammamikhairi/recipeplus/internal/display"
	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/steptext"
)

func newRecipesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"recipe", "r"},
		Short:   "List, add, edit and search recipes",
	}
	cmd.AddCommand(
		newRecipesListCmd(c),
		newRecipesAddCmd(c),
		newRecipesShowCmd(c),
		newRecipesEditCmd(c),
		newRecipesSearchCmd(c),
		newRecipesFavCmd(c, true),
		newRecipesFavCmd(c, false),
		newRecipesDeleteCmd(c),
		newStepCmd(c),
		newIngredientCmd(c),
	)
	return cmd
}

func newRecipesListCmd(c *cli) *cobra.Command {
	var favorites bool
	var section string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recipes grouped by section",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := catalog.All
			if favorites {
				filter = catalog.OnlyFavorites
			}
			if section != "" {
				base := filter
				filter = func(s domain.RecipeSummary) bool {
					return base(s) && strings.EqualFold(s.Section, section)
				}
			}
			return printGrouped(cmd, c, filter)
		},
	}
	cmd.Flags().BoolVarP(&favorites, "favorites", "f", false, "only favorites")
	cmd.Flags().StringVarP(&section, "section", "s", "", "only this section")
	return cmd
}

func newFavoritesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"favs"},
		Short:   "List favorite recipes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printGrouped(cmd, c, catalog.OnlyFavorites)
		},
	}
}

func printGrouped(cmd *cobra.Command, c *cli, filter catalog.Filter) error {
	groups, err := c.app.catalog.Grouped(cmd.Context(), filter)
	if err != nil {
		return err
	}
	fmt.Fprint(c.app.out, c.app.render.RecipeList(groups))
	return nil
}

func newRecipesAddCmd(c *cli) *cobra.Command {
	var (
		interactive bool
		d           domain.Draft
		ingredients []string
		photoPath   string
	)
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a recipe",
		Long: `Add a recipe from flags, or interactively with -i.

Steps may carry timers written as {Label:HH:MM} or {HH:MM}, for example
"Bake until golden{Oven:00:25}".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if interactive {
				secs, err := sectionNames(cmd, c)
				if err != nil {
					return err
				}
				d, err = display.RecipeForm(secs, c.app.render.Theme())
				if errors.Is(err, display.ErrFormAborted) {
					fmt.Fprintln(c.app.out, "Recipe entry cancelled.")
					return nil
				}
				if err != nil {
					return err
				}
			} else {
				if len(args) == 1 {
					d.Name = args[0]
				}
				for _, line := range ingredients {
					d.Ingredients = append(d.Ingredients, display.ParseIngredient(line))
				}
				if photoPath != "" {
					data, err := os.ReadFile(photoPath)
					if err != nil {
						return fmt.Errorf("reading photo: %w", err)
					}
					d.Photo = data
				}
			}

			r, err := c.app.catalog.Create(ctx, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Added %q to %s (%s)\n", r.Name, r.Section, r.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&interactive, "interactive", "i", false, "fill in a form")
	f.StringVarP(&d.Section, "section", "s", "", "section (default "+domain.DefaultSection+")")
	f.StringArrayVar(&d.Steps, "step", nil, "a step, repeat in order")
	f.StringArrayVar(&ingredients, "ingredient", nil, `an ingredient like "2 cups flour", repeatable`)
	f.StringVar(&photoPath, "photo", "", "PNG, JPEG or GIF to attach")
	f.BoolVar(&d.Favorite, "fav", false, "mark as favorite")
	return cmd
}

func newRecipesShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe>",
		Short: "Show a recipe with ingredients and steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.app.catalog.Find(cmd.Context(), args[0])
			if err != nil {
				return notFound(args[0], err)
			}
			out, err := c.app.render.RecipeDetail(r)
			if err != nil {
				return err
			}
			fmt.Fprint(c.app.out, out)
			return nil
		},
	}
}

func newRecipesEditCmd(c *cli) *cobra.Command {
	var name, section, photoPath string
	var noPhoto bool
	cmd := &cobra.Command{
		Use:   "edit <recipe>",
		Short: "Rename a recipe, move it to another section or change its photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if photoPath != "" && noPhoto {
				return errors.New("--photo and --no-photo cannot be combined")
			}
			r, err := c.app.catalog.Find(ctx, args[0])
			if err != nil {
				return notFound(args[0], err)
			}

			if photoPath != "" || noPhoto {
				var data []byte
				if photoPath != "" {
					if data, err = os.ReadFile(photoPath); err != nil {
						return fmt.Errorf("reading photo: %w", err)
					}
				}
				if r, err = c.app.catalog.SetPhoto(ctx, r.ID, data); err != nil {
					return err
				}
			}

			f := cmd.Flags()
			if f.Changed("name") || f.Changed("section") {
				if f.Changed("name") {
					r.Name = name
				}
				if f.Changed("section") {
					r.Section = section
				}
				if err := c.app.catalog.Update(ctx, r); err != nil {
					return err
				}
			}
			fmt.Fprintf(c.app.out, "Saved %q (%s)\n", r.Name, r.Section)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVarP(&section, "section", "s", "", "new section")
	cmd.Flags().StringVar(&photoPath, "photo", "", "PNG, JPEG or GIF to replace the photo with")
	cmd.Flags().BoolVar(&noPhoto, "no-photo", false, "remove the photo")
	return cmd
}

func newRecipesSearchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find recipes by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hits, err := c.app.catalog.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Fprintln(c.app.out, "No recipes match.")
				return nil
			}
			fmt.Fprint(c.app.out, c.app.render.RecipeList([]catalog.Group{{Section: "Results", Recipes: hits}}))
			return nil
		},
	}
}

func newRecipesFavCmd(c *cli, favorite bool) *cobra.Command {
	use, short := "fav <recipe>", "Mark a recipe as favorite"
	if !favorite {
		use, short = "unfav <recipe>", "Remove a recipe from favorites"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := c.app.catalog.Find(ctx, args[0])
			if err != nil {
				return notFound(args[0], err)
			}
			if err := c.app.catalog.SetFavorite(ctx, r.ID, favorite); err != nil {
				return err
			}
			state := "now a favorite"
			if !favorite {
				state = "no longer a favorite"
			}
			fmt.Fprintf(c.app.out, "%s is %s\n", r.Name, state)
			return nil
		},
	}
}

func newRecipesDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <recipe>",
		Aliases: []string{"rm"},
		Short:   "Delete a recipe with its ingredients and steps",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := c.app.catalog.Find(ctx, args[0])
			if err != nil {
				return notFound(args[0], err)
			}
			if err := c.app.catalog.Delete(ctx, r.ID); err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "Deleted %q\n", r.Name)
			return nil
		},
	}
}

// ── Step editing ────────────────────────────────────────────────

func newStepCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Edit the steps of a recipe",
	}

	add := &cobra.Command{
		Use:   "add <recipe> <text>",
		Short: "Append a step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editRecipe(cmd, c, args[0], func(r *domain.Recipe) error {
				r.Steps = append(r.Steps, domain.Step{Text: args[1]})
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <recipe> <n> <text>",
		Short: "Replace the text of step n",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editStep(cmd, c, args[0], args[1], func(text string) (string, error) {
				return args[2], nil
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <recipe> <n>",
		Short: "Remove step n",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editRecipe(cmd, c, args[0], func(r *domain.Recipe) error {
				i, err := stepIndex(args[1], len(r.Steps))
				if err != nil {
					return err
				}
				r.Steps = append(r.Steps[:i], r.Steps[i+1:]...)
				return nil
			})
		},
	}

	placeholder := &cobra.Command{
		Use:   "placeholder <recipe> <n>",
		Short: "Append " + steptext.Placeholder + " to step n",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editStep(cmd, c, args[0], args[1], func(text string) (string, error) {
				return steptext.InsertPlaceholder(text), nil
			})
		},
	}

	var label string
	timer := &cobra.Command{
		Use:   "timer <recipe> <n> <duration>",
		Short: "Append a timer to step n",
		Long: `Append a timer tag to step n. The duration can be a clock value
("1:30"), a Go duration ("45m") or plain English ("in 20 minutes").`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			when := strings.Join(args[2:], " ")
			return editStep(cmd, c, args[0], args[1], func(text string) (string, error) {
				return steptext.InsertTimer(text, label, when, time.Now())
			})
		},
	}
	timer.Flags().StringVarP(&label, "label", "l", "", "timer label, e.g. Oven")

	cmd.AddCommand(add, set, remove, placeholder, timer)
	return cmd
}

// ── Ingredient editing ──────────────────────────────────────────

func newIngredientCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ingredient",
		Aliases: []string{"ingredients"},
		Short:   "Edit the ingredients of a recipe",
		Long: `Edit the ingredients of a recipe. An ingredient is written the way
it is read: "2 cups flour", "1/2 tsp salt" or just "pepper".`,
	}

	add := &cobra.Command{
		Use:   "add <recipe> <ingredient>",
		Short: "Append an ingredient",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args[1:], " ")
			return editRecipe(cmd, c, args[0], func(r *domain.Recipe) error {
				r.Ingredients = append(r.Ingredients, display.ParseIngredient(line))
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <recipe> <n> <ingredient>",
		Short: "Replace ingredient n",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args[2:], " ")
			return editRecipe(cmd, c, args[0], func(r *domain.Recipe) error {
				i, err := ingredientIndex(args[1], len(r.Ingredients))
				if err != nil {
					return err
				}
				ing := display.ParseIngredient(line)
				ing.ID = r.Ingredients[i].ID
				r.Ingredients[i] = ing
				return nil
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <recipe> <n>",
		Short: "Remove ingredient n",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editRecipe(cmd, c, args[0], func(r *domain.Recipe) error {
				i, err := ingredientIndex(args[1], len(r.Ingredients))
				if err != nil {
					return err
				}
				r.Ingredients = append(r.Ingredients[:i], r.Ingredients[i+1:]...)
				return nil
			})
		},
	}

	cmd.AddCommand(add, set, remove)
	return cmd
}

func editRecipe(cmd *cobra.Command, c *cli, ref string, fn func(r *domain.Recipe) error) error {
	ctx := cmd.Context()
	r, err := c.app.catalog.Find(ctx, ref)
	if err != nil {
		return notFound(ref, err)
	}
	if err := fn(r); err != nil {
		return err
	}
	if err := c.app.catalog.Update(ctx, r); err != nil {
		return err
	}
	out, err := c.app.render.RecipeDetail(r)
	if err != nil {
		return err
	}
	fmt.Fprint(c.app.out, out)
	return nil
}

func editStep(cmd *cobra.Command, c *cli, ref, n string, fn func(text string) (string, error)) error {
	return editRecipe(cmd, c, ref, func(r *domain.Recipe) error {
		i, err := stepIndex(n, len(r.Steps))
		if err != nil {
			return err
		}
		text, err := fn(r.Steps[i].Text)
		if err != nil {
			return err
		}
		r.Steps[i].Text = text
		return nil
	})
}

// stepIndex turns a 1-based step number into an index.
func stepIndex(s string, total int) (int, error) {
	return position("step", s, total)
}

func ingredientIndex(s string, total int) (int, error) {
	return position("ingredient", s, total)
}

func position(what, s string, total int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s number %q: %w", what, s, err)
	}
	if n < 1 || n > total {
		return 0, fmt.Errorf("%s %d of %d: %w", what, n, total, domain.ErrOutOfRange)
	}
	return n - 1, nil
}

func notFound(ref string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no recipe matches %q", ref)
	}
	return err
}

func sectionNames(cmd *cobra.Command, c *cli) ([]string, error) {
	secs, err := c.app.catalog.Sections(cmd.Context())
	if err != nil {
		return nil, err
	}
	out := make([]string, len(secs))
	for i, s := range secs {
		out[i] = s.Name
	}
	return out, nil
}
