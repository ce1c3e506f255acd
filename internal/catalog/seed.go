package catalog

import (
	"context"

	"github.com/hammamikhairi/recipeplus/internal/domain"
)

// Seed adds the built-in sample recipes and returns how many were stored.
// Samples whose name already exists are skipped, so seeding twice is safe.
func (c *Catalog) Seed(ctx context.Context) (int, error) {
	existing, err := c.List(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, s := range existing {
		have[s.Name] = true
	}

	n := 0
	for _, d := range samples() {
		if have[d.Name] {
			continue
		}
		if _, err := c.Create(ctx, d); err != nil {
			return n, err
		}
		n++
	}
	c.log.Debug("seeded %d recipes", n)
	return n, nil
}

func samples() []domain.Draft {
	return []domain.Draft{
		chickenAlfredo(),
		vegetableStirFry(),
		overnightOats(),
	}
}

func chickenAlfredo() domain.Draft {
	return domain.Draft{
		Name:    "Chicken Alfredo",
		Section: "Dinner",
		Ingredients: []domain.Ingredient{
			{Name: "spaghetti", Quantity: "250", Unit: "g", TimeAmount: "10", TimeUnit: "min", Difficulty: "Easy"},
			{Name: "chicken breast", Quantity: "2", Unit: "pieces", TimeAmount: "12", TimeUnit: "min", Difficulty: "Moderate"},
			{Name: "creme fraiche", Quantity: "1", Unit: "cups"},
			{Name: "gruyere cheese, grated", Quantity: "1", Unit: "cups"},
			{Name: "butter", Quantity: "3", Unit: "tbsp"},
			{Name: "garlic", Quantity: "4", Unit: "cloves"},
			{Name: "olive oil", Quantity: "1", Unit: "tbsp"},
		},
		Steps: []string{
			"Bring a large pot of salted water to a boil. It should taste like the sea.{Water:00:08}",
			"While the water heats, season the chicken on both sides and pound it to an even thickness.",
			"Sear the chicken in olive oil over medium-high heat until golden and cooked through, then let it rest.{Sear:00:12}",
			"Cook the spaghetti until al dente and reserve a cup of pasta water before draining.{Pasta:00:10}",
			"Melt the butter in the same skillet and cook the garlic until fragrant.{00:01}",
			"Stir in the creme fraiche and let it reduce at a gentle simmer.{Reduce:00:03}",
			"Off the heat, stir in the gruyere until smooth. Loosen with pasta water if needed.",
			"Slice the chicken, toss the pasta in the sauce and serve right away.",
		},
	}
}

func vegetableStirFry() domain.Draft {
	return domain.Draft{
		Name:    "Vegetable Stir Fry",
		Section: "Dinner",
		Ingredients: []domain.Ingredient{
			{Name: "bell pepper", Quantity: "1", Unit: "pieces"},
			{Name: "broccoli florets", Quantity: "2", Unit: "cups"},
			{Name: "carrot", Quantity: "1", Unit: "pieces"},
			{Name: "snap peas", Quantity: "1", Unit: "cups"},
			{Name: "fresh ginger, grated", Quantity: "1", Unit: "tbsp"},
			{Name: "soy sauce", Quantity: "2", Unit: "tbsp"},
			{Name: "sesame oil", Quantity: "1", Unit: "tbsp"},
			{Name: "rice", Quantity: "1", Unit: "cups", TimeAmount: "20", TimeUnit: "min", Difficulty: "Easy"},
		},
		Steps: []string{
			"Start the rice first so it cooks while you prep.{Rice:00:20}",
			"Prep every vegetable before the pan goes on.",
			"Mix the soy sauce and sesame oil with two tablespoons of water.",
			"Heat the wok on high until it just starts to smoke, then add oil.",
			"Stir-fry broccoli and carrot{Hard veg:00:02}, then add pepper and snap peas{Soft veg:00:02}.",
			"Pour in the sauce, toss to coat and serve over rice.",
		},
	}
}

func overnightOats() domain.Draft {
	return domain.Draft{
		Name:    "Overnight Oats",
		Section: "Breakfast",
		Ingredients: []domain.Ingredient{
			{Name: "rolled oats", Quantity: "0.5", Unit: "cups"},
			{Name: "milk", Quantity: "0.5", Unit: "cups"},
			{Name: "yogurt", Quantity: "2", Unit: "tbsp"},
			{Name: "honey", Quantity: "1", Unit: "tsp"},
		},
		Steps: []string{
			"Stir everything together in a jar.",
			"Cover and chill overnight.{Chill:08:00}",
		},
	}
}
