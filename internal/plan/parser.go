package plan

import (
	"strings"
)

const (
	recipeMarker     = "#"
	ingredientMarker = "##"
)

// ParsedRecipe is one recipe section of the submitted text.
type ParsedRecipe struct {
	URL         string
	Ingredients string
}

// ParseRecipes splits raw recipe text into recipes. A line starting with "#"
// opens a recipe and carries its URL; lines starting with "##" inside it are
// ingredients. Sections missing either part are dropped.
func ParseRecipes(raw string) []ParsedRecipe {
	var (
		recipes []ParsedRecipe
		current *section
	)

	flush := func() {
		if current == nil {
			return
		}
		if r, ok := current.recipe(); ok {
			recipes = append(recipes, r)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, ingredientMarker):
			if current == nil {
				continue
			}
			if item := strings.TrimSpace(strings.TrimPrefix(line, ingredientMarker)); item != "" {
				current.ingredients = append(current.ingredients, item)
			}
		case strings.HasPrefix(line, recipeMarker):
			flush()
			current = &section{url: strings.TrimSpace(strings.TrimPrefix(line, recipeMarker))}
		}
	}
	flush()

	return recipes
}

// AggregateIngredients joins the ingredient blocks of all recipes with a blank
// line between recipes.
func AggregateIngredients(recipes []ParsedRecipe) string {
	blocks := make([]string, 0, len(recipes))
	for _, r := range recipes {
		blocks = append(blocks, r.Ingredients)
	}
	return strings.Join(blocks, "\n\n")
}

type section struct {
	url         string
	ingredients []string
}

func (s *section) recipe() (ParsedRecipe, bool) {
	if s.url == "" || len(s.ingredients) == 0 {
		return ParsedRecipe{}, false
	}
	return ParsedRecipe{
		URL:         s.url,
		Ingredients: strings.Join(s.ingredients, "\n"),
	}, true
}
