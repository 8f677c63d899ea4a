package recipe

import "testing"

func TestFromBlockSkipsShortBlocks(t *testing.T) {
	// Under 20 trimmed chars, extraction does not run at all.
	if _, ok := FromBlock("  2 cup flour  "); ok {
		t.Fatal("expected short block to be skipped")
	}
}

func TestFromBlockMacrosAloneNotStorable(t *testing.T) {
	block := "Calories 250 Protein 30 Fat 10 Sodium 300"
	r, ok := FromBlock(block)
	if ok {
		t.Fatalf("macros-only block should not be storable, got %+v", r)
	}
}

func TestFromBlockAssemblesAllFacets(t *testing.T) {
	block := "Pancakes\n" +
		"2 cup flour\n" +
		"1 tsp baking powder\n" +
		"Instructions\n" +
		"Whisk the dry ingredients\n" +
		"Cook on a hot griddle\n" +
		"Macros: Calories 350, Protein 9\n"

	r, ok := FromBlock(block)
	if !ok {
		t.Fatal("expected storable recipe")
	}
	if r.Title != "Pancakes" {
		t.Errorf("title = %q", r.Title)
	}
	if len(r.Ingredients) != 2 {
		t.Errorf("ingredients = %q", r.Ingredients)
	}
	if len(r.Instructions) != 2 {
		t.Errorf("instructions = %v", r.Instructions)
	}
	if r.Macros["calories"] != 350 || r.Macros["protein"] != 9 {
		t.Errorf("macros = %v", r.Macros)
	}
}

func TestParsePreservesBlockOrder(t *testing.T) {
	text := "Recipe: Alpha Dish\n" +
		"2 cup flour for the base\n" +
		"===\n" +
		"Beta Dish goes here\n" +
		"1 tbsp oil for frying\n" +
		"---\n" +
		"too short\n"

	recipes := Parse(text)
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}
	if recipes[0].Title != "Alpha Dish" {
		t.Errorf("first title = %q", recipes[0].Title)
	}
	if recipes[1].Title != "Beta Dish goes here" {
		t.Errorf("second title = %q", recipes[1].Title)
	}
}
