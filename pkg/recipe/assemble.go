package recipe

import "strings"

// minBlockLen is the smallest trimmed block worth running extraction on.
// Shorter segments are delimiter debris, not recipes.
const minBlockLen = 20

// FromBlock runs all four extractors over one block and reports whether
// the result is worth storing. Blocks under minBlockLen characters and
// blocks that produce neither ingredients nor instructions are rejected;
// neither case is an error.
func FromBlock(block string) (Recipe, bool) {
	if len(strings.TrimSpace(block)) < minBlockLen {
		return Recipe{}, false
	}

	r := Recipe{
		Title:        ExtractTitle(block),
		Ingredients:  ExtractIngredients(block),
		Instructions: ExtractInstructions(block),
		Macros:       ExtractMacros(block),
	}
	return r, r.Storable()
}

// Parse segments raw text into blocks and assembles every storable
// recipe, preserving appearance order. Extraction is a pure function of
// each block; no state is shared between blocks.
func Parse(text string) []Recipe {
	var recipes []Recipe
	for _, block := range SplitBlocks(text) {
		if r, ok := FromBlock(block); ok {
			recipes = append(recipes, r)
		}
	}
	return recipes
}
