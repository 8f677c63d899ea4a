// Package recipe turns loosely structured recipe text into structured
// Recipe values. Detection is heuristic string matching over lines and
// blocks, not a grammar: an ingredient is a whole line that looks like a
// measurement, an instruction is a line inside a detected instructions
// section, and macros are name/number pairs found anywhere in a block.
package recipe

// Version returns the current version of the package.
func Version() string { return "0.1.0" }

// Step is a single numbered instruction line. Numbers start at 1 and are
// contiguous within one Recipe; they only encode ordering.
type Step struct {
	Number int
	Text   string
}

// Recipe is one extracted recipe. Ingredients keep their full original
// line text; no quantity/unit/name decomposition is attempted.
type Recipe struct {
	Title        string
	Ingredients  []string
	Instructions []Step
	Macros       map[string]float64
}

// Storable reports whether the recipe carries enough content to persist.
// Macros alone do not qualify.
func (r Recipe) Storable() bool {
	return len(r.Ingredients) > 0 || len(r.Instructions) > 0
}
