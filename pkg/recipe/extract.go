package recipe

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultTitle is used when a block's leading text yields no usable title.
const DefaultTitle = "Untitled Recipe"

var (
	// titlePattern matches an optional "recipe:"/"recipe-" label followed
	// by a run of letters, spaces and commas. The run is the title.
	titlePattern = regexp.MustCompile(`(?i)(recipe\s*[:\-])?\s*([A-Za-z ,]+)`)

	// measurementLine accepts lines that start with a quantity and a known
	// unit word, e.g. "2 cup flour" or "- 0.5 tsp salt". The unit must end
	// at a word boundary so "gram" does not match inside "grams".
	measurementLine = regexp.MustCompile(`(?i)^[-*•]?\s*\d+(\.\d+)?\s?(cup|tsp|tbsp|g|gram|oz|ml|kg|lb|teaspoon|tablespoon|clove|slice|scoop|packet|can|stick)\b`)

	// numberedLine accepts any line that starts with a number and more text,
	// e.g. "3 large eggs". Combined with a unit substring check below.
	numberedLine = regexp.MustCompile(`^[-*•]?\s*\d+\s.*`)

	// macroPattern finds a macro name followed by the next numeric literal.
	macroPattern = regexp.MustCompile(`(?i)(calories|protein|fat|carbs|carbohydrates|fiber|sugar|cholesterol|sodium)[^\d]*(\d+\.?\d*)`)
)

// looseUnits are checked by plain substring containment for lines that
// start with a bare number. Deliberately looser than measurementLine, so
// short tokens like "g" over-match inside unrelated words.
var looseUnits = []string{"cup", "tsp", "tbsp", "oz", "g", "ml", "kg", "lb"}

// instructionHeaders start instruction capture; instructionStops end it.
var (
	instructionHeaders = []string{"instructions", "directions", "method"}
	instructionStops   = []string{"macros", "nutrition", "course", "calories", "psst"}
)

// ExtractTitle derives a title from the leading region of a block.
// Absence of a match is not an error; it yields DefaultTitle.
func ExtractTitle(block string) string {
	m := titlePattern.FindStringSubmatch(strings.TrimSpace(block))
	if m == nil {
		return DefaultTitle
	}
	title := strings.TrimSpace(m[2])
	if title == "" {
		return DefaultTitle
	}
	return title
}

// ExtractIngredients returns the lines of the block that look like
// ingredient entries, in original order. Lines keep their full text.
func ExtractIngredients(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if measurementLine.MatchString(line) {
			out = append(out, line)
			continue
		}
		if numberedLine.MatchString(line) && containsLooseUnit(line) {
			out = append(out, line)
		}
	}
	return out
}

func containsLooseUnit(line string) bool {
	lower := strings.ToLower(line)
	for _, u := range looseUnits {
		if strings.Contains(lower, u) {
			return true
		}
	}
	return false
}

// ExtractInstructions scans the block top to bottom. Capture starts after
// a line containing an instruction header (the header itself is dropped)
// and ends at the first line mentioning macros/nutrition/etc. Captured
// lines are kept only if they have more than two words and are not social
// footer noise; steps are numbered 1..N with no gaps.
func ExtractInstructions(block string) []Step {
	var steps []Step
	capturing := false

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		if !capturing {
			if containsAny(lower, instructionHeaders) {
				capturing = true
			}
			continue
		}

		if containsAny(lower, instructionStops) {
			break
		}
		if line == "" || strings.HasPrefix(lower, "tag us") || len(strings.Fields(line)) <= 2 {
			continue
		}
		steps = append(steps, Step{Number: len(steps) + 1, Text: line})
	}
	return steps
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ExtractMacros scans the whole block (not line-scoped) for macro
// name/value pairs. When a name recurs the last occurrence wins.
func ExtractMacros(block string) map[string]float64 {
	macros := make(map[string]float64)
	for _, m := range macroPattern.FindAllStringSubmatch(block, -1) {
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		macros[strings.ToLower(m[1])] = value
	}
	return macros
}
