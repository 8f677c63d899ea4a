package recipe

import "regexp"

// blockDelimiter marks the start of a new recipe block: a line beginning
// with "recipe:" (an optional single whitespace before the colon), or a
// run of three or more '=' or '-' characters at the start of a line.
// Only the matched prefix is consumed; any text after it on the same line
// belongs to the following block.
var blockDelimiter = regexp.MustCompile(`(?i)(?:^|\n)(?:recipe\s?:|===+|---+)`)

// SplitBlocks splits raw text into candidate recipe blocks in appearance
// order. A document with no delimiters yields exactly one block. Empty or
// whitespace-only segments (e.g. from a leading delimiter) are returned
// as-is; filtering is the assembler's job.
func SplitBlocks(text string) []string {
	return blockDelimiter.Split(text, -1)
}
