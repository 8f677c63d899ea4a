package db

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/japaniel/recipeshelf/pkg/recipe"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// CreateRecipe inserts a recipe header and returns its generated id.
func CreateRecipe(db DBExecutor, title string) (int64, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return 0, fmt.Errorf("title must be non-empty")
	}
	res, err := db.Exec(`INSERT INTO recipes (title) VALUES (?)`, trimmed)
	if err != nil {
		return 0, fmt.Errorf("insert recipe: %w", err)
	}
	return res.LastInsertId()
}

// AddIngredient appends one ingredient line to a recipe.
func AddIngredient(db DBExecutor, recipeID int64, text string) error {
	if recipeID <= 0 {
		return fmt.Errorf("recipeID must be positive")
	}
	_, err := db.Exec(`INSERT INTO ingredients (recipe_id, ingredient) VALUES (?, ?)`, recipeID, text)
	if err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// AddInstruction appends one numbered instruction step to a recipe.
func AddInstruction(db DBExecutor, recipeID int64, stepNumber int, text string) error {
	if recipeID <= 0 {
		return fmt.Errorf("recipeID must be positive")
	}
	if stepNumber < 1 {
		return fmt.Errorf("stepNumber must be >= 1, got %d", stepNumber)
	}
	_, err := db.Exec(`INSERT INTO instructions (recipe_id, step_number, instruction) VALUES (?, ?, ?)`, recipeID, stepNumber, text)
	if err != nil {
		return fmt.Errorf("insert instruction: %w", err)
	}
	return nil
}

// AddMacro records one nutrition value for a recipe.
func AddMacro(db DBExecutor, recipeID int64, name string, value float64) error {
	if recipeID <= 0 {
		return fmt.Errorf("recipeID must be positive")
	}
	_, err := db.Exec(`INSERT INTO macros (recipe_id, name, value) VALUES (?, ?, ?)`, recipeID, name, value)
	if err != nil {
		return fmt.Errorf("insert macro: %w", err)
	}
	return nil
}

// SaveRecipe writes a full recipe through one executor. Pass a *sql.Tx to
// make the recipe's four facets commit or fail as a unit. Macro names are
// written in sorted order so storage is reproducible.
func SaveRecipe(db DBExecutor, r recipe.Recipe) (int64, error) {
	id, err := CreateRecipe(db, r.Title)
	if err != nil {
		return 0, err
	}
	for _, ing := range r.Ingredients {
		if err := AddIngredient(db, id, ing); err != nil {
			return 0, err
		}
	}
	for _, step := range r.Instructions {
		if err := AddInstruction(db, id, step.Number, step.Text); err != nil {
			return 0, err
		}
	}
	names := make([]string, 0, len(r.Macros))
	for name := range r.Macros {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := AddMacro(db, id, name, r.Macros[name]); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// ListRecipes returns all stored recipe headers in insertion order.
func ListRecipes(db DBExecutor) ([]RecipeRow, error) {
	rows, err := db.Query(`SELECT id, title, created_at FROM recipes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecipeRow
	for rows.Next() {
		var r RecipeRow
		if err := rows.Scan(&r.ID, &r.Title, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetIngredients returns a recipe's ingredient lines in stored order.
func GetIngredients(db DBExecutor, recipeID int64) ([]string, error) {
	rows, err := db.Query(`SELECT ingredient FROM ingredients WHERE recipe_id = ? ORDER BY id`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetInstructions returns a recipe's steps ordered by step number.
func GetInstructions(db DBExecutor, recipeID int64) ([]Instruction, error) {
	rows, err := db.Query(`SELECT step_number, instruction FROM instructions WHERE recipe_id = ? ORDER BY step_number`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Instruction
	for rows.Next() {
		var ins Instruction
		if err := rows.Scan(&ins.StepNumber, &ins.Text); err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	return out, rows.Err()
}

// GetMacros returns a recipe's nutrition values ordered by name.
func GetMacros(db DBExecutor, recipeID int64) ([]Macro, error) {
	rows, err := db.Query(`SELECT name, value FROM macros WHERE recipe_id = ? ORDER BY name`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Macro
	for rows.Next() {
		var m Macro
		if err := rows.Scan(&m.Name, &m.Value); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
