// Package view renders stored recipes as plain text. It only reads data
// the extraction pipeline already persisted.
package view

import (
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/japaniel/recipeshelf/pkg/db"
)

var titleCaser = cases.Title(language.English)

// RenderList writes a one-line-per-recipe index of the store.
func RenderList(w io.Writer, conn db.DBExecutor) error {
	rows, err := db.ListRecipes(conn)
	if err != nil {
		return fmt.Errorf("listing recipes: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No recipes stored yet.")
		return nil
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%4d  %s\n", r.ID, r.Title)
	}
	return nil
}

// RenderRecipe writes one stored recipe in full: title, bulleted
// ingredients, numbered instructions, and macros when present.
func RenderRecipe(w io.Writer, conn db.DBExecutor, id int64) error {
	rows, err := db.ListRecipes(conn)
	if err != nil {
		return fmt.Errorf("listing recipes: %w", err)
	}
	var title string
	found := false
	for _, r := range rows {
		if r.ID == id {
			title = r.Title
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no recipe with id %d", id)
	}

	ingredients, err := db.GetIngredients(conn, id)
	if err != nil {
		return fmt.Errorf("loading ingredients: %w", err)
	}
	instructions, err := db.GetInstructions(conn, id)
	if err != nil {
		return fmt.Errorf("loading instructions: %w", err)
	}
	macros, err := db.GetMacros(conn, id)
	if err != nil {
		return fmt.Errorf("loading macros: %w", err)
	}

	fmt.Fprintf(w, "%s\n\n", title)

	fmt.Fprintln(w, "Ingredients:")
	for _, ing := range ingredients {
		fmt.Fprintf(w, "  - %s\n", ing)
	}

	fmt.Fprintln(w, "\nInstructions:")
	for _, step := range instructions {
		fmt.Fprintf(w, "  %d. %s\n", step.StepNumber, step.Text)
	}

	if len(macros) > 0 {
		fmt.Fprintln(w, "\nMacros:")
		for _, m := range macros {
			fmt.Fprintf(w, "  %s: %g\n", titleCaser.String(m.Name), m.Value)
		}
	}
	return nil
}

// RenderAll writes every stored recipe in full, separated by a rule.
func RenderAll(w io.Writer, conn db.DBExecutor) error {
	rows, err := db.ListRecipes(conn)
	if err != nil {
		return fmt.Errorf("listing recipes: %w", err)
	}
	for i, r := range rows {
		if i > 0 {
			fmt.Fprintln(w, "---")
		}
		if err := RenderRecipe(w, conn, r.ID); err != nil {
			return err
		}
	}
	return nil
}
