package ingest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/japaniel/recipeshelf/pkg/db"
	"github.com/japaniel/recipeshelf/pkg/recipe"
	_ "github.com/mattn/go-sqlite3"
)

func mustParse(t *testing.T, text string) []recipe.Recipe {
	t.Helper()
	recipes := recipe.Parse(text)
	if len(recipes) == 0 {
		t.Fatal("no recipes parsed from fixture")
	}
	return recipes
}

func setupDB(t *testing.T) *sql.DB {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	conn.SetMaxOpenConns(1)
	if err := db.InitDB(conn); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	return conn
}

const sampleText = "Recipe: Alpha Pancakes\n" +
	"2 cup flour sifted fine\n" +
	"1 tsp baking powder\n" +
	"Instructions\n" +
	"Whisk the dry ingredients together\n" +
	"Cook the batter on a griddle\n" +
	"===\n" +
	"Beta Soup for dinner\n" +
	"1 can crushed tomatoes\n" +
	"---\n" +
	"short\n" +
	"---\n" +
	"Calories 200 Protein 10 Fat 5 and nothing else here\n"

func TestIngestStoresRecipesInOrder(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	ig := NewIngester(conn)
	ig.Workers = 4
	ig.BatchSize = 2

	count, err := ig.Ingest(context.Background(), sampleText)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	// The short block and the macros-only block are dropped.
	if count != 2 {
		t.Fatalf("expected 2 stored recipes, got %d", count)
	}

	rows, err := db.ListRecipes(conn)
	if err != nil {
		t.Fatalf("list recipes: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Delivery preserves block appearance order even with concurrent workers.
	if rows[0].Title != "Alpha Pancakes" || rows[1].Title != "Beta Soup for dinner" {
		t.Fatalf("unexpected order: %q, %q", rows[0].Title, rows[1].Title)
	}

	steps, err := db.GetInstructions(conn, rows[0].ID)
	if err != nil {
		t.Fatalf("get instructions: %v", err)
	}
	if len(steps) != 2 || steps[0].StepNumber != 1 || steps[1].StepNumber != 2 {
		t.Fatalf("unexpected steps: %v", steps)
	}
}

func TestIngestNoRecipes(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	count, err := NewIngester(conn).Ingest(context.Background(), "nothing resembling a recipe in this text at all")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 stored recipes, got %d", count)
	}
}

func TestIngestProgressCoversEveryBlock(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	ig := NewIngester(conn)
	var calls []int
	ig.OnProgress = func(current, total int) {
		calls = append(calls, current)
		if total != 5 {
			t.Errorf("expected total 5, got %d", total)
		}
	}

	if _, err := ig.Ingest(context.Background(), sampleText); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	// One progress call per block, in order, including dropped blocks.
	if len(calls) != 5 {
		t.Fatalf("expected 5 progress calls, got %d: %v", len(calls), calls)
	}
	for i, c := range calls {
		if c != i+1 {
			t.Fatalf("expected monotonic progress, got %v", calls)
		}
	}
}

func TestIngestContextCancel(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := NewIngester(conn).Ingest(ctx, sampleText)
	if count != 0 {
		t.Errorf("expected 0 stored recipes with canceled context, got %d", count)
	}
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIngestRecipesSynchronous(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	recipes := mustParse(t, sampleText)
	count, err := IngestRecipes(conn, recipes)
	if err != nil {
		t.Fatalf("IngestRecipes failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 stored recipes, got %d", count)
	}
}
