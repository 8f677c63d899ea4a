package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/japaniel/recipeshelf/pkg/db"
	"github.com/japaniel/recipeshelf/pkg/fetch"
	"github.com/japaniel/recipeshelf/pkg/ingest"
	"github.com/japaniel/recipeshelf/pkg/view"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	urlFlag := flag.String("url", "", "URL of a recipe page to process")
	fileFlag := flag.String("file", "", "Path to a text file containing recipes")
	textFlag := flag.String("text", "", "Literal recipe text to process")
	dbFlag := flag.String("db", "recipeshelf.db", "Path to SQLite database")
	listFlag := flag.Bool("list", false, "List stored recipes")
	showFlag := flag.Int64("show", 0, "Show one stored recipe by id")
	allFlag := flag.Bool("all", false, "Show every stored recipe in full")
	workersFlag := flag.Int("workers", 4, "Number of extraction workers")
	flag.Parse()

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := sql.Open("sqlite3", *dbFlag)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	if err := db.InitDB(conn); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Viewer modes read the store and exit.
	switch {
	case *listFlag:
		if err := view.RenderList(os.Stdout, conn); err != nil {
			log.Fatalf("Failed to list recipes: %v", err)
		}
		return
	case *showFlag > 0:
		if err := view.RenderRecipe(os.Stdout, conn, *showFlag); err != nil {
			log.Fatalf("Failed to show recipe: %v", err)
		}
		return
	case *allFlag:
		if err := view.RenderAll(os.Stdout, conn); err != nil {
			log.Fatalf("Failed to show recipes: %v", err)
		}
		return
	}

	var text string
	switch {
	case *urlFlag != "":
		fmt.Printf("Fetching %s...\n", *urlFlag)
		text, err = fetch.NewClient().FromURL(ctx, *urlFlag)
		if err != nil {
			log.Fatalf("Failed to fetch URL: %v", err)
		}
	case *fileFlag != "":
		text, err = fetch.FromFile(*fileFlag)
		if err != nil {
			log.Fatalf("Failed to read file: %v", err)
		}
	case *textFlag != "":
		text = fetch.FromString(*textFlag)
	default:
		log.Fatal("Please provide -url, -file or -text to ingest, or -list/-show/-all to view")
	}

	fmt.Printf("Extracted text length: %d chars\n", len(text))

	ig := ingest.NewIngester(conn)
	ig.Workers = *workersFlag
	ig.Logger = log.New(os.Stderr, "", log.LstdFlags)
	ig.OnProgress = func(current, total int) {
		if current == total {
			fmt.Printf("Processed %d/%d blocks\n", current, total)
		}
	}

	count, err := ig.Ingest(ctx, text)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}

	fmt.Printf("Processing complete. Stored %d recipes.\n", count)
}
