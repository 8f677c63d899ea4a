// Package ingest drives the extraction pipeline: raw text is segmented
// into blocks, blocks are extracted concurrently, and storable recipes
// are delivered to the record store in block appearance order.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/japaniel/recipeshelf/pkg/db"
	"github.com/japaniel/recipeshelf/pkg/recipe"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Ingester handles extraction and persistence of recipes from raw text.
type Ingester struct {
	DB        *sql.DB
	BatchSize int
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
	// OnProgress is called periodically with the number of processed blocks and total blocks.
	OnProgress func(current, total int)

	// Concurrency settings
	Workers int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB) *Ingester {
	return &Ingester{
		DB:        conn,
		BatchSize: 25,
		Workers:   4,
	}
}

// extractedBlock is the result of running the extractors over one block.
type extractedBlock struct {
	Index  int
	Recipe recipe.Recipe
	Keep   bool
}

// Ingest segments text, extracts every block, and persists the storable
// recipes. Extraction runs on concurrent workers; a reorder buffer on the
// consumer side keeps store delivery in block appearance order. It returns
// the number of recipes handed to the store. A persistence failure is
// retained and returned but does not stop later blocks from being written.
func (ig *Ingester) Ingest(ctx context.Context, text string) (int, error) {
	blocks := recipe.SplitBlocks(text)
	total := len(blocks)
	if ig.Logger != nil {
		ig.Logger.Printf("segmented input into %d candidate blocks", total)
	}

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(ig.Workers, ig.Workers*2)
	} else {
		wp = NewWorkerPool(ig.Workers, ig.Workers*2)
	}
	resultCh := make(chan extractedBlock, ig.Workers*2)
	doneCh := make(chan error, 1)

	var stored int64

	bw := NewBatchWriter(ig.DB, ig.BatchSize, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp.Start(ctx)

	// Consumer: reorder results by block index and hand storable recipes
	// to the batch writer.
	go func() {
		defer close(doneCh)
		buffer := make(map[int]extractedBlock)
		next := 0

		for {
			select {
			case <-ctx.Done():
				doneCh <- ctx.Err()
				return
			default:
			}

			res, ok := <-resultCh
			if !ok {
				doneCh <- nil
				return
			}
			buffer[res.Index] = res

			// Deliver contiguous finished blocks.
			for {
				item, ok := buffer[next]
				if !ok {
					break
				}
				delete(buffer, next)

				if item.Keep {
					rec := item.Recipe
					err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
						if _, err := db.SaveRecipe(tx, rec); err != nil {
							return fmt.Errorf("persist recipe %q: %w", rec.Title, err)
						}
						atomic.AddInt64(&stored, 1)
						return nil
					})
					if err != nil {
						// Writer closed underneath us; unblock producers and bail.
						cancel()
						doneCh <- err
						return
					}
				}

				if ig.OnProgress != nil {
					ig.OnProgress(next+1, total)
				}
				next++
			}
		}
	}()

	// Producer: submit extraction jobs for each block.
Loop:
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		idx := i
		block := blocks[i]

		job := func(ctx context.Context) error {
			rec, keep := recipe.FromBlock(block)
			res := extractedBlock{Index: idx, Recipe: rec, Keep: keep}

			// The channel may be closed if cancellation occurred; recover
			// avoids a send-on-closed-channel panic during shutdown races.
			defer func() {
				_ = recover()
			}()
			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		}

		if err := wp.SubmitCtx(ctx, job); err != nil {
			if err == ctx.Err() || err == ErrPoolClosed {
				break Loop
			}
			cancel()
			close(resultCh)
			<-doneCh
			_ = bw.Close()
			wp.Close()
			return 0, err
		}
	}

	// No more jobs; wait for workers to drain, then signal the consumer.
	wp.Close()
	close(resultCh)

	consumerErr := <-doneCh

	// Close flushes remaining batches; it returns the first persistence
	// error seen, which we surface without having stopped later batches.
	if err := bw.Close(); err != nil && consumerErr == nil {
		consumerErr = err
	}

	return int(atomic.LoadInt64(&stored)), consumerErr
}

// IngestRecipes persists already-extracted recipes synchronously, each in
// its own transaction. It is the plain path for callers that do not need
// the concurrent pipeline.
func IngestRecipes(conn *sql.DB, recipes []recipe.Recipe) (int, error) {
	var stored int
	for _, rec := range recipes {
		tx, err := conn.Begin()
		if err != nil {
			return stored, fmt.Errorf("begin tx: %w", err)
		}
		if _, err := db.SaveRecipe(tx, rec); err != nil {
			_ = tx.Rollback()
			return stored, fmt.Errorf("persist recipe %q: %w", rec.Title, err)
		}
		if err := tx.Commit(); err != nil {
			return stored, fmt.Errorf("commit recipe %q: %w", rec.Title, err)
		}
		stored++
	}
	return stored, nil
}
