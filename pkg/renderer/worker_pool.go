package renderer

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int // Dispatch order
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Tile   *Tile
	Stats  RenderStats

	// Progress information
	TileNumber int // Completion order (1-based)
	TotalTiles int // Total number of tiles in the image
}

// TileCallback is invoked once per finished tile. Calls never overlap.
type TileCallback func(TileResult)

// WorkerPool runs tile tasks on a bounded number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	return &WorkerPool{numWorkers: max(1, numWorkers)}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run dispatches every task to work and hands each result to done from a
// single goroutine, in completion order. Cancellation is checked between
// dispatches and passed to work: once ctx is done no further task starts.
// Run returns the context's error only if a task was skipped or was still
// running when ctx was cancelled.
func (wp *WorkerPool) Run(ctx context.Context, tasks []TileTask, work func(context.Context, TileTask) RenderStats, done TileCallback) error {
	results := make(chan TileResult, len(tasks))

	var collector sync.WaitGroup
	collector.Add(1)
	go func() {
		defer collector.Done()
		completed := 0
		for result := range results {
			completed++
			result.TileNumber = completed
			result.TotalTiles = len(tasks)
			if done != nil {
				done(result)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	var interrupted atomic.Bool
	dispatched := 0
	for _, task := range tasks {
		if gctx.Err() != nil {
			break
		}
		dispatched++
		g.Go(func() error {
			stats := work(gctx, task)
			if gctx.Err() != nil {
				interrupted.Store(true)
			}
			results <- TileResult{TaskID: task.TaskID, Tile: task.Tile, Stats: stats}
			return nil
		})
	}

	err := g.Wait()
	close(results)
	collector.Wait()

	if err != nil {
		return err
	}
	if dispatched < len(tasks) || interrupted.Load() {
		return ctx.Err()
	}
	return nil
}
