package renderer

import (
	"context"
	"log/slog"
	"time"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/df07/go-envmap-pathtracer/pkg/integrator"
	"github.com/df07/go-envmap-pathtracer/pkg/scene"
	"github.com/pkg/errors"
)

// Renderer drives tiled rendering of a scene
type Renderer struct {
	scene      *scene.Scene
	config     Config
	tiles      []*Tile
	tiler      *TileRenderer
	workerPool *WorkerPool
	logger     *slog.Logger
}

// NewRenderer creates a renderer using the diffuse path tracer. A nil logger
// uses slog.Default().
func NewRenderer(scene *scene.Scene, config Config, logger *slog.Logger) (*Renderer, error) {
	return NewRendererWithIntegrator(scene, integrator.NewPathTracingIntegrator(config.MaxBounces), config, logger)
}

// NewRendererWithIntegrator creates a renderer that estimates radiance with integratorInst
func NewRendererWithIntegrator(scene *scene.Scene, integratorInst integrator.Integrator, config Config, logger *slog.Logger) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid render config")
	}
	if logger == nil {
		logger = slog.Default()
	}

	camera := NewCamera(config.Width, config.Height, config.FieldOfView)
	return &Renderer{
		scene:      scene,
		config:     config,
		tiles:      NewTileGrid(config.Width, config.Height, config.TileSize),
		tiler:      NewTileRenderer(scene, integratorInst, camera, config.SamplesPerPixel),
		workerPool: NewWorkerPool(config.workers()),
		logger:     logger,
	}, nil
}

// Tiles returns the tile grid in dispatch order
func (r *Renderer) Tiles() []*Tile {
	return r.tiles
}

// Render renders every tile and returns the linear image. onTile, if not
// nil, is called after each tile completes. When ctx is cancelled before every
// tile has finished, running tiles are cut short, no further tiles are started
// and the context's error is returned with no image.
func (r *Renderer) Render(ctx context.Context, onTile TileCallback) (*core.Raster, RenderStats, error) {
	start := time.Now()
	out := core.NewRaster(r.config.Width, r.config.Height)

	r.logger.InfoContext(ctx, "render started",
		"width", r.config.Width,
		"height", r.config.Height,
		"spp", r.config.SamplesPerPixel,
		"tiles", len(r.tiles),
		"workers", r.workerPool.GetNumWorkers())

	tasks := make([]TileTask, len(r.tiles))
	for i, tile := range r.tiles {
		tasks[i] = TileTask{Tile: tile, TaskID: i}
	}

	stats := RenderStats{Workers: r.workerPool.GetNumWorkers()}
	work := func(ctx context.Context, task TileTask) RenderStats {
		return r.tiler.RenderTile(ctx, task.Tile, out, task.Tile.Sampler(r.config.Seed))
	}
	done := func(result TileResult) {
		stats.add(result.Stats)
		r.logger.DebugContext(ctx, "tile completed",
			"tile", result.Tile.ID,
			"done", result.TileNumber,
			"total", result.TotalTiles)
		if onTile != nil {
			onTile(result)
		}
	}

	if err := r.workerPool.Run(ctx, tasks, work, done); err != nil {
		r.logger.WarnContext(ctx, "render cancelled", "tiles", stats.Tiles, "error", err)
		return nil, RenderStats{}, errors.Wrap(err, "render cancelled")
	}

	stats.Duration = time.Since(start)
	r.logger.InfoContext(ctx, "render completed",
		"duration", stats.Duration,
		"samples", stats.TotalSamples)
	return out, stats, nil
}
