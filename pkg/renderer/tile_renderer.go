package renderer

import (
	"context"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/df07/go-envmap-pathtracer/pkg/integrator"
	"github.com/df07/go-envmap-pathtracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene           *scene.Scene
	integrator      integrator.Integrator
	camera          *Camera
	samplesPerPixel int
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scene *scene.Scene, integratorInst integrator.Integrator, camera *Camera, samplesPerPixel int) *TileRenderer {
	return &TileRenderer{
		scene:           scene,
		integrator:      integratorInst,
		camera:          camera,
		samplesPerPixel: samplesPerPixel,
	}
}

// RenderTile renders the pixels of tile into out. Only pixels inside the
// tile's bounds are written, so tiles may be rendered concurrently into the
// same raster. ctx is handed to the integrator.
func (tr *TileRenderer) RenderTile(ctx context.Context, tile *Tile, out *core.Raster, sampler core.Sampler) RenderStats {
	bounds := tile.Bounds
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var ps PixelStats
			for ps.SampleCount < tr.samplesPerPixel {
				ray := tr.camera.GetRay(x, y, sampler.Get2D())
				ps.AddSample(tr.integrator.RayColor(ctx, ray, tr.scene, sampler))
			}
			out.Set(x, y, ps.GetColor())
			stats.TotalSamples += ps.SampleCount
		}
	}

	return stats
}
