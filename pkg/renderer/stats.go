package renderer

import (
	"time"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of samples taken
	Tiles        int           // Number of tiles rendered
	Workers      int           // Number of parallel workers
	Duration     time.Duration // Wall time of the render
}

// add merges the counters of a finished tile
func (s *RenderStats) add(tile RenderStats) {
	s.TotalPixels += tile.TotalPixels
	s.TotalSamples += tile.TotalSamples
	s.Tiles++
}

// AverageSamples returns the mean number of samples per pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels)
}

// PixelStats keeps a running mean of the samples for a single pixel. The
// first sample is stored as is and later ones only move the mean by their
// difference from it, so identical samples average to exactly that value.
type PixelStats struct {
	Mean        core.Vec3 // Mean of the samples so far
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.SampleCount++
	ps.Mean = ps.Mean.Add(color.Subtract(ps.Mean).Multiply(1 / float64(ps.SampleCount)))
}

// GetColor returns the unweighted mean of the samples
func (ps *PixelStats) GetColor() core.Vec3 {
	return ps.Mean
}
