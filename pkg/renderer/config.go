package renderer

import (
	"runtime"

	"github.com/pkg/errors"
)

// Config contains rendering configuration. It is read-only once a render
// starts.
type Config struct {
	Width           int     `json:"width"`           // Image width in pixels
	Height          int     `json:"height"`          // Image height in pixels
	SamplesPerPixel int     `json:"samplesPerPixel"` // Number of camera rays per pixel
	FieldOfView     float64 `json:"fieldOfView"`     // Vertical field of view in degrees
	TileSize        int     `json:"tileSize"`        // Edge length of square tiles
	NumWorkers      int     `json:"numWorkers"`      // Number of parallel workers (0 = use CPU count)
	Seed            uint64  `json:"seed"`            // Master seed; tile generators derive from it
	MaxBounces      int     `json:"maxBounces"`      // Diffuse bounce limit (0 = unbounded)
}

// DefaultConfig returns the default render settings
func DefaultConfig() Config {
	return Config{
		Width:           1024,
		Height:          780,
		SamplesPerPixel: 1,
		FieldOfView:     120,
		TileSize:        100,
		NumWorkers:      0, // Auto-detect CPU count
		Seed:            0,
		MaxBounces:      0,
	}
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return errors.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	case c.FieldOfView <= 0 || c.FieldOfView >= 180:
		return errors.Errorf("field of view must be in (0, 180) degrees, got %v", c.FieldOfView)
	case c.TileSize <= 0:
		return errors.Errorf("tile size must be positive, got %d", c.TileSize)
	case c.NumWorkers < 0:
		return errors.Errorf("worker count must not be negative, got %d", c.NumWorkers)
	case c.MaxBounces < 0:
		return errors.Errorf("max bounces must not be negative, got %d", c.MaxBounces)
	}
	return nil
}

// workers returns the effective worker count
func (c Config) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}
