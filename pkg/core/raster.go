package core

import (
	"math"
)

// Raster is a dense row-major buffer of linear RGB values. The decoded
// environment map and the rendered output are both Rasters.
// len(Pixels) == Width*Height always holds.
type Raster struct {
	Width  int
	Height int
	Pixels []Vec3
}

// NewRaster creates a black raster of the given size
func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pixels: make([]Vec3, width*height),
	}
}

// At returns the pixel at (x, y)
func (r *Raster) At(x, y int) Vec3 {
	return r.Pixels[x+y*r.Width]
}

// Set writes the pixel at (x, y)
func (r *Raster) Set(x, y int, c Vec3) {
	r.Pixels[x+y*r.Width] = c
}

// SampleUV returns the pixel under texture coordinates (u, v) in [0, 1].
// Both axes are flipped: u=1 maps to column 0 and v=1 maps to row 0.
func (r *Raster) SampleUV(u, v float64) Vec3 {
	x := clampIndex(int(math.Floor(float64(r.Width)*(1-u))), r.Width)
	y := clampIndex(int(math.Floor(float64(r.Height)*(1-v))), r.Height)
	return r.At(x, y)
}

// SampleSpherical returns the pixel under longitude phi in [-π, π] and
// latitude theta in [-π/2, π/2].
func (r *Raster) SampleSpherical(phi, theta float64) Vec3 {
	u := (phi + math.Pi) / (2 * math.Pi)
	v := (theta + math.Pi/2) / math.Pi
	return r.SampleUV(u, v)
}

// SampleDirection returns the pixel seen along direction when the raster is
// treated as a latitude-longitude panorama.
func (r *Raster) SampleDirection(direction Vec3) Vec3 {
	return r.SampleSpherical(DirectionToSpherical(direction))
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
