package renderer

import (
	"math"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
)

// Camera is a pinhole camera at the origin looking down +z with +y up
type Camera struct {
	width, height int
	tanHalfFov    float64
	aspectRatio   float64
}

// NewCamera creates a camera for a width x height image. fov is the vertical
// field of view in degrees; the horizontal extent is scaled by the aspect ratio.
func NewCamera(width, height int, fov float64) *Camera {
	return &Camera{
		width:       width,
		height:      height,
		tanHalfFov:  math.Tan(core.Radians(fov) / 2),
		aspectRatio: float64(width) / float64(height),
	}
}

// GetRay returns the ray through pixel (x, y) offset by jitter in [0,1)^2.
// Row 0 is the top of the image.
func (c *Camera) GetRay(x, y int, jitter core.Vec2) core.Ray {
	// Normalized device coordinates in [-1, 1]
	u := 2*(float64(x)+jitter.X)/float64(c.width) - 1
	v := -(2*(float64(y)+jitter.Y)/float64(c.height) - 1)

	filmU := u * c.tanHalfFov * c.aspectRatio
	filmV := v * c.tanHalfFov

	return core.NewRay(core.Vec3{}, core.NewVec3(filmU, filmV, 1).Normalize())
}
