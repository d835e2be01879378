package geometry

import "github.com/df07/go-envmap-pathtracer/pkg/core"

// NoHit is returned by Intersect when the ray misses
const NoHit = -1.0

// Epsilon is the minimum distance reported as a hit. It keeps bounced rays
// from re-hitting the surface they leave.
const Epsilon = 1e-5

// Primitive is a surface that can be hit by rays
type Primitive interface {
	// Intersect returns the smallest distance t >= Epsilon along the ray at
	// which it meets the surface, or NoHit.
	Intersect(ray core.Ray) float64
	// Normal returns the outward unit normal at a point on the surface.
	Normal(point core.Vec3) core.Vec3
	// Albedo returns the diffuse reflectance of the surface.
	Albedo() core.Vec3
}
