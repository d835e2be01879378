package geometry

import (
	"math"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point       core.Vec3 // A point on the plane
	Direction   core.Vec3 // Unit normal
	Reflectance core.Vec3
}

// NewPlane creates a new plane
func NewPlane(point, normal, albedo core.Vec3) *Plane {
	return &Plane{
		Point:       point,
		Direction:   normal.Normalize(), // Ensure normal is normalized
		Reflectance: albedo,
	}
}

// Intersect returns t = (point - origin)·n / (direction·n). Rays within
// Epsilon of parallel never hit.
func (p *Plane) Intersect(ray core.Ray) float64 {
	denominator := ray.Direction.Dot(p.Direction)
	if math.Abs(denominator) <= Epsilon {
		return NoHit
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Direction) / denominator
	if t < Epsilon {
		return NoHit
	}
	return t
}

// Normal returns the plane normal, the same everywhere
func (p *Plane) Normal(core.Vec3) core.Vec3 {
	return p.Direction
}

// Albedo returns the plane's reflectance
func (p *Plane) Albedo() core.Vec3 {
	return p.Reflectance
}
