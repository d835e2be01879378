package geometry

import (
	"math"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center      core.Vec3
	Radius      float64
	Reflectance core.Vec3
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, albedo core.Vec3) *Sphere {
	return &Sphere{
		Center:      center,
		Radius:      radius,
		Reflectance: albedo,
	}
}

// Intersect solves the ray-sphere quadratic for a unit length direction.
// The near root wins when it is past Epsilon, otherwise the far root, which
// is the exit point for rays starting inside the sphere.
func (s *Sphere) Intersect(ray core.Ray) float64 {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	h := b*b - c
	if h < 0 {
		return NoHit
	}

	sqrtH := math.Sqrt(h)
	if t := -b - sqrtH; t > Epsilon {
		return t
	}
	if t := -b + sqrtH; t > Epsilon {
		return t
	}
	return NoHit
}

// Normal returns the unit vector from the center through point
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Albedo returns the sphere's reflectance
func (s *Sphere) Albedo() core.Vec3 {
	return s.Reflectance
}
