package core

import (
	"math"

	"pgregory.net/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a pseudo-random generator. It is not safe for
// concurrent use; every render worker owns its own.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler whose stream is fully determined by the seeds
func NewSeededSampler(seeds ...uint64) *RandomSampler {
	return NewRandomSampler(rand.New(seeds...))
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// minSampleLengthSquared rejects candidates too close to the origin to normalize.
const minSampleLengthSquared = 1e-12

// SampleUniformHemisphere returns a unit direction in the hemisphere around normal.
// Candidates are drawn uniformly from [-1,1]^3, rejected outside the unit
// sphere, normalized, and flipped into the normal's hemisphere. The resulting
// distribution is uniform over the hemisphere, not cosine weighted.
func SampleUniformHemisphere(normal Vec3, sampler Sampler) Vec3 {
	for {
		p := sampler.Get3D().Multiply(2).Subtract(Splat(1))
		lengthSq := p.LengthSquared()
		if lengthSq > 1 || lengthSq < minSampleLengthSquared {
			continue
		}

		p = p.Multiply(1 / math.Sqrt(lengthSq))
		if p.Dot(normal) >= 0 {
			return p
		}
		return p.Negate()
	}
}

// DirectionToSpherical converts a direction to longitude phi in [-π, π]
// (measured in the xz plane from +x toward +z) and latitude theta in
// [-π/2, π/2] (elevation toward +y).
func DirectionToSpherical(direction Vec3) (phi, theta float64) {
	phi = math.Atan2(direction.Z, direction.X)
	omega := math.Sqrt(direction.X*direction.X + direction.Z*direction.Z)
	theta = math.Atan2(direction.Y, omega)
	return phi, theta
}
