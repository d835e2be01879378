package integrator

import (
	"context"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/df07/go-envmap-pathtracer/pkg/scene"
)

// PathTracingIntegrator implements unidirectional diffuse path tracing lit
// only by the environment map
type PathTracingIntegrator struct {
	maxBounces int
}

// NewPathTracingIntegrator creates a new path tracing integrator. A path
// needing more than maxBounces diffuse bounces is black; 0 places no limit.
func NewPathTracingIntegrator(maxBounces int) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		maxBounces: maxBounces,
	}
}

// RayColor follows ray through the scene until it escapes, bouncing off each
// surface in a uniformly sampled direction of the normal's hemisphere. The
// result is the environment sample at the escape direction multiplied by the
// albedo of every surface hit on the way.
//
// Without a bounce limit a path in a closed scene of white surfaces never
// ends on its own, so the loop also stops, returning black, when ctx is done.
func (pt *PathTracingIntegrator) RayColor(ctx context.Context, ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3 {
	attenuation := core.Splat(1)
	done := ctx.Done()

	for bounces := 0; ; bounces++ {
		hit, t, isHit := scene.Primitives.Nearest(ray)
		if !isHit {
			return attenuation.MultiplyVec(EnvironmentRadiance(scene.Environment, ray.Direction))
		}

		select {
		case <-done:
			return core.Vec3{}
		default:
		}

		if pt.maxBounces > 0 && bounces >= pt.maxBounces {
			return core.Vec3{}
		}

		attenuation = attenuation.MultiplyVec(hit.Albedo())
		// Nothing further along the path can contribute, or the
		// product overflowed
		if attenuation.IsZero() || !attenuation.IsFinite() {
			return core.Vec3{}
		}

		point := ray.At(t)
		direction := core.SampleUniformHemisphere(hit.Normal(point), sampler)
		ray = core.NewRay(point, direction)
	}
}
