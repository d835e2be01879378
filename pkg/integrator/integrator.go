package integrator

import (
	"context"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/df07/go-envmap-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the radiance arriving along ray. sampler is owned by
	// the calling worker. Once ctx is done the result may be cut short.
	RayColor(ctx context.Context, ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3
}

// EnvironmentRadiance returns the light arriving from the panorama along
// direction. A scene without an environment is black.
func EnvironmentRadiance(env *core.Raster, direction core.Vec3) core.Vec3 {
	if env == nil {
		return core.Vec3{}
	}
	return env.SampleDirection(direction)
}
