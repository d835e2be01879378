package scene

import (
	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/df07/go-envmap-pathtracer/pkg/geometry"
)

// DefaultEnvironment is the panorama key used when none is given
const DefaultEnvironment = "wooden_lounge_1k.hdr"

// NewDefaultScene creates a ground plane with three diffuse spheres in front
// of the camera, lit only by env
func NewDefaultScene(env *core.Raster) *Scene {
	ground := geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.5, 0.5))

	center := geometry.NewSphere(core.NewVec3(0, 0, 3), 1.0, core.NewVec3(0.8, 0.8, 0.8))
	left := geometry.NewSphere(core.NewVec3(-2.2, -0.4, 3.5), 0.6, core.NewVec3(0.65, 0.25, 0.2))
	right := geometry.NewSphere(core.NewVec3(2.2, -0.4, 3.5), 0.6, core.NewVec3(0.1, 0.2, 0.5))

	return NewScene(env, ground, center, left, right)
}
