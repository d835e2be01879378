package scene

import (
	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/df07/go-envmap-pathtracer/pkg/geometry"
)

// Scene contains all the elements needed for rendering. Both fields are
// read-only once rendering starts and are shared by every worker.
type Scene struct {
	Primitives  geometry.PrimitiveSet // Objects in the scene, in hit-test order
	Environment *core.Raster          // Lat-long panorama lighting escaped rays
}

// NewScene creates a scene lit by env
func NewScene(env *core.Raster, primitives ...geometry.Primitive) *Scene {
	return &Scene{
		Primitives:  geometry.PrimitiveSet(primitives),
		Environment: env,
	}
}

// Add appends primitives to the scene. It must not be called during a render.
func (s *Scene) Add(primitives ...geometry.Primitive) {
	s.Primitives = append(s.Primitives, primitives...)
}
