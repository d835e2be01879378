package geometry

import "github.com/df07/go-envmap-pathtracer/pkg/core"

// PrimitiveSet is the ordered, read-only list of surfaces in a scene. It is
// shared by every render worker and must not be modified during a render.
type PrimitiveSet []Primitive

// Nearest tests every primitive and returns the closest hit. On equal
// distances the earlier primitive wins. ok is false when nothing is hit.
func (ps PrimitiveSet) Nearest(ray core.Ray) (hit Primitive, t float64, ok bool) {
	t = NoHit
	for _, p := range ps {
		d := p.Intersect(ray)
		if d == NoHit {
			continue
		}
		if !ok || d < t {
			hit, t, ok = p, d, true
		}
	}
	return hit, t, ok
}
