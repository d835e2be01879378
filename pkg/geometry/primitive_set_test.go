package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
)

func TestPrimitiveSet_Nearest(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, 3), 1.0, core.NewVec3(1, 0, 0))
	far := NewSphere(core.NewVec3(0, 0, 10), 1.0, core.NewVec3(0, 1, 0))
	floor := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1))

	// Order in the set must not matter for the closest hit
	set := PrimitiveSet{far, floor, near}

	tests := []struct {
		name      string
		direction core.Vec3
		expected  Primitive
		expectedT float64
	}{
		{"near sphere in front", core.NewVec3(0, 0, 1), near, 2.0},
		{"floor below", core.NewVec3(0, -1, 0), floor, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, tHit, ok := set.Nearest(core.NewRay(core.NewVec3(0, 0, 0), tt.direction))
			if !ok {
				t.Fatal("Expected hit, got miss")
			}
			if hit != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, hit)
			}
			if math.Abs(tHit-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, tHit)
			}
		})
	}

	t.Run("miss", func(t *testing.T) {
		if _, _, ok := set.Nearest(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))); ok {
			t.Error("Expected miss looking up")
		}
	})
}

func TestPrimitiveSet_NearestTieKeepsFirst(t *testing.T) {
	first := NewSphere(core.NewVec3(0, 0, 3), 1.0, core.NewVec3(1, 0, 0))
	second := NewSphere(core.NewVec3(0, 0, 3), 1.0, core.NewVec3(0, 1, 0))

	hit, _, ok := PrimitiveSet{first, second}.Nearest(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)))
	if !ok || hit != Primitive(first) {
		t.Errorf("Expected first primitive on tie, got %v", hit)
	}
}

func TestPrimitiveSet_Empty(t *testing.T) {
	var set PrimitiveSet
	if _, _, ok := set.Nearest(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))); ok {
		t.Error("Expected empty set to miss")
	}
}
