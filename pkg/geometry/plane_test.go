package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
)

func TestPlane_Intersect(t *testing.T) {
	// Horizontal floor one unit below the origin
	plane := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.5, 0.5))

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		expectedT float64
	}{
		{"straight down", core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0), 1.0},
		{"from below", core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0), 2.0},
		{"oblique", core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 1).Normalize(), math.Sqrt2},
		{"parallel", core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), NoHit},
		{"pointing away", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), NoHit},
		{"on the plane", core.NewVec3(0, -1, 0), core.NewVec3(0, -1, 0), NoHit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plane.Intersect(core.NewRay(tt.origin, tt.direction))
			if math.Abs(got-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, got)
			}
		})
	}
}

func TestPlane_NormalIsNormalized(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 5, 0), core.NewVec3(1, 1, 1))

	normal := plane.Normal(core.NewVec3(10, 0, -3))
	if normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected normal (0,1,0), got %v", normal)
	}
}
