package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

func unitTriangle() *Triangle {
	return NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		1,
	)
}

func TestTriangle_Winding(t *testing.T) {
	tri := unitTriangle()

	tests := []struct {
		name           string
		origin         core.Vec3
		direction      core.Vec3
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "from above hits front face",
			origin:         core.NewVec3(0.2, 0.2, 1),
			direction:      core.NewVec3(0, 0, -1),
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "from below hits back face",
			origin:         core.NewVec3(0.2, 0.2, -1),
			direction:      core.NewVec3(0, 0, 1),
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := defaultRange()
			var rec material.HitRecord

			if !tri.Hit(core.NewRay(tt.origin, tt.direction), &allowed, &rec) {
				t.Fatal("Expected hit")
			}
			if math.Abs(rec.T-1.0) > 1e-9 {
				t.Errorf("Expected t=1, got %f", rec.T)
			}
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, rec.FrontFace)
			}
			if rec.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, rec.Normal)
			}
			if rec.Point.Subtract(core.NewVec3(0.2, 0.2, 0)).Length() > 1e-9 {
				t.Errorf("Unexpected hit point %v", rec.Point)
			}
			if allowed.Max != rec.T {
				t.Errorf("Expected interval max %f, got %f", rec.T, allowed.Max)
			}
		})
	}
}

func TestTriangle_Misses(t *testing.T) {
	tri := unitTriangle()

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
	}{
		{"outside past hypotenuse", core.NewVec3(0.8, 0.8, 1), core.NewVec3(0, 0, -1)},
		{"outside negative x", core.NewVec3(-0.1, 0.5, 1), core.NewVec3(0, 0, -1)},
		{"outside negative y", core.NewVec3(0.5, -0.1, 1), core.NewVec3(0, 0, -1)},
		{"parallel to plane", core.NewVec3(0.2, 0.2, 1), core.NewVec3(1, 0, 0)},
		{"in plane", core.NewVec3(-1, 0.2, 0), core.NewVec3(1, 0, 0)},
		{"pointing away", core.NewVec3(0.2, 0.2, 1), core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := defaultRange()
			var rec material.HitRecord
			if tri.Hit(core.NewRay(tt.origin, tt.direction), &allowed, &rec) {
				t.Errorf("Expected miss, got hit at t=%f point=%v", rec.T, rec.Point)
			}
			if allowed != defaultRange() {
				t.Errorf("A miss must not touch the interval, got %v", allowed)
			}
		})
	}
}

func TestTriangle_RespectsInterval(t *testing.T) {
	tri := unitTriangle()
	ray := core.NewRay(core.NewVec3(0.2, 0.2, 1), core.NewVec3(0, 0, -1))

	allowed := core.NewInterval(0.001, 0.5)
	var rec material.HitRecord
	if tri.Hit(ray, &allowed, &rec) {
		t.Error("Expected miss when the plane is beyond the interval")
	}
}

func TestTriangle_DegenerateNeverHits(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(2, 2, 2), 0)
	allowed := defaultRange()
	var rec material.HitRecord
	if tri.Hit(core.NewRay(core.NewVec3(1, 1, 5), core.NewVec3(0, 0, -1)), &allowed, &rec) {
		t.Error("Zero-area triangle should never be hit")
	}
}

func TestTriangle_BoundingBox(t *testing.T) {
	tri := NewTriangle(core.NewVec3(1, -2, 3), core.NewVec3(-1, 4, 0), core.NewVec3(0, 0, 5), 0)
	box := tri.BoundingBox()
	if box.Min != core.NewVec3(-1, -2, 0) || box.Max != core.NewVec3(1, 4, 5) {
		t.Errorf("Unexpected bounding box %v", box)
	}
}

func TestNewCube_FacesPointOutward(t *testing.T) {
	center := core.NewVec3(1, 2, 3)
	cube := NewCube(0.5, center, 2)
	if len(cube) != 12 {
		t.Fatalf("Expected 12 triangles, got %d", len(cube))
	}

	for i, shape := range cube {
		tri := shape.(*Triangle)
		faceCenter := tri.P1.Add(tri.P2).Add(tri.P3).Multiply(1.0 / 3.0)
		if tri.Normal().Dot(faceCenter.Subtract(center)) <= 0 {
			t.Errorf("Triangle %d normal %v points inward", i, tri.Normal())
		}
	}

	// Every axis-aligned ray from outside should hit a front face at distance 4.5
	list := NewShapeList(cube...)
	for _, dir := range []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1),
	} {
		offset := core.NewVec3(0.1, 0.13, 0.07)
		offset = offset.Subtract(dir.Multiply(offset.Dot(dir)))
		origin := center.Subtract(dir.Multiply(5)).Add(offset)
		allowed := defaultRange()
		var rec material.HitRecord
		if !list.Hit(core.NewRay(origin, dir), &allowed, &rec) {
			t.Fatalf("Expected hit along %v", dir)
		}
		if !rec.FrontFace {
			t.Errorf("Expected front face along %v", dir)
		}
		if math.Abs(rec.T-4.5) > 1e-9 {
			t.Errorf("Along %v expected t=4.5, got %f", dir, rec.T)
		}
	}
}
