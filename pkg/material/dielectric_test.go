package material

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.NewRay(core.NewVec3(0, 1, 0), rayDirection)

	hit := &HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
	}

	hasReflection := false
	hasRefraction := false

	for seed := uint64(0); seed < 2000 && (!hasReflection || !hasRefraction); seed++ {
		random := rand.New(rand.NewPCG(seed, 0))
		result, scattered := glass.Scatter(ray, hit, random)
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Scattered.Origin != hit.Point {
			t.Fatalf("Scattered ray should start at the hit point, got %v", result.Scattered.Origin)
		}

		direction := result.Scattered.Direction.Normalize()
		if direction.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
		}
	}

	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
	if !hasReflection {
		t.Error("Expected Schlick reflectance to pick reflection in at least some cases")
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Inside the glass (back face) at a steep angle: sin(theta) * 1.5 > 1
	rayDirection := core.NewVec3(1, 0.2, 0).Normalize()
	ray := core.NewRay(core.NewVec3(0, -1, 0), rayDirection)
	hit := &HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, -1, 0),
		FrontFace: false,
	}

	for seed := uint64(0); seed < 100; seed++ {
		random := rand.New(rand.NewPCG(seed, 1))
		result, _ := glass.Scatter(ray, hit, random)
		if result.Scattered.Direction.Y >= 0 {
			t.Fatalf("Expected total internal reflection back into the glass, got %v", result.Scattered.Direction)
		}
	}
}

func TestDielectricAttenuationIsAlwaysNeutral(t *testing.T) {
	random := rand.New(rand.NewPCG(3, 4))

	for _, index := range []float64{1.0, 1.33, 1.5, 2.4} {
		glass := NewDielectric(index)
		for i := 0; i < 500; i++ {
			direction := core.RandomUnitVector(random)
			normal := core.RandomUnitVector(random)
			hit := &HitRecord{Point: core.Vec3{}, Normal: normal}
			hit.SetFaceNormal(core.NewRay(core.Vec3{}, direction), normal)

			result, ok := glass.Scatter(core.NewRay(core.Vec3{}, direction), hit, random)
			if !ok {
				t.Fatal("Dielectric should always scatter")
			}
			a := result.Attenuation
			if a.X != a.Y || a.Y != a.Z || a.X != 1.0 {
				t.Fatalf("Expected neutral white attenuation, got %v", a)
			}
		}
	}
}

func TestReflectance(t *testing.T) {
	// Normal incidence on glass from air: ((1-1.5)/(1+1.5))^2 = 0.04
	if r := Reflectance(1.0, 1.5); math.Abs(r-0.04) > 1e-12 {
		t.Errorf("Expected 0.04 at normal incidence, got %f", r)
	}
	// Grazing incidence reflects everything
	if r := Reflectance(0.0, 1.5); math.Abs(r-1.0) > 1e-12 {
		t.Errorf("Expected 1.0 at grazing incidence, got %f", r)
	}
}

func TestDielectricEmitsNothing(t *testing.T) {
	glass := NewGlass()
	light := glass.ExtraLight(core.Ray{}, &HitRecord{}, core.White)
	if light != core.Black {
		t.Errorf("Expected no emission, got %v", light)
	}
}
