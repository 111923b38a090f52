package scene

import (
	"math/rand/v2"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// Random sphere field bounds
const (
	RandomSphereMinRadius = 0.25
	RandomSphereMaxRadius = 5.0
	RandomSphereExtent    = 50.0 // Centers lie within ±extent on each axis
)

// NewRandomSpheresScene fills a cube of side 2*RandomSphereExtent with count
// spheres, each with its own random blend material. The same seed always
// produces the same scene.
func NewRandomSpheresScene(count int, seed uint64, cameraOverrides ...renderer.CameraConfig) *Scene {
	orbit := Orbit{Center: core.NewVec3(0, 0, 0), Radius: 25, Height: 25}

	defaultCameraConfig := renderer.DefaultCameraConfig()
	defaultCameraConfig.Orbit(orbit.Center, orbit.Radius, 0, orbit.Height)

	s := newScene(applyCameraOverrides(defaultCameraConfig, cameraOverrides))
	s.Orbit = orbit

	random := rand.New(rand.NewPCG(seed, seed))
	for i := 0; i < count; i++ {
		radius := core.RandomRange(random, RandomSphereMinRadius, RandomSphereMaxRadius)
		center := core.NewVec3(
			core.RandomRange(random, -RandomSphereExtent, RandomSphereExtent),
			core.RandomRange(random, -RandomSphereExtent, RandomSphereExtent),
			core.RandomRange(random, -RandomSphereExtent, RandomSphereExtent),
		)
		s.AddSphere(center, radius, material.RandomBlend(random))
	}

	return s
}

// NewSpheresOnPlaneScene scatters count spheres resting on the y=0 plane,
// which is itself a very large matte sphere
func NewSpheresOnPlaneScene(count int, seed uint64, cameraOverrides ...renderer.CameraConfig) *Scene {
	orbit := Orbit{Center: core.NewVec3(0, 0, 0), Radius: 80, Height: 20}

	defaultCameraConfig := renderer.CameraConfig{
		LookAt:         orbit.Center,
		Up:             core.NewVec3(0, 1, 0),
		FocalLength:    1.0,
		ViewportHeight: viewportHeight(45),
		InvertedY:      true,
	}
	defaultCameraConfig.Orbit(orbit.Center, orbit.Radius, 0, orbit.Height)

	s := newScene(applyCameraOverrides(defaultCameraConfig, cameraOverrides))
	s.Orbit = orbit

	const groundRadius = 100000
	s.AddSphere(core.NewVec3(0, -groundRadius, 0), groundRadius, material.NewMatte(core.NewVec3(0.5, 0.5, 0.5)))

	random := rand.New(rand.NewPCG(seed, seed))
	for i := 0; i < count; i++ {
		radius := core.RandomRange(random, RandomSphereMinRadius, RandomSphereMaxRadius)
		center := core.NewVec3(
			core.RandomRange(random, -RandomSphereExtent, RandomSphereExtent),
			radius,
			core.RandomRange(random, -RandomSphereExtent, RandomSphereExtent),
		)
		s.AddSphere(center, radius, material.RandomBlend(random))
	}

	return s
}
