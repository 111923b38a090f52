package scene

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// NewDefaultScene creates a showcase of every material on a large ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Origin:         core.NewVec3(0, 0.75, 2), // Slightly above and behind the spheres
		LookAt:         core.NewVec3(0, 0.5, -1),
		Up:             core.NewVec3(0, 1, 0),
		FocalLength:    1.0,
		ViewportHeight: viewportHeight(40),
		InvertedY:      true,
	}

	s := newScene(applyCameraOverrides(defaultCameraConfig, cameraOverrides))
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        20, // Hollow glass needs extra bounces
	}
	s.Orbit = Orbit{
		Center: core.NewVec3(0, 0.5, -1),
		Radius: 3,
		Height: 0.5,
	}

	// Ground: a huge sphere reads as a plane near the objects
	s.AddSphere(core.NewVec3(0, -1000, -1), 1000, material.NewMatte(core.NewVec3(0.48, 0.48, 0.0)))

	s.AddSphere(core.NewVec3(0, 0.5, -1), 0.5, material.NewMetalShiny())
	s.AddSphere(core.NewVec3(-1, 0.5, -1), 0.5, material.NewMirror())
	s.AddSphere(core.NewVec3(1, 0.5, -1), 0.5, material.NewAluminiumDull())

	glass := s.Palette.Add(material.NewGlass())
	s.addSphereWithHandle(core.NewVec3(0.5, 0.25, -0.5), 0.25, glass)

	// Hollow glass: a negative radius flips the inner surface's normals
	s.addSphereWithHandle(core.NewVec3(-0.5, 0.25, -0.5), 0.25, glass)
	s.addSphereWithHandle(core.NewVec3(-0.5, 0.25, -0.5), -0.23, glass)

	s.AddCube(0.15, core.NewVec3(0, 0.15, -0.2), material.NewMatte(core.NewVec3(0.65, 0.25, 0.2)))

	// Large, distant light
	s.AddSphere(core.NewVec3(30, 30.5, 15), 10, material.NewLight(core.NewVec3(15, 14, 13)))

	return s
}
