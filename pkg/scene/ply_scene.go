package scene

import (
	"fmt"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/loaders"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// AddMesh adds every triangle of a loaded mesh, transformed by
// p' = scale*p + offset, with one shared material
func (s *Scene) AddMesh(data *loaders.PLYData, scale float64, offset core.Vec3, m material.Material) material.Handle {
	handle := s.Palette.Add(m)
	transform := func(p core.Vec3) core.Vec3 {
		return p.Multiply(scale).Add(offset)
	}

	for i := 0; i < data.TriangleCount(); i++ {
		a, b, c := data.Triangle(i)
		s.Shapes = append(s.Shapes, geometry.NewTriangle(transform(a), transform(b), transform(c), handle))
	}
	return handle
}

// NewPLYScene loads a PLY mesh, places it with AddMesh and frames it with
// the camera, a ground sphere under its lowest point and a distant light
func NewPLYScene(path string, scale float64, offset core.Vec3, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	if scale == 0 {
		scale = 1
	}

	data, err := loaders.LoadPLY(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh: %w", err)
	}
	if data.TriangleCount() == 0 {
		return nil, fmt.Errorf("mesh %s has no faces", path)
	}

	raw := data.Bounds()
	bounds := core.NewAABBFromPoints(
		raw.Min.Multiply(scale).Add(offset),
		raw.Max.Multiply(scale).Add(offset),
	)
	target := bounds.Center()
	size := bounds.Size().Length()
	if size == 0 {
		size = 1
	}

	orbit := Orbit{Center: target, Radius: 1.5 * size, Height: 0.3 * size}
	defaultCameraConfig := renderer.CameraConfig{
		Up:             core.NewVec3(0, 1, 0),
		FocalLength:    1.0,
		ViewportHeight: viewportHeight(40),
		InvertedY:      true,
	}
	defaultCameraConfig.Orbit(orbit.Center, orbit.Radius, 0, orbit.Height)

	s := newScene(applyCameraOverrides(defaultCameraConfig, cameraOverrides))
	s.Orbit = orbit

	s.AddMesh(data, scale, offset, material.NewAluminiumDull())

	groundRadius := 1000 * size
	s.AddSphere(core.NewVec3(target.X, bounds.Min.Y-groundRadius, target.Z), groundRadius,
		material.NewMatte(core.NewVec3(0.4, 0.4, 0.4)))
	s.AddSphere(target.Add(core.NewVec3(5*size, 8*size, 5*size)), 2*size,
		material.NewLight(core.NewVec3(8, 8, 8)))

	return s, nil
}
