package scene

import (
	"math"
	"sync"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// Orbit describes the circle multi-frame renders move the camera along
type Orbit struct {
	Center core.Vec3 // Point every frame looks at
	Radius float64   // Distance from Center in the orbit plane
	Height float64   // Offset of the orbit plane from Center along the camera's Up
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Shapes         []geometry.Shape  // Objects in the scene, in insertion order
	Palette        *material.Palette // Materials referenced by shape handles
	Sky            integrator.Sky
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Orbit          Orbit
	BVHMaxDepth    int // 0 uses geometry.DefaultBVHMaxDepth

	buildOnce sync.Once
	bvh       *geometry.BVH
}

// newScene returns an empty scene with the default sky and sampling settings
func newScene(cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Shapes:         make([]geometry.Shape, 0),
		Palette:        material.NewPalette(),
		Sky:            integrator.DefaultSky(),
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}
}

// applyCameraOverrides merges the first override, if any, onto base
func applyCameraOverrides(base renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return renderer.MergeCameraConfig(base, overrides[0])
	}
	return base
}

// AddSphere adds a sphere with its own material
func (s *Scene) AddSphere(center core.Vec3, radius float64, m material.Material) material.Handle {
	handle := s.Palette.Add(m)
	s.Shapes = append(s.Shapes, geometry.NewSphere(center, radius, handle))
	return handle
}

// addSphereWithHandle adds a sphere sharing an existing palette entry
func (s *Scene) addSphereWithHandle(center core.Vec3, radius float64, handle material.Handle) {
	s.Shapes = append(s.Shapes, geometry.NewSphere(center, radius, handle))
}

// AddCube adds the 12 triangles of an axis-aligned cube sharing one material
func (s *Scene) AddCube(halfSize float64, center core.Vec3, m material.Material) material.Handle {
	handle := s.Palette.Add(m)
	s.Shapes = append(s.Shapes, geometry.NewCube(halfSize, center, handle)...)
	return handle
}

// BuildWorld builds the BVH over Shapes on first use and returns it.
// Later calls, including every frame of a multi-frame render, reuse it;
// shapes added after the first call are not seen.
func (s *Scene) BuildWorld() *geometry.BVH {
	s.buildOnce.Do(func() {
		s.bvh = geometry.NewBVH(s.Shapes, s.BVHMaxDepth)
	})
	return s.bvh
}

// GetWorld implements renderer.Scene
func (s *Scene) GetWorld() geometry.Shape {
	return s.BuildWorld()
}

// GetPalette implements renderer.Scene
func (s *Scene) GetPalette() *material.Palette {
	return s.Palette
}

// GetSky implements renderer.Scene
func (s *Scene) GetSky() integrator.Sky {
	return s.Sky
}

// GetPrimitiveCount returns the number of primitives the BVH is built over
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// OrbitCameras returns one camera per frame, evenly spaced along the scene's orbit
func (s *Scene) OrbitCameras(frames int) []renderer.CameraConfig {
	return renderer.OrbitCameras(s.CameraConfig, s.Orbit.Center, s.Orbit.Radius, s.Orbit.Height, frames)
}

// viewportHeight returns the sensor height that gives a vertical field of
// view of vfov degrees at unit focal length
func viewportHeight(vfov float64) float64 {
	return 2 * math.Tan(vfov*math.Pi/360)
}
