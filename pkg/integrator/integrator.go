package integrator

import (
	"math/rand/v2"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the radiance carried back along one primary ray.
	// The generator belongs to the calling worker and is never shared.
	RayColor(ray core.Ray, random *rand.Rand) core.Vec3
}

// Sky is an analytic stand-in for environment lighting: a gradient from the
// horizon color up to the zenith color, fading to black below the horizon.
type Sky struct {
	Horizon core.Vec3
	Zenith  core.Vec3
}

// DefaultSky returns a white horizon under a light blue sky
func DefaultSky() Sky {
	return Sky{
		Horizon: core.White,
		Zenith:  core.NewVec3(0.4, 0.6, 0.9),
	}
}

// Color returns the sky color seen along the ray's direction
func (s Sky) Color(ray core.Ray) core.Vec3 {
	y := ray.Direction.Normalize().Y
	switch {
	case y > 0:
		return s.Horizon.Lerp(s.Zenith, y)
	case y > -0.5:
		// Linear fade from the horizon color at y=0 to black at y=-0.5
		return s.Horizon.Multiply(1 + 2*y)
	default:
		return core.Black
	}
}
