package renderer

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// CameraConfig describes the eye and virtual sensor of a pinhole camera
type CameraConfig struct {
	Origin         core.Vec3 // Eye position
	LookAt         core.Vec3 // Point the camera faces
	Up             core.Vec3 // World up hint, need not be orthogonal to the view
	FocalLength    float64   // Distance from the eye to the sensor
	ViewportHeight float64   // Sensor height in world units; width follows the image aspect
	InvertedY      bool      // Row 0 is the top of the image
}

// DefaultCameraConfig looks down -Z from the origin through a 2-unit tall sensor
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:         core.NewVec3(0, 0, 0),
		LookAt:         core.NewVec3(0, 0, -1),
		Up:             core.NewVec3(0, 1, 0),
		FocalLength:    1.0,
		ViewportHeight: 2.0,
		InvertedY:      true,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied.
// InvertedY cannot be expressed as "unset" and is always taken from base.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}

	if override.Origin != zero {
		result.Origin = override.Origin
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.FocalLength != 0 {
		result.FocalLength = override.FocalLength
	}
	if override.ViewportHeight != 0 {
		result.ViewportHeight = override.ViewportHeight
	}

	return result
}

// Orbit places the eye on a circle of the given radius around center, in the
// plane perpendicular to Up offset height units along it, and aims it at
// center. angle is in radians; with Up = +Y, angle 0 lies on +X and pi/2 on +Z.
func (c *CameraConfig) Orbit(center core.Vec3, radius, angle, height float64) {
	up := c.Up.Normalize()
	if up.NearZero() {
		up = core.NewVec3(0, 1, 0)
	}

	hint := core.NewVec3(1, 0, 0)
	if math.Abs(up.X) > 0.9 {
		hint = core.NewVec3(0, 0, 1)
	}
	u := hint.Subtract(up.Multiply(hint.Dot(up))).Normalize()
	v := u.Cross(up)

	c.Origin = center.
		Add(u.Multiply(math.Cos(angle) * radius)).
		Add(v.Multiply(math.Sin(angle) * radius)).
		Add(up.Multiply(height))
	c.LookAt = center
}

// Camera generates primary rays for one image size. It is immutable and
// shared by all workers of a render pass.
type Camera struct {
	origin       core.Vec3
	screenOrigin core.Vec3 // Center of pixel (0,0)
	deltaX       core.Vec3 // Step between pixel centers along a row
	deltaY       core.Vec3 // Step between rows
}

// NewCamera builds the sensor geometry for a width x height image
func NewCamera(config CameraConfig, width, height int) *Camera {
	look := config.LookAt.Subtract(config.Origin).Normalize()
	if look.NearZero() {
		look = core.NewVec3(0, 0, -1)
	}

	right := look.Cross(config.Up).Normalize()
	if right.NearZero() {
		// Up is parallel to the view direction; any perpendicular will do
		right = look.Cross(core.NewVec3(1, 0, 0)).Normalize()
		if right.NearZero() {
			right = look.Cross(core.NewVec3(0, 0, 1)).Normalize()
		}
	}
	up := right.Cross(look).Normalize()

	viewportHeight := config.ViewportHeight
	viewportWidth := float64(width) / float64(height) * viewportHeight

	sensorCenter := config.Origin.Add(look.Multiply(config.FocalLength))
	halfUp := up.Multiply(viewportHeight / 2)
	if !config.InvertedY {
		halfUp = halfUp.Negate()
	}
	screenOrigin := sensorCenter.Subtract(right.Multiply(viewportWidth / 2)).Add(halfUp)

	// Pixel centers span the full sensor, so the edges sit on the sensor border
	deltaX := right.Multiply(viewportWidth / float64(max(width-1, 1)))
	deltaY := up.Multiply(viewportHeight / float64(max(height-1, 1)))
	if config.InvertedY {
		deltaY = deltaY.Negate()
	}

	return &Camera{
		origin:       config.Origin,
		screenOrigin: screenOrigin,
		deltaX:       deltaX,
		deltaY:       deltaY,
	}
}

// GetRay returns the normalized primary ray through pixel (x, y). jitterX
// and jitterY offset the sample within the pixel, in pixel units.
func (c *Camera) GetRay(x, y int, jitterX, jitterY float64) core.Ray {
	target := c.screenOrigin.
		Add(c.deltaX.Multiply(float64(x) + jitterX)).
		Add(c.deltaY.Multiply(float64(y) + jitterY))

	return core.NewRay(c.origin, target.Subtract(c.origin).Normalize())
}
