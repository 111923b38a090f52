package integrator

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// SelfIntersectionEpsilon is the smallest accepted hit distance. It keeps a
// bounce ray from hitting the surface it just left.
const SelfIntersectionEpsilon = 1e-4

// negligibleAttenuation is the squared length below which a path can no
// longer contribute visibly
const negligibleAttenuation = 1e-7

// PathTracer implements iterative unidirectional path tracing against a
// single world shape, usually a BVH
type PathTracer struct {
	world    geometry.Shape
	palette  *material.Palette
	sky      Sky
	maxDepth int
}

// NewPathTracer creates a path tracer. maxDepth is the number of surface
// interactions allowed per path.
func NewPathTracer(world geometry.Shape, palette *material.Palette, sky Sky, maxDepth int) *PathTracer {
	return &PathTracer{
		world:    world,
		palette:  palette,
		sky:      sky,
		maxDepth: maxDepth,
	}
}

// MaxDepth returns the bounce limit
func (pt *PathTracer) MaxDepth() int {
	return pt.maxDepth
}

// RayColor traces one sample path and returns the light gathered along it
func (pt *PathTracer) RayColor(ray core.Ray, random *rand.Rand) core.Vec3 {
	accumulated := core.Black
	attenuation := core.White
	remaining := pt.maxDepth

	for remaining > 0 {
		allowed := core.NewInterval(SelfIntersectionEpsilon, math.Inf(1))
		var hit material.HitRecord

		if !pt.world.Hit(ray, &allowed, &hit) {
			accumulated = accumulated.Add(attenuation.MultiplyVec(pt.sky.Color(ray)))
			break
		}
		remaining--

		mat := pt.palette.Get(hit.Material)
		scatter, ok := mat.Scatter(ray, &hit, random)
		if !ok {
			// Absorbed
			break
		}

		emitted := mat.ExtraLight(ray, &hit, attenuation)
		accumulated = accumulated.Add(attenuation.MultiplyVec(emitted))
		attenuation = attenuation.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered

		if attenuation.LengthSquared() <= negligibleAttenuation {
			break
		}
	}

	return accumulated
}
