package material

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Blend is a diffuse/specular/emissive surface. Roughness picks the outgoing
// direction between a mirror bounce (0) and a Lambertian bounce (1).
type Blend struct {
	Diffuse   core.Vec3 // Color at normal incidence
	Specular  core.Vec3 // Color at grazing angles
	Emissive  core.Vec3 // Emitted light
	Roughness float64   // 0 = mirror, 1 = fully diffuse
}

// NewBlend creates a new blend material
func NewBlend(diffuse, specular, emissive core.Vec3, roughness float64) *Blend {
	return &Blend{
		Diffuse:   diffuse,
		Specular:  specular,
		Emissive:  emissive,
		Roughness: math.Max(0.0, math.Min(roughness, 1.0)),
	}
}

// Scatter implements the Material interface
func (b *Blend) Scatter(rayIn core.Ray, hit *HitRecord, random *rand.Rand) (ScatterResult, bool) {
	diffuseDirection := hit.Normal.Add(core.RandomUnitVector(random))
	specularDirection := rayIn.Direction.Reflect(hit.Normal)

	// Diffuse and specular can nearly cancel; keep the mirror bounce then
	blended := specularDirection.Lerp(diffuseDirection, b.Roughness)
	var direction core.Vec3
	if blended.NearZero() {
		direction = specularDirection.Normalize()
	} else {
		direction = blended.Normalize()
	}

	// A tangent bounce would skim the surface; leave along the normal instead
	cosine := direction.Dot(hit.Normal)
	if cosine <= 0 {
		direction = hit.Normal
		cosine = 1
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: b.Specular.Lerp(b.Diffuse, cosine),
	}, true
}

// ExtraLight implements the Material interface
func (b *Blend) ExtraLight(rayIn core.Ray, hit *HitRecord, attenuation core.Vec3) core.Vec3 {
	return b.Emissive
}

// NewAluminiumDull is a slightly rough grey metal
func NewAluminiumDull() *Blend {
	return NewBlend(core.NewVec3(0.75, 0.75, 0.75), core.NewVec3(0.9, 0.9, 0.9), core.Black, 0.15)
}

// NewMirror is a perfect white mirror
func NewMirror() *Blend {
	return NewBlend(core.White, core.White, core.Black, 0.0)
}

// NewMetalShiny is a polished metal with a little blur
func NewMetalShiny() *Blend {
	return NewBlend(core.NewVec3(0.85, 0.85, 0.85), core.NewVec3(0.9, 0.9, 0.9), core.Black, 0.05)
}

// NewMatte is a fully diffuse surface of one color
func NewMatte(albedo core.Vec3) *Blend {
	return NewBlend(albedo, albedo, core.Black, 1.0)
}

// NewLight is a diffuse black surface that emits the given color
func NewLight(emission core.Vec3) *Blend {
	return NewBlend(core.Black, core.Black, emission, 1.0)
}

// RandomBlend returns a non-emissive blend with random colors and roughness
func RandomBlend(random *rand.Rand) *Blend {
	return NewBlend(
		core.RandomColor(random),
		core.RandomColor(random),
		core.Black,
		random.Float64(),
	)
}
