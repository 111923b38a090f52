package core

import (
	"math"
	"math/rand/v2"
)

// RandomUnitVector returns a direction uniformly distributed on the unit sphere
func RandomUnitVector(random *rand.Rand) Vec3 {
	z := 2*random.Float64() - 1
	a := 2 * math.Pi * random.Float64()
	r := math.Sqrt(1 - z*z)
	return Vec3{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z}
}

// RandomRange returns a uniform value in [min, max)
func RandomRange(random *rand.Rand, min, max float64) float64 {
	return min + (max-min)*random.Float64()
}

// RandomColor returns a color with each channel uniform in [0, 1)
func RandomColor(random *rand.Rand) Vec3 {
	return Vec3{random.Float64(), random.Float64(), random.Float64()}
}
