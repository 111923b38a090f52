package geometry

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// NewCube builds an axis-aligned cube out of 12 triangles wound so that
// every front face points outward. halfSize is the distance from the center to each face.
func NewCube(halfSize float64, center core.Vec3, mat material.Handle) []Shape {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		corners[i] = corners[i].Multiply(halfSize).Add(center)
	}

	// Each face as a counter-clockwise quad seen from outside
	faces := [6][4]int{
		{4, 5, 6, 7}, // front (+Z)
		{1, 0, 3, 2}, // back (-Z)
		{5, 1, 2, 6}, // right (+X)
		{0, 4, 7, 3}, // left (-X)
		{7, 6, 2, 3}, // top (+Y)
		{0, 1, 5, 4}, // bottom (-Y)
	}

	shapes := make([]Shape, 0, 12)
	for _, f := range faces {
		a, b, c, d := corners[f[0]], corners[f[1]], corners[f[2]], corners[f[3]]
		shapes = append(shapes,
			NewTriangle(a, b, c, mat),
			NewTriangle(a, c, d, mat),
		)
	}
	return shapes
}
