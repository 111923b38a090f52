package geometry

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
//
// Hit only accepts an intersection strictly inside *allowed. On success it
// fills rec and shrinks allowed.Max to the hit distance, so later tests
// against the same interval can only find closer hits.
type Shape interface {
	Hit(ray core.Ray, allowed *core.Interval, rec *material.HitRecord) bool
	BoundingBox() core.AABB
}
