package geometry

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// ShapeList tests every shape in order. Because each hit shrinks the shared
// interval, the record left behind belongs to the nearest shape.
type ShapeList struct {
	Shapes []Shape
}

// NewShapeList creates a list over the given shapes
func NewShapeList(shapes ...Shape) *ShapeList {
	return &ShapeList{Shapes: shapes}
}

// Add appends shapes to the list
func (l *ShapeList) Add(shapes ...Shape) {
	l.Shapes = append(l.Shapes, shapes...)
}

// Hit implements Shape
func (l *ShapeList) Hit(ray core.Ray, allowed *core.Interval, rec *material.HitRecord) bool {
	return hitAll(l.Shapes, ray, allowed, rec)
}

// BoundingBox implements Shape; an empty list has a zero-size box at the origin
func (l *ShapeList) BoundingBox() core.AABB {
	return boundShapes(l.Shapes)
}

// hitAll linearly tests shapes, ORing the results
func hitAll(shapes []Shape, ray core.Ray, allowed *core.Interval, rec *material.HitRecord) bool {
	hitAnything := false
	for _, shape := range shapes {
		if shape.Hit(ray, allowed, rec) {
			hitAnything = true
		}
	}
	return hitAnything
}

// boundShapes returns the union of the shapes' boxes, or a zero box if there are none
func boundShapes(shapes []Shape) core.AABB {
	if len(shapes) == 0 {
		return core.AABB{}
	}
	box := shapes[0].BoundingBox()
	for _, shape := range shapes[1:] {
		box = box.Union(shape.BoundingBox())
	}
	return box
}
