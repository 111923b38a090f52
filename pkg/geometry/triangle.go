package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// parallelEpsilon rejects rays that run (nearly) inside the triangle's plane
const parallelEpsilon = 1e-8

// Triangle represents a single triangle defined by three vertices.
// The front face is the side from which P1, P2, P3 appear counter-clockwise.
type Triangle struct {
	P1, P2, P3 core.Vec3       // The three vertices
	Material   material.Handle // Material of the triangle
	normal     core.Vec3       // Cached unit normal
	bbox       core.AABB       // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(p1, p2, p3 core.Vec3, mat material.Handle) *Triangle {
	return &Triangle{
		P1:       p1,
		P2:       p2,
		P3:       p3,
		Material: mat,
		normal:   p2.Subtract(p1).Cross(p3.Subtract(p1)).Normalize(),
		bbox:     core.NewAABBFromPoints(p1, p2, p3),
	}
}

// Hit intersects the ray with the triangle's plane, then checks the point
// against each edge. The point is inside when (edge x toPoint) points the same
// way along the normal for all three edges.
func (t *Triangle) Hit(ray core.Ray, allowed *core.Interval, rec *material.HitRecord) bool {
	denominator := t.normal.Dot(ray.Direction)
	if math.Abs(denominator) < parallelEpsilon*ray.Direction.Length() {
		return false
	}

	distance := t.normal.Dot(t.P1.Subtract(ray.Origin)) / denominator
	if !allowed.Surrounds(distance) {
		return false
	}

	point := ray.At(distance)
	if !t.contains(point) {
		return false
	}

	allowed.Shrink(distance)

	rec.T = distance
	rec.Point = point
	rec.Material = t.Material
	rec.SetFaceNormal(ray, t.normal)

	return true
}

// contains reports whether a point on the plane lies inside the triangle
func (t *Triangle) contains(point core.Vec3) bool {
	s1 := t.P2.Subtract(t.P1).Cross(point.Subtract(t.P1)).Dot(t.normal)
	s2 := t.P3.Subtract(t.P2).Cross(point.Subtract(t.P2)).Dot(t.normal)
	s3 := t.P1.Subtract(t.P3).Cross(point.Subtract(t.P3)).Dot(t.normal)

	hasNegative := s1 < 0 || s2 < 0 || s3 < 0
	hasPositive := s1 > 0 || s2 > 0 || s3 > 0
	return !(hasNegative && hasPositive)
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's unit normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
