package core

import "math"

// AABB represents an axis-aligned bounding box.
// A box with Min > Max on any axis is empty.
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns the identity for Union: min at +Inf, max at -Inf
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, point := range points {
		box = box.UnionPoint(point)
	}
	return box
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: aabb.Min.Min(other.Min),
		Max: aabb.Max.Max(other.Max),
	}
}

// UnionPoint returns an AABB grown to include the point
func (aabb AABB) UnionPoint(point Vec3) AABB {
	return AABB{
		Min: aabb.Min.Min(point),
		Max: aabb.Max.Max(point),
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// HalfSurfaceArea returns half of the box's surface area.
// Only relative comparisons use it, so the factor of two is dropped.
func (aabb AABB) HalfSurfaceArea() float64 {
	d := aabb.Size()
	return d.X*(d.Y+d.Z) + d.Y*d.Z
}

// IsValid returns true if min <= max on every axis
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// IsEmpty returns true if the box contains no points
func (aabb AABB) IsEmpty() bool {
	return !aabb.IsValid()
}

// IntersectionDistance returns the ray parameters where the ray enters and
// leaves the box using the slab method. The result is empty (Min > Max) on a miss.
//
// A zero direction component yields a signed infinite reciprocal, which makes
// that slab either unbounded or unreachable. When the origin lies exactly on a
// slab plane the product is NaN; the ordered comparisons below skip it.
func (aabb AABB) IntersectionDistance(ray Ray) Interval {
	tNear := math.Inf(-1)
	tFar := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Axis(axis)
		invDirection := 1.0 / ray.Direction.Axis(axis)

		t0 := (aabb.Min.Axis(axis) - origin) * invDirection
		t1 := (aabb.Max.Axis(axis) - origin) * invDirection
		if invDirection < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
	}

	return Interval{Min: tNear, Max: tFar}
}

// Hit reports whether the ray passes through the box within the allowed range
func (aabb AABB) Hit(ray Ray, allowed Interval) bool {
	return aabb.IntersectionDistance(ray).Overlaps(allowed)
}
