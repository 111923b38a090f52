package geometry

import (
	"sort"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// DefaultBVHMaxDepth bounds the tree height when the caller has no preference
const DefaultBVHMaxDepth = 25

// sahWeight scales both sides of a split cost. It only has to be the same
// constant everywhere so candidate splits compare correctly.
const sahWeight = 0.25

// BVHNode represents a node in the Bounding Volume Hierarchy.
// A leaf has no children and owns its shapes; an internal node has exactly
// two children and no shapes.
type BVHNode struct {
	Box    core.AABB // Memoized at build time, never recomputed
	Left   *BVHNode
	Right  *BVHNode
	Shapes []Shape
}

// IsLeaf reports whether the node holds shapes instead of children
func (n *BVHNode) IsLeaf() bool {
	return n.Left == nil
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It is immutable after NewBVH returns and safe for concurrent Hit calls.
type BVH struct {
	Root     *BVHNode
	MaxDepth int
}

// bvhItem caches a shape's bounding box during construction
type bvhItem struct {
	shape Shape
	box   core.AABB
}

// NewBVH builds a BVH over shapes using the surface area heuristic.
// The input slice is neither required to be sorted nor modified.
func NewBVH(shapes []Shape, maxDepth int) *BVH {
	if maxDepth <= 0 {
		maxDepth = DefaultBVHMaxDepth
	}

	items := make([]bvhItem, len(shapes))
	for i, shape := range shapes {
		items[i] = bvhItem{shape: shape, box: shape.BoundingBox()}
	}

	return &BVH{
		Root:     buildBVH(items, maxDepth),
		MaxDepth: maxDepth,
	}
}

// buildBVH recursively partitions items; depth is the remaining depth budget
func buildBVH(items []bvhItem, depth int) *BVHNode {
	box := boundItems(items)

	if depth <= 0 || len(items) <= 1 {
		return newLeaf(box, items)
	}

	left, right, ok := splitSAH(items, box)
	if !ok {
		return newLeaf(box, items)
	}

	return &BVHNode{
		Box:   box,
		Left:  buildBVH(left, depth-1),
		Right: buildBVH(right, depth-1),
	}
}

// newLeaf creates a leaf node owning the items' shapes
func newLeaf(box core.AABB, items []bvhItem) *BVHNode {
	shapes := make([]Shape, len(items))
	for i, item := range items {
		shapes[i] = item.shape
	}
	return &BVHNode{Box: box, Shapes: shapes}
}

// boundItems returns the union of the item boxes, or a zero box at the origin if empty
func boundItems(items []bvhItem) core.AABB {
	if len(items) == 0 {
		return core.AABB{}
	}
	box := items[0].box
	for _, item := range items[1:] {
		box = box.Union(item.box)
	}
	return box
}

// sahCandidate is the cheapest split found along one axis
type sahCandidate struct {
	sorted []bvhItem
	index  int
	cost   float64
}

// splitSAH evaluates every split point along all three axes and returns the
// cheapest partition. ok is false when no split beats keeping a single leaf.
func splitSAH(items []bvhItem, box core.AABB) (left, right []bvhItem, ok bool) {
	n := len(items)
	best := sahCandidate{index: -1}

	for axis := 0; axis < 3; axis++ {
		candidate := bestSplitOnAxis(items, axis)
		if best.index < 0 || candidate.cost < best.cost {
			best = candidate
		}
	}

	// Refuse splits that leave one side empty or do not beat the leaf cost
	leafCost := sahWeight * float64(n) * box.HalfSurfaceArea()
	if best.index <= 0 || best.index >= n || !(best.cost < leafCost) {
		return nil, nil, false
	}

	return best.sorted[:best.index], best.sorted[best.index:], true
}

// bestSplitOnAxis sorts a copy of items by box minimum along axis and scores
// every split k as k*hsa([0,k)) + (n-k)*hsa([k,n)), weighted by sahWeight.
func bestSplitOnAxis(items []bvhItem, axis int) sahCandidate {
	n := len(items)
	sorted := make([]bvhItem, n)
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].box.Min.Axis(axis) < sorted[j].box.Min.Axis(axis)
	})

	// suffix[k] bounds sorted[k:]
	suffix := make([]core.AABB, n)
	suffix[n-1] = sorted[n-1].box
	for k := n - 2; k >= 0; k-- {
		suffix[k] = suffix[k+1].Union(sorted[k].box)
	}

	best := sahCandidate{sorted: sorted, index: -1}
	prefix := sorted[0].box
	for k := 1; k < n; k++ {
		cost := sahWeight*float64(k)*prefix.HalfSurfaceArea() +
			sahWeight*float64(n-k)*suffix[k].HalfSurfaceArea()
		if best.index < 0 || cost < best.cost {
			best.index = k
			best.cost = cost
		}
		prefix = prefix.Union(sorted[k].box)
	}

	return best
}

// bvhStackEntry is a node waiting to be visited along with the ray span
// through its box, computed when it was pushed
type bvhStackEntry struct {
	node *BVHNode
	span core.Interval
}

// Hit tests if a ray intersects any shape in the BVH.
//
// Traversal uses an explicit stack. Children are pushed far-first so the
// nearer box (by entry distance) is visited next; every popped entry is
// re-checked against the current interval, which skips subtrees lying
// entirely behind a hit found in the meantime.
func (bvh *BVH) Hit(ray core.Ray, allowed *core.Interval, rec *material.HitRecord) bool {
	root := bvh.Root
	if root == nil {
		return false
	}

	rootSpan := root.Box.IntersectionDistance(ray)
	if !rootSpan.Overlaps(*allowed) {
		return false
	}

	var buffer [64]bvhStackEntry
	stack := append(buffer[:0], bvhStackEntry{node: root, span: rootSpan})
	hitAnything := false

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !entry.span.Overlaps(*allowed) {
			continue
		}

		node := entry.node
		if node.IsLeaf() {
			if hitAll(node.Shapes, ray, allowed, rec) {
				hitAnything = true
			}
			continue
		}

		near := bvhStackEntry{node: node.Left, span: node.Left.Box.IntersectionDistance(ray)}
		far := bvhStackEntry{node: node.Right, span: node.Right.Box.IntersectionDistance(ray)}
		if far.span.Min < near.span.Min {
			near, far = far, near
		}

		if far.span.Overlaps(*allowed) {
			stack = append(stack, far)
		}
		if near.span.Overlaps(*allowed) {
			stack = append(stack, near)
		}
	}

	return hitAnything
}

// BoundingBox implements the Shape interface - returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.Box
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes   int
	LeafNodes    int
	MaxDepth     int
	AvgLeafDepth float64
	TotalShapes  int
	MaxLeafSize  int
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{}
	if bvh.Root == nil {
		return stats
	}

	collectStats(bvh.Root, 0, &stats)

	if stats.LeafNodes > 0 {
		stats.AvgLeafDepth = stats.AvgLeafDepth / float64(stats.LeafNodes)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.IsLeaf() {
		stats.LeafNodes++
		stats.TotalShapes += len(node.Shapes)
		stats.MaxLeafSize = max(stats.MaxLeafSize, len(node.Shapes))
		stats.AvgLeafDepth += float64(depth) // summed here, divided in Stats
		return
	}

	collectStats(node.Left, depth+1, stats)
	collectStats(node.Right, depth+1, stats)
}
