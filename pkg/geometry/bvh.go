package geometry

import (
	"sort"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Multiple shapes for leaf nodes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It returns the same nearest hit as a ShapeList over the same shapes.
type BVH struct {
	Root *BVHNode

	// unbounded holds the shapes when any member lacks a bounding box; Root is then nil
	unbounded []Shape
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 4

// NewBVH constructs a BVH from a slice of shapes, bounding moving shapes over [time0, time1]
func NewBVH(shapes []Shape, time0, time1 float64) *BVH {
	if len(shapes) == 0 {
		return &BVH{Root: nil}
	}

	// Make a copy of the shapes slice to avoid modifying the original
	entries := make([]bvhEntry, len(shapes))
	for i, shape := range shapes {
		box, ok := shape.BoundingBox(time0, time1)
		if !ok {
			// Cannot partition without boxes; keep a linear scan
			shapesCopy := make([]Shape, len(shapes))
			copy(shapesCopy, shapes)
			return &BVH{unbounded: shapesCopy}
		}
		entries[i] = bvhEntry{shape: shape, box: box}
	}

	return &BVH{Root: buildBVH(entries)}
}

// bvhEntry caches a shape's box during construction
type bvhEntry struct {
	shape Shape
	box   core.AABB
}

// buildBVH recursively builds the BVH using a median split along the longest axis
func buildBVH(entries []bvhEntry) *BVHNode {
	boundingBox := entries[0].box
	for i := 1; i < len(entries); i++ {
		boundingBox = boundingBox.Union(entries[i].box)
	}

	// Base case: few shapes - create leaf node with all shapes
	if len(entries) <= leafThreshold {
		shapes := make([]Shape, len(entries))
		for i, e := range entries {
			shapes[i] = e.shape
		}
		return &BVHNode{
			BoundingBox: boundingBox,
			Shapes:      shapes,
		}
	}

	axis := boundingBox.LongestAxis()
	sortEntriesByAxis(entries, axis)

	mid := len(entries) / 2
	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(entries[:mid]),
		Right:       buildBVH(entries[mid:]),
	}
}

// sortEntriesByAxis sorts entries by their bounding box center along the specified axis
func sortEntriesByAxis(entries []bvhEntry, axis int) {
	sort.SliceStable(entries, func(i, j int) bool {
		return core.AxisValue(entries[i].box.Center(), axis) < core.AxisValue(entries[j].box.Center(), axis)
	})
}

// Hit tests if a ray intersects any shape in the BVH
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if bvh.unbounded != nil {
		return hitNearest(bvh.unbounded, ray, tMin, tMax)
	}
	if bvh.Root == nil {
		return nil, false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax)
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	if node.Shapes != nil {
		return hitNearest(node.Shapes, ray, tMin, tMax)
	}

	// Internal node - test both children, right against the left's best t
	leftHit, hitLeft := bvh.hitNode(node.Left, ray, tMin, tMax)
	closestSoFar := tMax
	if hitLeft {
		closestSoFar = leftHit.T
	}
	if rightHit, hitRight := bvh.hitNode(node.Right, ray, tMin, closestSoFar); hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox implements the Shape interface - returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	if bvh.Root == nil {
		return core.AABB{}, false
	}
	return bvh.Root.BoundingBox, true
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	totalShapes int
}

// getStats returns statistics about the BVH structure
func (bvh *BVH) getStats() bvhStats {
	stats := bvhStats{}
	if bvh.Root != nil {
		bvh.collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *bvhStats) {
	stats.totalNodes++

	if depth > stats.maxDepth {
		stats.maxDepth = depth
	}

	if node.Shapes != nil {
		stats.leafNodes++
		stats.totalShapes += len(node.Shapes)
		return
	}
	bvh.collectStats(node.Left, depth+1, stats)
	bvh.collectStats(node.Right, depth+1, stats)
}
