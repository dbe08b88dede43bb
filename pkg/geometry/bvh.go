package geometry

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Shapes of a leaf node (nil for internal nodes)
}

// BVH is a bounding volume hierarchy over a fixed set of shapes. It is itself
// a Shape returning the closest hit, so it can stand in for the list it was
// built from.
type BVH struct {
	Root *BVHNode
}

// BVHStats describes the shape of a BVH
type BVHStats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
	Shapes   int
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 8

// Node boxes are padded so flat triangles grazed at their edges are not culled
const bvhPadding = 1e-9

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}

	// Partitioning reorders shapes; work on a copy
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return &BVH{Root: buildBVH(shapesCopy)}
}

// buildBVH splits at the midpoint of the longest axis of the node bounds
func buildBVH(shapes []Shape) *BVHNode {
	boundingBox := ShapeList(shapes).BoundingBox().Expand(bvhPadding)

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	axis := boundingBox.LongestAxis()
	splitPos := boundingBox.Center().Component(axis)

	var leftShapes, rightShapes []Shape
	for _, shape := range shapes {
		if shape.BoundingBox().Center().Component(axis) < splitPos {
			leftShapes = append(leftShapes, shape)
		} else {
			rightShapes = append(rightShapes, shape)
		}
	}

	// Every center on one side: no useful split
	if len(leftShapes) == 0 || len(rightShapes) == 0 {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(leftShapes),
		Right:       buildBVH(rightShapes),
	}
}

// Hit returns the closest intersection with any shape in the BVH
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	hit := hitNode(bvh.Root, ray, tMin, tMax)
	return hit, hit != nil
}

// hitNode returns the closest hit below node that is nearer than tMax
func hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) *material.SurfaceInteraction {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil
	}

	if node.Shapes != nil {
		hit, _ := ShapeList(node.Shapes).Hit(ray, tMin, tMax)
		return hit
	}

	closest := hitNode(node.Left, ray, tMin, tMax)
	if closest != nil {
		tMax = closest.T
	}
	if hit := hitNode(node.Right, ray, tMin, tMax); hit != nil && hit.T < tMax {
		closest = hit
	}
	return closest
}

// BoundingBox returns the bounds of every shape in the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}

// Stats walks the hierarchy and counts its nodes
func (bvh *BVH) Stats() BVHStats {
	var stats BVHStats
	if bvh.Root != nil {
		collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.Shapes != nil {
		stats.Leaves++
		stats.Shapes += len(node.Shapes)
		return
	}
	collectStats(node.Left, depth+1, stats)
	collectStats(node.Right, depth+1, stats)
}
