package photon

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

const (
	maxPhotonsPerLeaf = 10
	maxDepth          = 15
)

// KDTree is a photon index that splits leaves at the midpoint of their longest axis.
// A node is either a leaf holding photons or an internal node with two children
// that tile its bounds.
type KDTree struct {
	bounds     core.AABB
	depth      int
	photons    []Photon
	child1     *KDTree // pos[splitAxis] < splitValue
	child2     *KDTree // pos[splitAxis] >= splitValue
	splitAxis  int
	splitValue float64
}

// NewKDTree creates an empty leaf spanning bounds
func NewKDTree(bounds core.AABB) *KDTree {
	return &KDTree{bounds: bounds}
}

// AddPhoton stores a photon in the leaf containing its position.
// Photons outside the tree bounds are rejected.
func (kd *KDTree) AddPhoton(p Photon) bool {
	if !kd.bounds.Contains(p.Position) {
		return false
	}

	node := kd
	for !node.IsLeaf() {
		if p.Position.Component(node.splitAxis) < node.splitValue {
			node = node.child1
		} else {
			node = node.child2
		}
	}

	node.photons = append(node.photons, p)
	if len(node.photons) > maxPhotonsPerLeaf && node.depth < maxDepth {
		node.split()
	}
	return true
}

// split turns a leaf into an internal node and hands its photons to the children
func (kd *KDTree) split() {
	axis := kd.bounds.LongestAxis()
	value := 0.5 * (kd.bounds.Min.Component(axis) + kd.bounds.Max.Component(axis))

	kd.splitAxis = axis
	kd.splitValue = value
	kd.child1 = &KDTree{
		bounds: core.NewAABB(kd.bounds.Min, kd.bounds.Max.WithComponent(axis, value)),
		depth:  kd.depth + 1,
	}
	kd.child2 = &KDTree{
		bounds: core.NewAABB(kd.bounds.Min.WithComponent(axis, value), kd.bounds.Max),
		depth:  kd.depth + 1,
	}

	for _, p := range kd.photons {
		if p.Position.Component(axis) < value {
			kd.child1.photons = append(kd.child1.photons, p)
		} else {
			kd.child2.photons = append(kd.child2.photons, p)
		}
	}
	kd.photons = nil

	for _, child := range []*KDTree{kd.child1, kd.child2} {
		if len(child.photons) > maxPhotonsPerLeaf && child.depth < maxDepth {
			child.split()
		}
	}
}

// CollectPhotonsInBox appends every photon inside box to out and returns it.
// Degenerate or inverted boxes collect nothing.
func (kd *KDTree) CollectPhotonsInBox(box core.AABB, out []Photon) []Photon {
	if isDegenerate(box) || !kd.bounds.Overlaps(box) {
		return out
	}

	if kd.IsLeaf() {
		for _, p := range kd.photons {
			if box.Contains(p.Position) {
				out = append(out, p)
			}
		}
		return out
	}

	out = kd.child1.CollectPhotonsInBox(box, out)
	return kd.child2.CollectPhotonsInBox(box, out)
}

// isDegenerate reports whether a query box has no volume (also true for NaN corners)
func isDegenerate(box core.AABB) bool {
	size := box.Size()
	return !(size.X > 0 && size.Y > 0 && size.Z > 0)
}

// IsLeaf reports whether the node stores photons directly
func (kd *KDTree) IsLeaf() bool {
	return kd.child1 == nil
}

// Photons returns the photons of a leaf; nil for internal nodes
func (kd *KDTree) Photons() []Photon {
	return kd.photons
}

// Child1 returns the lower child of an internal node
func (kd *KDTree) Child1() *KDTree {
	return kd.child1
}

// Child2 returns the upper child of an internal node
func (kd *KDTree) Child2() *KDTree {
	return kd.child2
}

// Min returns the minimum corner of the node bounds
func (kd *KDTree) Min() core.Vec3 {
	return kd.bounds.Min
}

// Max returns the maximum corner of the node bounds
func (kd *KDTree) Max() core.Vec3 {
	return kd.bounds.Max
}

// Bounds returns the node bounds
func (kd *KDTree) Bounds() core.AABB {
	return kd.bounds
}

// Depth returns the node depth; the root is 0
func (kd *KDTree) Depth() int {
	return kd.depth
}

// Split returns the split axis and value of an internal node
func (kd *KDTree) Split() (int, float64) {
	return kd.splitAxis, kd.splitValue
}

// Walk visits every node top-down, depth first
func (kd *KDTree) Walk(fn func(node *KDTree)) {
	todo := []*KDTree{kd}
	for len(todo) > 0 {
		node := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		fn(node)
		if !node.IsLeaf() {
			todo = append(todo, node.child2, node.child1)
		}
	}
}

// Count returns the number of stored photons
func (kd *KDTree) Count() int {
	count := 0
	kd.Walk(func(node *KDTree) {
		count += len(node.photons)
	})
	return count
}
