package photon

import (
	"math"
	"sort"
	"sync"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// OcclusionMode selects how gathered photons are tested for visibility
type OcclusionMode string

const (
	// OcclusionView casts from the photon back along the viewing ray
	OcclusionView OcclusionMode = "view"
	// OcclusionPhoton casts from the photon back along its own arrival direction
	OcclusionPhoton OcclusionMode = "photon"
	// OcclusionSegment tests the segment between the gather point and the photon
	OcclusionSegment OcclusionMode = "segment"
	// OcclusionNone accepts every photon inside the radius
	OcclusionNone OcclusionMode = "none"
)

// GatherConfig controls radiance estimation
type GatherConfig struct {
	PhotonsToCollect int           // K nearest photons per estimate
	Epsilon          float64       // Initial search half-width
	Occlusion        OcclusionMode // Visibility filter for candidates
	ClampCosine      bool          // Drop photons arriving from behind the surface
}

// DefaultGatherConfig returns the default gather configuration
func DefaultGatherConfig() GatherConfig {
	return GatherConfig{
		PhotonsToCollect: 100,
		Epsilon:          core.Epsilon,
		Occlusion:        OcclusionView,
		ClampCosine:      true,
	}
}

// Stats summarizes a photon map
type Stats struct {
	PhotonsEmitted int
	PhotonsStored  int
	PhotonsDropped int // landed outside the index bounds
	Nodes          int
	Leaves         int
	MaxDepth       int
}

// Map is the immutable result of a photon tracing pass
type Map struct {
	tree  *KDTree
	stats Stats
}

func newMap(tree *KDTree, stats Stats) *Map {
	tree.Walk(func(node *KDTree) {
		stats.Nodes++
		if node.IsLeaf() {
			stats.Leaves++
		}
		if node.Depth() > stats.MaxDepth {
			stats.MaxDepth = node.Depth()
		}
	})
	return &Map{tree: tree, stats: stats}
}

// Tree returns the photon index for inspection
func (m *Map) Tree() *KDTree {
	return m.tree
}

// Stats returns counters collected while tracing
func (m *Map) Stats() Stats {
	return m.stats
}

// PhotonsShot returns the number of photons emitted to build the map
func (m *Map) PhotonsShot() int {
	return m.stats.PhotonsEmitted
}

// Photons calls fn for every stored photon
func (m *Map) Photons(fn func(p Photon)) {
	m.tree.Walk(func(node *KDTree) {
		for _, p := range node.photons {
			fn(p)
		}
	})
}

// Gatherer estimates indirect irradiance from a photon map
type Gatherer struct {
	photonMap *Map
	caster    Caster
	config    GatherConfig
	logger    core.Logger
	warnOnce  sync.Once
}

// NewGatherer creates a gatherer over photonMap. A nil map is allowed and
// gathers zero irradiance.
func NewGatherer(photonMap *Map, caster Caster, config GatherConfig, logger core.Logger) *Gatherer {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	if config.PhotonsToCollect < 1 {
		config.PhotonsToCollect = 1
	}
	if config.Epsilon <= 0 {
		config.Epsilon = core.Epsilon
	}

	return &Gatherer{
		photonMap: photonMap,
		caster:    caster,
		config:    config,
		logger:    logger,
	}
}

type candidate struct {
	photon   Photon
	distance float64
}

// GatherIndirect estimates the irradiance at point from the K nearest visible photons
func (g *Gatherer) GatherIndirect(point, normal, directionFrom core.Vec3) core.Vec3 {
	if g.photonMap == nil || g.photonMap.tree == nil {
		g.warnOnce.Do(func() {
			g.logger.Printf("WARNING: photons have not been traced through the scene\n")
		})
		return core.Vec3{}
	}

	tree := g.photonMap.tree
	k := g.config.PhotonsToCollect
	bounds := tree.Bounds()
	farthest := farthestCornerDistance(point, bounds)

	radius := g.config.Epsilon
	var collected []Photon
	var candidates []candidate
	var accepted []candidate

	for {
		box := core.NewAABBAround(point, radius)
		collected = tree.CollectPhotonsInBox(box, collected[:0])

		// Once the search sphere covers the whole index nothing new can appear
		exhausted := radius > farthest

		if len(collected) >= k || exhausted {
			candidates = candidates[:0]
			for _, p := range collected {
				candidates = append(candidates, candidate{photon: p, distance: p.Position.Distance(point)})
			}
			sort.SliceStable(candidates, func(a, b int) bool {
				return candidates[a].distance < candidates[b].distance
			})

			accepted = accepted[:0]
			for _, c := range candidates {
				if c.distance >= radius {
					break
				}
				if g.occluded(c, point, directionFrom) {
					continue
				}
				accepted = append(accepted, c)
				if len(accepted) >= k {
					break
				}
			}

			if len(accepted) >= k || exhausted {
				break
			}
		}

		radius *= 2
	}

	if len(accepted) == 0 {
		return core.Vec3{}
	}

	// Normalize over the disk reaching the farthest accepted photon
	finalRadius := accepted[len(accepted)-1].distance
	if finalRadius <= 0 {
		finalRadius = radius
	}

	var result core.Vec3
	for _, c := range accepted {
		weight := c.photon.DirectionFrom.Negate().Dot(normal)
		if g.config.ClampCosine && weight < 0 {
			continue
		}
		result = result.Add(c.photon.Energy.Multiply(weight))
	}
	return result.Multiply(1 / (math.Pi * finalRadius * finalRadius))
}

// occluded applies the configured visibility test to a candidate photon
func (g *Gatherer) occluded(c candidate, point, directionFrom core.Vec3) bool {
	if g.caster == nil {
		return false
	}

	switch g.config.Occlusion {
	case OcclusionNone:
		return false
	case OcclusionPhoton:
		dir := c.photon.DirectionFrom.Negate().Normalize()
		if dir.IsZero() {
			return false
		}
		_, isHit := g.caster.CastRay(core.NewRay(c.photon.Position, dir), false)
		return isHit
	case OcclusionSegment:
		if c.distance <= core.Epsilon {
			return false
		}
		dir := c.photon.Position.Subtract(point).Multiply(1 / c.distance)
		hit, isHit := g.caster.CastRay(core.NewRay(point, dir), false)
		return isHit && hit.T < c.distance-core.Epsilon
	default:
		dir := directionFrom.Negate().Normalize()
		if dir.IsZero() {
			return false
		}
		_, isHit := g.caster.CastRay(core.NewRay(c.photon.Position, dir), false)
		return isHit
	}
}

// farthestCornerDistance returns the largest distance from p to any point of box
func farthestCornerDistance(p core.Vec3, box core.AABB) float64 {
	dx := math.Max(math.Abs(p.X-box.Min.X), math.Abs(p.X-box.Max.X))
	dy := math.Max(math.Abs(p.Y-box.Min.Y), math.Abs(p.Y-box.Max.Y))
	dz := math.Max(math.Abs(p.Z-box.Min.Z), math.Abs(p.Z-box.Max.Z))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
