package photon

import (
	"math"
	"sort"
	"time"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/lights"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// AllocationMode decides how the photon budget is split across lights
type AllocationMode string

const (
	// AllocateTruncate gives each light floor(budget·area/totalArea) photons
	AllocateTruncate AllocationMode = "truncate"
	// AllocateLargestRemainder hands the photons lost to truncation to the
	// lights with the largest fractional shares
	AllocateLargestRemainder AllocationMode = "largest-remainder"
)

// boundsMargin grows the scene bounds so photons on the boundary are kept
const boundsMargin = 0.001

// Config controls a photon tracing pass
type Config struct {
	PhotonsToShoot int            // Total photon budget across all lights
	MaxBounces     int            // Last bounce index that may still continue
	Allocation     AllocationMode // Budget split across lights
}

// DefaultConfig returns the default tracing configuration
func DefaultConfig() Config {
	return Config{
		PhotonsToShoot: 10000,
		MaxBounces:     4,
		Allocation:     AllocateTruncate,
	}
}

// Tracer emits photons from area lights and records where they land
type Tracer struct {
	caster Caster
	config Config
	logger core.Logger
}

// NewTracer creates a photon tracer casting rays through caster
func NewTracer(caster Caster, config Config, logger core.Logger) *Tracer {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &Tracer{caster: caster, config: config, logger: logger}
}

// tracePass holds the state of one TracePhotons call
type tracePass struct {
	tree    *KDTree
	sampler core.Sampler
	stats   Stats
}

// TracePhotons builds a fresh photon map for the scene. The returned map is
// never modified afterwards.
func (t *Tracer) TracePhotons(sceneBounds core.AABB, areaLights []lights.AreaLight, sampler core.Sampler) *Map {
	start := time.Now()
	pass := &tracePass{
		tree:    NewKDTree(indexBounds(sceneBounds)),
		sampler: sampler,
	}

	totalArea := lights.TotalArea(areaLights)
	if totalArea <= 0 || t.config.PhotonsToShoot <= 0 {
		t.logger.Printf("No photons traced: total light area %.4f, budget %d\n", totalArea, t.config.PhotonsToShoot)
		return newMap(pass.tree, pass.stats)
	}

	counts := AllocatePhotons(areaLights, t.config.PhotonsToShoot, t.config.Allocation)
	t.logger.Printf("Tracing %d photons from %d lights...\n", sum(counts), len(areaLights))

	for i, light := range areaLights {
		num := counts[i]
		if num <= 0 {
			continue
		}

		var emitted core.Vec3
		if mat := light.Material(); mat != nil {
			emitted = mat.EmittedColor()
		}
		energy := emitted.Multiply(light.Area() / float64(num))
		if energy.IsZero() {
			continue
		}

		for j := 0; j < num; j++ {
			emission := lights.SampleEmission(light, sampler)
			pass.stats.PhotonsEmitted++
			t.tracePhoton(pass, emission.Point, emission.Direction, energy, 0)
		}
	}

	photonMap := newMap(pass.tree, pass.stats)
	stats := photonMap.Stats()
	t.logger.Printf("Photon pass completed in %v: %d stored, %d dropped, %d leaves, depth %d\n",
		time.Since(start), stats.PhotonsStored, stats.PhotonsDropped, stats.Leaves, stats.MaxDepth)
	return photonMap
}

// tracePhoton follows one photon through the scene, storing it at every hit
func (t *Tracer) tracePhoton(pass *tracePass, position, direction, energy core.Vec3, bounce int) {
	ray := core.NewRay(position, direction)
	hit, isHit := t.caster.CastRay(ray, false)
	if !isHit {
		return
	}

	// Stored before the roulette so absorbed photons still show up
	stored := Photon{
		Position:      hit.Point,
		DirectionFrom: direction,
		Energy:        energy,
		Bounce:        bounce,
	}
	if pass.tree.AddPhoton(stored) {
		pass.stats.PhotonsStored++
	} else {
		pass.stats.PhotonsDropped++
	}

	if hit.Material == nil {
		return
	}

	newDir, newEnergy, survived := russianRoulette(hit, direction, energy, pass.sampler)
	if !survived || newEnergy.IsZero() || bounce >= t.config.MaxBounces {
		return
	}
	t.tracePhoton(pass, hit.Point, newDir, newEnergy, bounce+1)
}

// russianRoulette decides between diffuse bounce, specular bounce and absorption.
// Surviving energy is divided by the probability of the chosen branch.
func russianRoulette(hit *material.SurfaceInteraction, direction, energy core.Vec3, sampler core.Sampler) (core.Vec3, core.Vec3, bool) {
	dif := hit.Material.DiffuseColor(hit.UV, hit.Point)
	spec := hit.Material.ReflectiveColor()

	pReflect := dif.Add(spec).MaxComponent()
	sumDif := dif.Sum()
	sumSpec := spec.Sum()
	total := sumDif + sumSpec
	if pReflect <= 0 || total <= 0 {
		return core.Vec3{}, core.Vec3{}, false
	}
	pDif := pReflect * sumDif / total
	pSpec := pReflect * sumSpec / total

	choice := sampler.Get1D()
	switch {
	case choice > pReflect:
		return core.Vec3{}, core.Vec3{}, false
	case choice <= pDif && pDif > 0:
		newDir := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
		return newDir, energy.MultiplyVec(dif).Multiply(1 / pDif), true
	case pSpec > 0:
		newDir := core.MirrorDirection(hit.Normal, direction)
		return newDir, energy.MultiplyVec(spec).Multiply(1 / pSpec), true
	}
	return core.Vec3{}, core.Vec3{}, false
}

// AllocatePhotons splits budget across lights in proportion to their area
func AllocatePhotons(areaLights []lights.AreaLight, budget int, mode AllocationMode) []int {
	counts := make([]int, len(areaLights))
	totalArea := lights.TotalArea(areaLights)
	if totalArea <= 0 || budget <= 0 {
		return counts
	}

	type share struct {
		index     int
		remainder float64
	}
	shares := make([]share, len(areaLights))
	allocated := 0
	for i, light := range areaLights {
		exact := float64(budget) * light.Area() / totalArea
		counts[i] = int(math.Floor(exact))
		allocated += counts[i]
		shares[i] = share{index: i, remainder: exact - float64(counts[i])}
	}

	if mode != AllocateLargestRemainder {
		return counts
	}

	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].remainder > shares[b].remainder
	})
	for i := 0; allocated < budget && i < len(shares); i++ {
		if areaLights[shares[i].index].Area() <= 0 {
			continue
		}
		counts[shares[i].index]++
		allocated++
	}
	return counts
}

// indexBounds expands the scene bounds by the margin on every axis; flat
// axes get a small absolute margin
func indexBounds(sceneBounds core.AABB) core.AABB {
	bounds := sceneBounds.ExpandFraction(boundsMargin)
	for axis := 0; axis < 3; axis++ {
		if bounds.Max.Component(axis)-bounds.Min.Component(axis) <= 0 {
			bounds.Min = bounds.Min.WithComponent(axis, bounds.Min.Component(axis)-core.Epsilon)
			bounds.Max = bounds.Max.WithComponent(axis, bounds.Max.Component(axis)+core.Epsilon)
		}
	}
	return bounds
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
