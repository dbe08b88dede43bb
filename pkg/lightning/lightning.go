package lightning

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/lights"
)

// Target is anything a bolt can strike
type Target interface {
	ClosestPoint(p core.Vec3) core.Vec3
}

// Config shapes a lightning bolt. Angles are in degrees.
type Config struct {
	StartRadius       float64 // Channel radius of the main branch
	MeanSegmentLength float64 // Segments are uniform in [0, 2·mean]
	MaxSegmentAngle   float64 // Main branch deviation from its heading
	BranchProbability float64 // Chance of a side branch after each segment
	MeanBranchLength  float64 // Side branches are uniform in [0, 2·mean]
	MaxBranchAngle    float64 // Spread of side branches
	MaxSegments       int     // Hard cap on the whole bolt
}

// DefaultConfig returns the default bolt shape
func DefaultConfig() Config {
	return Config{
		StartRadius:       0.05,
		MeanSegmentLength: 0.08,
		MaxSegmentAngle:   30,
		BranchProbability: 0.2,
		MeanBranchLength:  0.8,
		MaxBranchAngle:    50,
		MaxSegments:       4096,
	}
}

const (
	branchProbabilityDecay = 0.8
	branchProbabilityFloor = 0.01
	branchRadiusScale      = 0.5
	branchLengthScale      = 0.5
	branchAngleGrowth      = 1.3
)

// Generator grows lightning bolts as random walks in the XY plane
type Generator struct {
	config  Config
	sampler core.Sampler
	logger  core.Logger
}

// NewGenerator creates a bolt generator drawing from sampler
func NewGenerator(config Config, sampler core.Sampler, logger core.Logger) *Generator {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	if config.MaxSegments <= 0 {
		config.MaxSegments = DefaultConfig().MaxSegments
	}
	return &Generator{config: config, sampler: sampler, logger: logger}
}

// ClosestTargetPoint returns the nearest surface point of any target, or start
// itself when there are none
func ClosestTargetPoint(start core.Vec3, targets []Target) core.Vec3 {
	closest := start
	shortest := math.Inf(1)
	for _, target := range targets {
		p := target.ClosestPoint(start)
		if d := p.Distance(start); d < shortest {
			shortest = d
			closest = p
		}
	}
	return closest
}

// Strike grows a bolt from start toward the closest target
func (g *Generator) Strike(start core.Vec3, targets []Target) []*lights.LineLight {
	closest := ClosestTargetPoint(start, targets)
	g.logger.Printf("Lightning from %v strikes toward %v\n", start, closest)

	toTarget := closest.Subtract(start)
	dist := toTarget.Length()
	if dist <= 0 {
		return nil
	}

	b := &bolt{gen: g}
	b.branch(start, toTarget.Multiply(1/dist), dist, g.config.StartRadius,
		g.config.BranchProbability, g.config.MeanBranchLength, g.config.MaxSegmentAngle)

	if b.capped {
		g.logger.Printf("WARNING: lightning stopped at %d segments\n", len(b.segments))
	}
	return b.segments
}

// bolt accumulates the segments of one strike
type bolt struct {
	gen      *Generator
	segments []*lights.LineLight
	capped   bool
}

// branch walks from start along dir until it is dist away, spawning side branches
func (b *bolt) branch(start, dir core.Vec3, dist, radius, branchProbability, meanBranchLength, maxSegmentAngle float64) {
	cfg := b.gen.config
	sampler := b.gen.sampler
	last, next := start, start

	for next.Distance(start) < dist {
		if len(b.segments) >= cfg.MaxSegments {
			b.capped = true
			return
		}

		angle := (0.5 - sampler.Get1D()) * 2 * degreesToRadians(maxSegmentAngle)
		length := sampler.Get1D() * 2 * cfg.MeanSegmentLength
		next = last.Add(dir.RotateZ(angle).Multiply(length))
		b.segments = append(b.segments, lights.NewLineLight(last, next, radius))

		if sampler.Get1D() < branchProbability && branchProbability > branchProbabilityFloor {
			branchAngle := (0.5 - sampler.Get1D()) * degreesToRadians(cfg.MaxBranchAngle)
			branchDist := sampler.Get1D() * 2 * meanBranchLength
			branchDir := next.Subtract(last).RotateZ(branchAngle).Normalize()
			if !branchDir.IsZero() {
				b.branch(next, branchDir, branchDist, radius*branchRadiusScale,
					branchProbability*branchProbabilityDecay, meanBranchLength*branchLengthScale,
					maxSegmentAngle*branchAngleGrowth)
			}
		}

		last = next
	}
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}
