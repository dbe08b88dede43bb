package lights

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// LineLight is a lightning channel segment acting as a light source
type LineLight struct {
	Start  core.Vec3
	End    core.Vec3
	Radius float64 // channel radius; the visible channel is 2·Radius wide
}

// NewLineLight creates a new line light
func NewLineLight(start, end core.Vec3, radius float64) *LineLight {
	return &LineLight{Start: start, End: end, Radius: radius}
}

// Length returns the segment length
func (ll *LineLight) Length() float64 {
	return ll.End.Subtract(ll.Start).Length()
}

// Midpoint returns the segment center, used for single-sample lighting
func (ll *LineLight) Midpoint() core.Vec3 {
	return ll.PointAt(0.5)
}

// PointAt returns Start + u·(End-Start)
func (ll *LineLight) PointAt(u float64) core.Vec3 {
	return ll.Start.Add(ll.End.Subtract(ll.Start).Multiply(u))
}

// Power returns the scalar power of the segment for a per-unit-length intensity
func (ll *LineLight) Power(intensity float64) float64 {
	return intensity * ll.Length()
}

// BoundingBox returns the segment bounds grown by the channel radius
func (ll *LineLight) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(ll.Start, ll.End).Expand(ll.Radius)
}

// ClosestApproach returns the shortest distance between the ray (t ≥ 0)
// and the segment, and the segment parameter of the closest point
func (ll *LineLight) ClosestApproach(ray core.Ray) (float64, float64) {
	d1 := ray.Direction
	d2 := ll.End.Subtract(ll.Start)
	r := ray.Origin.Subtract(ll.Start)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	if a <= 0 {
		// Degenerate ray: distance from its origin
		s := 0.0
		if e > 0 {
			s = clamp01(f / e)
		}
		return ray.Origin.Distance(ll.PointAt(s)), s
	}

	c := d1.Dot(r)
	var t, s float64
	if e <= 0 {
		// Degenerate segment is a point
		t = math.Max(0, -c/a)
	} else {
		b := d1.Dot(d2)
		denom := a*e - b*b
		if denom > 1e-12 {
			t = math.Max(0, (b*f-c*e)/denom)
		}

		s = (b*t + f) / e
		if s < 0 {
			s = 0
			t = math.Max(0, -c/a)
		} else if s > 1 {
			s = 1
			t = math.Max(0, (b-c)/a)
		}
	}

	return ray.At(t).Distance(ll.PointAt(s)), s
}

// ChannelFalloff is exp(-(2·dist/width)^sharpness) with width = 2·Radius
func (ll *LineLight) ChannelFalloff(dist, sharpness float64) float64 {
	width := 2 * ll.Radius
	if width <= 0 {
		if dist == 0 {
			return 1
		}
		return 0
	}
	return math.Exp(-math.Pow(2*dist/width, sharpness))
}

// GlowFalloff is the wider halo exp(-(dist/glowWidth)^2)
func (ll *LineLight) GlowFalloff(dist, glowWidth float64) float64 {
	if glowWidth <= 0 {
		if dist == 0 {
			return 1
		}
		return 0
	}
	x := dist / glowWidth
	return math.Exp(-x * x)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
