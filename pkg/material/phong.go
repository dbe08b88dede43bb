package material

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Phong is a diffuse + mirror material with a Phong specular highlight.
// The reflective color doubles as the highlight color.
type Phong struct {
	Diffuse    ColorSource // Diffuse albedo (solid or textured)
	Reflective core.Vec3   // Mirror reflectance
	Emitted    core.Vec3   // Emitted radiance
	Exponent   float64     // Phong highlight exponent
}

// NewPhong creates a Phong material with a solid diffuse color
func NewPhong(diffuse, reflective core.Vec3, exponent float64) *Phong {
	return &Phong{
		Diffuse:    NewSolidColor(diffuse),
		Reflective: reflective,
		Exponent:   exponent,
	}
}

// NewDiffuse creates a purely diffuse material
func NewDiffuse(albedo core.Vec3) *Phong {
	return NewPhong(albedo, core.Vec3{}, 1)
}

// NewTexturedPhong creates a Phong material with a textured diffuse color
func NewTexturedPhong(diffuse ColorSource, reflective core.Vec3, exponent float64) *Phong {
	return &Phong{
		Diffuse:    diffuse,
		Reflective: reflective,
		Exponent:   exponent,
	}
}

// DiffuseColor samples the diffuse color source
func (p *Phong) DiffuseColor(uv core.Vec2, point core.Vec3) core.Vec3 {
	if p.Diffuse == nil {
		return core.Vec3{}
	}
	return p.Diffuse.Evaluate(uv, point)
}

// ReflectiveColor returns the mirror reflectance
func (p *Phong) ReflectiveColor() core.Vec3 {
	return p.Reflective
}

// EmittedColor returns the emitted radiance
func (p *Phong) EmittedColor() core.Vec3 {
	return p.Emitted
}

// Shade evaluates emitted + Lambertian diffuse + Phong highlight for one light
func (p *Phong) Shade(ray core.Ray, hit SurfaceInteraction, dirToLight, lightColor core.Vec3) core.Vec3 {
	n := hit.Normal
	e := ray.Direction.Negate().Normalize()
	l := dirToLight

	answer := p.Emitted

	dotNL := n.Dot(l)
	if dotNL < 0 {
		dotNL = 0
	}
	diffuse := p.DiffuseColor(hit.UV, hit.Point)
	answer = answer.Add(lightColor.MultiplyVec(diffuse).Multiply(dotNL))

	if dotNL == 0 || p.Reflective.IsZero() {
		return answer
	}

	// Mirror the light direction about the normal for the highlight
	r := l.Negate().Add(n.Multiply(2 * dotNL)).Normalize()
	dotER := e.Dot(r)
	if dotER < 0 {
		dotER = 0
	}
	highlight := math.Pow(dotER, p.Exponent) * dotNL
	return answer.Add(lightColor.MultiplyVec(p.Reflective).Multiply(highlight))
}
