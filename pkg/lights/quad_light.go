package lights

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// QuadLight represents a rectangular area light
type QuadLight struct {
	*geometry.Quad // Embed quad for hit testing
}

// NewQuadLight creates a new quad light
func NewQuadLight(corner, u, v core.Vec3, material material.Material) *QuadLight {
	return &QuadLight{Quad: geometry.NewQuad(corner, u, v, material)}
}

// Normal returns the quad normal (U × V)
func (ql *QuadLight) Normal() core.Vec3 {
	return ql.Quad.Normal
}

// Material returns the emissive material of the quad
func (ql *QuadLight) Material() material.Material {
	return ql.Quad.Material
}

// Power returns emitted color × area
func (ql *QuadLight) Power() core.Vec3 {
	if ql.Quad.Material == nil {
		return core.Vec3{}
	}
	return ql.Quad.Material.EmittedColor().Multiply(ql.Area())
}
