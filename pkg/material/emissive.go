package material

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Emissive represents a light-emitting material
type Emissive struct {
	Emission core.Vec3 // Emitted light color/intensity
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// DiffuseColor is black: lights absorb every photon that reaches them
func (e *Emissive) DiffuseColor(uv core.Vec2, point core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// ReflectiveColor is black: lights do not mirror
func (e *Emissive) ReflectiveColor() core.Vec3 {
	return core.Vec3{}
}

// EmittedColor returns the emitted light for this material
func (e *Emissive) EmittedColor() core.Vec3 {
	return e.Emission
}

// Shade returns the emission regardless of the incoming light
func (e *Emissive) Shade(ray core.Ray, hit SurfaceInteraction, dirToLight, lightColor core.Vec3) core.Vec3 {
	return e.Emission
}
