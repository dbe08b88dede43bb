package material

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// Material describes how a surface reflects, emits and shades light
type Material interface {
	// DiffuseColor returns the diffuse albedo at surface coordinates uv / point
	DiffuseColor(uv core.Vec2, point core.Vec3) core.Vec3

	// ReflectiveColor returns the mirror reflectance
	ReflectiveColor() core.Vec3

	// EmittedColor returns the emitted radiance; zero for non-emitters
	EmittedColor() core.Vec3

	// Shade returns the light reflected toward the viewer of ray from a light
	// arriving along dirToLight with the given (already attenuated) color
	Shade(ray core.Ray, hit SurfaceInteraction, dirToLight, lightColor core.Vec3) core.Vec3
}

// EmissionThreshold is the emitted color magnitude above which a surface is treated as a light
const EmissionThreshold = 0.001

// IsEmissive reports whether a material acts as a light source
func IsEmissive(m Material) bool {
	return m != nil && m.EmittedColor().Length() > EmissionThreshold
}

// SurfaceInteraction contains information about a ray-object intersection
type SurfaceInteraction struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal at intersection, facing the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	UV        core.Vec2 // Surface parametrization (s,t) for texture lookup
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *SurfaceInteraction) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}
