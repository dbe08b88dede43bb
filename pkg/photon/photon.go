package photon

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// Photon is a stored sample of light energy arriving at a surface
type Photon struct {
	Position      core.Vec3 // Where the photon landed
	DirectionFrom core.Vec3 // Unit direction the photon was travelling when it landed
	Energy        core.Vec3 // Per-channel radiant energy
	Bounce        int       // 0 for photons arriving straight from a light
}

// Caster finds the closest surface along a ray
type Caster interface {
	CastRay(ray core.Ray, useRasterizedPatches bool) (*material.SurfaceInteraction, bool)
}
