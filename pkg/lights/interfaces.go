package lights

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// AreaLight is an emissive surface that can be sampled for shadow rays and photon emission
type AreaLight interface {
	// Area returns the surface area of the light
	Area() float64

	// Centroid returns the representative point used for single-sample lighting
	Centroid() core.Vec3

	// Normal returns the emitting side's surface normal
	Normal() core.Vec3

	// RandomPoint returns a uniformly distributed point on the light surface
	RandomPoint(sampler core.Sampler) core.Vec3

	// Material returns the light's emissive material
	Material() material.Material

	// Power returns emitted color × area, the light's total radiant power proxy
	Power() core.Vec3
}

// LightSample contains information about a sampled point on a light as seen from a shading point
type LightSample struct {
	Point     core.Vec3 // Point on the light source
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to light
}

// EmissionSample contains information about a sampled photon emission
type EmissionSample struct {
	Point     core.Vec3 // Point on the light surface
	Normal    core.Vec3 // Surface normal at the emission point
	Direction core.Vec3 // Emission direction FROM the surface (cosine-weighted hemisphere)
}
