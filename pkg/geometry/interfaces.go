package geometry

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool)
	BoundingBox() core.AABB
}

// Rasterizable is implemented by curved primitives that can be replaced
// by a set of flat patches
type Rasterizable interface {
	Shape
	Rasterize(horizontal, vertical int) []Shape
}
