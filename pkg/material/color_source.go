package material

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	// UV is used for surface-mapped patterns, point for solid procedural textures
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// Checker alternates two colors in a square pattern over UV space
type Checker struct {
	Color1, Color2 core.Vec3
	Checks         int // number of checks along each UV axis
}

// NewChecker creates a checkerboard color source
func NewChecker(checks int, color1, color2 core.Vec3) *Checker {
	if checks < 1 {
		checks = 1
	}
	return &Checker{Color1: color1, Color2: color2, Checks: checks}
}

// Evaluate returns the check color containing uv
func (c *Checker) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	checkX := int(math.Floor(uv.X * float64(c.Checks)))
	checkY := int(math.Floor(uv.Y * float64(c.Checks)))
	if (checkX+checkY)%2 == 0 {
		return c.Color1
	}
	return c.Color2
}
