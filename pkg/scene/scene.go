package scene

import (
	"fmt"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
	"github.com/df07/go-photon-raytracer/pkg/lightning"
	"github.com/df07/go-photon-raytracer/pkg/lights"
	"github.com/df07/go-photon-raytracer/pkg/material"
	"github.com/df07/go-photon-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	CameraConfig renderer.CameraConfig
	Quads        []geometry.Shape        // Flat faces, light quads included
	Primitives   []geometry.Rasterizable // Curved primitives
	AreaLights   []lights.AreaLight
	LineLights   []*lights.LineLight // Lightning segments
	Background   core.Vec3           // sRGB
	Ambient      core.Vec3           // Flat indirect light
	Raster       RasterConfig

	patches    []geometry.Shape
	patchIndex *geometry.BVH
	bounds     core.AABB
}

// RasterConfig is the patch resolution used when primitives are rasterized
type RasterConfig struct {
	Horizontal int
	Vertical   int
}

// DefaultRasterConfig returns the default patch resolution
func DefaultRasterConfig() RasterConfig {
	return RasterConfig{Horizontal: 24, Vertical: 12}
}

// NewGroundQuad creates a horizontal quad centered at center with normal (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, material material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) points up
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, material)
}

// AddQuad adds a flat face
func (s *Scene) AddQuad(corner, u, v core.Vec3, mat material.Material) *geometry.Quad {
	quad := geometry.NewQuad(corner, u, v, mat)
	s.Quads = append(s.Quads, quad)
	return quad
}

// AddQuadLight adds a rectangular area light. The light shines along u × v.
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) *lights.QuadLight {
	quadLight := lights.NewQuadLight(corner, u, v, material.NewEmissive(emission))
	s.AreaLights = append(s.AreaLights, quadLight)
	s.Quads = append(s.Quads, quadLight.Quad)
	return quadLight
}

// AddSphere adds a sphere primitive
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, mat)
	s.Primitives = append(s.Primitives, sphere)
	return sphere
}

// AddLightning grows a bolt from start toward the closest primitive
func (s *Scene) AddLightning(start core.Vec3, generator *lightning.Generator) int {
	var targets []lightning.Target
	for _, p := range s.Primitives {
		if target, ok := p.(lightning.Target); ok {
			targets = append(targets, target)
		}
	}
	segments := generator.Strike(start, targets)
	s.LineLights = append(s.LineLights, segments...)
	return len(segments)
}

// Preprocess computes the scene bounds and rasterizes every primitive
func (s *Scene) Preprocess() error {
	if len(s.Quads) == 0 && len(s.Primitives) == 0 {
		return fmt.Errorf("scene %q has no geometry", s.Name)
	}
	if s.Raster.Horizontal <= 0 || s.Raster.Vertical <= 0 {
		s.Raster = DefaultRasterConfig()
	}

	var bounds core.AABB
	first := true
	grow := func(box core.AABB) {
		if first {
			bounds, first = box, false
			return
		}
		bounds = bounds.Union(box)
	}

	for _, q := range s.Quads {
		grow(q.BoundingBox())
	}
	s.patches = s.patches[:0]
	for _, p := range s.Primitives {
		grow(p.BoundingBox())
		s.patches = append(s.patches, p.Rasterize(s.Raster.Horizontal, s.Raster.Vertical)...)
	}

	s.patchIndex = geometry.NewBVH(s.patches)
	s.bounds = bounds
	return nil
}

// BoundingBox returns the bounds of all geometry, valid after Preprocess
func (s *Scene) BoundingBox() core.AABB {
	return s.bounds
}

// GetPrimitiveCount returns the number of quads and primitives
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Quads) + len(s.Primitives)
}

func (s *Scene) GetQuads() []geometry.Shape {
	return s.Quads
}

func (s *Scene) GetPrimitives() []geometry.Shape {
	shapes := make([]geometry.Shape, len(s.Primitives))
	for i, p := range s.Primitives {
		shapes[i] = p
	}
	return shapes
}

// Patches returns the flat patches built by Preprocess
func (s *Scene) Patches() []geometry.Shape {
	return s.patches
}

// PatchIndex returns the hierarchy over Patches
func (s *Scene) PatchIndex() *geometry.BVH {
	return s.patchIndex
}

// GetRasterizedPatches returns the patches for ray casting, wrapped in their BVH
func (s *Scene) GetRasterizedPatches() []geometry.Shape {
	if len(s.patches) == 0 || s.patchIndex == nil {
		return nil
	}
	return []geometry.Shape{s.patchIndex}
}

func (s *Scene) GetAreaLights() []lights.AreaLight {
	return s.AreaLights
}

func (s *Scene) GetLineLights() []*lights.LineLight {
	return s.LineLights
}

func (s *Scene) GetBackgroundColor() core.Vec3 {
	return s.Background
}

func (s *Scene) GetAmbientLight() core.Vec3 {
	return s.Ambient
}

// NewCamera builds the scene camera, overriding the width when width > 0
func (s *Scene) NewCamera(width int) *renderer.Camera {
	config := s.CameraConfig
	if width > 0 {
		config.Width = width
	}
	return renderer.NewCamera(config)
}
