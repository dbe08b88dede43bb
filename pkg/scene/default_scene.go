package scene

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/material"
	"github.com/df07/go-photon-raytracer/pkg/renderer"
)

// NewDefaultScene creates a checkered ground with three spheres under a square light
func NewDefaultScene() *Scene {
	s := &Scene{
		Name: "spheres",
		CameraConfig: renderer.CameraConfig{
			Center:      core.NewVec3(0, 1.2, -4),
			LookAt:      core.NewVec3(0, 0.5, 0),
			Up:          core.NewVec3(0, 1, 0),
			Width:       400,
			AspectRatio: 16.0 / 9.0,
			VFov:        40.0,
		},
		Background: core.NewVec3(0.5, 0.7, 1.0),
		Ambient:    core.NewVec3(0.05, 0.05, 0.05),
		Raster:     DefaultRasterConfig(),
	}

	checker := material.NewChecker(8, core.NewVec3(0.8, 0.8, 0.8), core.NewVec3(0.2, 0.2, 0.25))
	s.Quads = append(s.Quads, NewGroundQuad(core.NewVec3(0, 0, 0), 8, material.NewTexturedPhong(checker, core.Vec3{}, 1)))

	s.AddQuadLight(
		core.NewVec3(-0.5, 3, -0.5),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(15, 15, 14),
	)

	s.AddSphere(core.NewVec3(0, 0.5, 0), 0.5, material.NewPhong(core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.8, 0.8, 0.8), 200))
	s.AddSphere(core.NewVec3(-1.1, 0.35, 0.3), 0.35, material.NewPhong(core.NewVec3(0.7, 0.2, 0.2), core.NewVec3(0.1, 0.1, 0.1), 30))
	s.AddSphere(core.NewVec3(1.1, 0.35, 0.3), 0.35, material.NewDiffuse(core.NewVec3(0.2, 0.3, 0.7)))

	return s
}
