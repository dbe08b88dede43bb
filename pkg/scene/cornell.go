package scene

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/material"
	"github.com/df07/go-photon-raytracer/pkg/renderer"
)

// NewCornellScene creates a Cornell box with a ceiling light, a mirror sphere and a diffuse sphere
func NewCornellScene() *Scene {
	s := &Scene{
		Name: "cornell",
		CameraConfig: renderer.CameraConfig{
			Center:      core.NewVec3(0, 0, -3.7), // Outside the open front of the box
			LookAt:      core.NewVec3(0, 0, 0),
			Up:          core.NewVec3(0, 1, 0),
			Width:       400,
			AspectRatio: 1.0,
			VFov:        40.0,
		},
		Background: core.NewVec3(0, 0, 0),
		Ambient:    core.NewVec3(0.02, 0.02, 0.02),
		Raster:     DefaultRasterConfig(),
	}

	white := material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))

	// Box spans [-1,1] on every axis, open toward the camera
	s.AddQuad(core.NewVec3(-1, -1, -1), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0), white) // floor
	s.AddQuad(core.NewVec3(-1, 1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), white)  // ceiling
	s.AddQuad(core.NewVec3(-1, -1, 1), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), white)  // back
	s.AddQuad(core.NewVec3(-1, -1, -1), core.NewVec3(0, 0, 2), core.NewVec3(0, 2, 0), red)   // left
	s.AddQuad(core.NewVec3(1, -1, -1), core.NewVec3(0, 2, 0), core.NewVec3(0, 0, 2), green)  // right

	// Just below the ceiling, facing down
	s.AddQuadLight(
		core.NewVec3(-0.25, 0.999, -0.25),
		core.NewVec3(0.5, 0, 0),
		core.NewVec3(0, 0, 0.5),
		core.NewVec3(12, 12, 12),
	)

	mirror := material.NewPhong(core.NewVec3(0.05, 0.05, 0.05), core.NewVec3(0.9, 0.9, 0.9), 100)
	s.AddSphere(core.NewVec3(-0.45, -0.6, 0.3), 0.4, mirror)
	s.AddSphere(core.NewVec3(0.45, -0.65, -0.2), 0.35, material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.8)))

	return s
}
