package scene

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/lightning"
	"github.com/df07/go-photon-raytracer/pkg/material"
	"github.com/df07/go-photon-raytracer/pkg/renderer"
)

// LightningStart is where the bolt of the lightning scene begins
var LightningStart = core.NewVec3(-0.6, 3.2, 0)

// NewLightningScene creates a night scene where a bolt strikes the nearest sphere
func NewLightningScene(generator *lightning.Generator) *Scene {
	s := &Scene{
		Name: "lightning",
		CameraConfig: renderer.CameraConfig{
			Center:      core.NewVec3(0, 1.5, -5),
			LookAt:      core.NewVec3(0, 1.3, 0),
			Up:          core.NewVec3(0, 1, 0),
			Width:       400,
			AspectRatio: 4.0 / 3.0,
			VFov:        45.0,
		},
		Background: core.NewVec3(0.02, 0.02, 0.06),
		Ambient:    core.NewVec3(0.01, 0.01, 0.02),
		Raster:     DefaultRasterConfig(),
	}

	ground := material.NewDiffuse(core.NewVec3(0.3, 0.32, 0.3))
	s.Quads = append(s.Quads, NewGroundQuad(core.NewVec3(0, 0, 0), 12, ground))

	// Faint moonlight so photons still reach the ground
	s.AddQuadLight(
		core.NewVec3(2, 6, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(2, 2, 2.5),
	)

	s.AddSphere(core.NewVec3(-0.4, 0.6, 0.5), 0.6, material.NewPhong(core.NewVec3(0.05, 0.05, 0.05), core.NewVec3(0.85, 0.85, 0.9), 150))
	s.AddSphere(core.NewVec3(1.3, 0.4, -0.2), 0.4, material.NewDiffuse(core.NewVec3(0.6, 0.5, 0.3)))

	if generator != nil {
		s.AddLightning(LightningStart, generator)
	}

	return s
}
