package renderer

import (
	"image"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// TileRenderer traces the pixels of one rectangular region of the image
type TileRenderer struct {
	tracer          *RayTracer
	camera          *Camera
	samplesPerPixel int
	seed            int64
}

// NewTileRenderer creates a tile renderer sharing tracer and camera
func NewTileRenderer(tracer *RayTracer, camera *Camera, samplesPerPixel int, seed int64) *TileRenderer {
	if samplesPerPixel < 1 {
		samplesPerPixel = 1
	}
	return &TileRenderer{
		tracer:          tracer,
		camera:          camera,
		samplesPerPixel: samplesPerPixel,
		seed:            seed,
	}
}

// RenderTileBounds traces every pixel inside bounds into img. Each row draws
// from its own sampler so results do not depend on which worker ran the tile.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, img *Image) RenderStats {
	var stats RenderStats
	bounceBudget := tr.tracer.Config().NumBounces

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		sampler := core.NewSeededSampler(RowSeed(tr.seed, j))
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			var ps PixelStats
			tr.samplePixel(i, j, &ps, sampler, bounceBudget)
			img.SetPixel(i, j, ps.GetColor())
			stats.TotalPixels++
			stats.TotalSamples += ps.SampleCount
		}
		stats.Rows++
	}

	return stats
}

// samplePixel traces the pixel center for a single sample, jittered rays otherwise
func (tr *TileRenderer) samplePixel(i, j int, ps *PixelStats, sampler core.Sampler, bounceBudget int) {
	if tr.samplesPerPixel == 1 {
		ray := tr.camera.GetRay(i, j, core.NewVec2(0.5, 0.5))
		ps.AddSample(tr.tracer.TraceRay(ray, bounceBudget, sampler))
		return
	}

	for s := 0; s < tr.samplesPerPixel; s++ {
		ray := tr.camera.GetRay(i, j, sampler.Get2D())
		ps.AddSample(tr.tracer.TraceRay(ray, bounceBudget, sampler))
	}
}

// RowSeed derives the sampler seed of image row j
func RowSeed(seed int64, j int) int64 {
	return seed*1_000_003 + int64(j)*7_919 + 1
}
