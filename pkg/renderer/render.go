package renderer

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// RenderOptions contains image rendering configuration
type RenderOptions struct {
	SamplesPerPixel int   // 1 traces pixel centers, more jitters inside the pixel
	NumWorkers      int   // 0 = runtime.NumCPU(), 1 = render on the calling goroutine
	TileRows        int   // Rows per task handed to the worker pool
	Seed            int64 // Base seed for the per-row samplers
}

// DefaultRenderOptions returns sensible default values
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		SamplesPerPixel: 1,
		NumWorkers:      0,
		TileRows:        8,
		Seed:            42,
	}
}

// Renderer traces a full image with a worker pool over horizontal strips
type Renderer struct {
	tracer  *RayTracer
	camera  *Camera
	options RenderOptions
	logger  core.Logger
}

// NewRenderer creates a renderer. A nil logger discards progress output.
func NewRenderer(tracer *RayTracer, camera *Camera, options RenderOptions, logger core.Logger) *Renderer {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	if options.NumWorkers <= 0 {
		options.NumWorkers = runtime.NumCPU()
	}
	if options.TileRows < 1 {
		options.TileRows = 8
	}
	if options.SamplesPerPixel < 1 {
		options.SamplesPerPixel = 1
	}

	return &Renderer{
		tracer:  tracer,
		camera:  camera,
		options: options,
		logger:  logger,
	}
}

// Render traces every pixel and returns the linear image. Cancelling ctx stops
// scheduling new strips; strips already running finish. The worker pool lives
// only for the duration of the call.
func (r *Renderer) Render(ctx context.Context) (*Image, RenderStats, error) {
	start := time.Now()
	width, height := r.camera.Width(), r.camera.Height()
	img := NewImage(width, height)
	tileRenderer := NewTileRenderer(r.tracer, r.camera, r.options.SamplesPerPixel, r.options.Seed)

	r.logger.Printf("Rendering %dx%d, %d spp, %d workers\n", width, height, r.options.SamplesPerPixel, r.options.NumWorkers)

	tiles := r.tiles(width, height)
	progress := newProgress(r.logger, len(tiles))

	var mu sync.Mutex
	var stats RenderStats
	renderTile := func(bounds image.Rectangle) {
		if ctx.Err() != nil {
			return
		}
		tileStats := tileRenderer.RenderTileBounds(bounds, img)
		mu.Lock()
		stats.merge(tileStats)
		mu.Unlock()
		progress.tick()
	}

	if r.options.NumWorkers <= 1 {
		for _, bounds := range tiles {
			renderTile(bounds)
		}
	} else {
		pool := worker.NewDynamicWorkerPool(r.options.NumWorkers, len(tiles), 1*time.Second)
		defer pool.Stop()

		var wg sync.WaitGroup
		for id, bounds := range tiles {
			wg.Add(1)
			b := bounds
			pool.SubmitTask(worker.Task{
				ID: id,
				Do: func() (any, error) {
					defer wg.Done()
					renderTile(b)
					return nil, nil
				},
			})
		}
		wg.Wait()
	}

	if err := ctx.Err(); err != nil {
		return nil, stats, fmt.Errorf("render cancelled after %d rows: %w", stats.Rows, err)
	}

	stats.finalize()
	stats.Duration = time.Since(start)
	r.logger.Printf("Render completed in %v (%d pixels, %.1f avg samples)\n",
		stats.Duration, stats.TotalPixels, stats.AverageSamples)
	return img, stats, nil
}

// tiles splits the image into full-width strips of TileRows rows
func (r *Renderer) tiles(width, height int) []image.Rectangle {
	var tiles []image.Rectangle
	for y := 0; y < height; y += r.options.TileRows {
		tiles = append(tiles, image.Rect(0, y, width, min(y+r.options.TileRows, height)))
	}
	return tiles
}

// progress logs roughly every tenth of the finished strips
type progress struct {
	logger core.Logger
	total  int
	done   atomic.Int64
	step   int64
}

func newProgress(logger core.Logger, total int) *progress {
	step := int64(total / 10)
	if step < 1 {
		step = 1
	}
	return &progress{logger: logger, total: total, step: step}
}

func (p *progress) tick() {
	done := p.done.Add(1)
	if done%p.step == 0 && int(done) < p.total {
		p.logger.Printf("%.1f%% done\n", float64(done)*100/float64(p.total))
	}
}
