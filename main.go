package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/df07/go-photon-raytracer/pkg/config"
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/imageio"
	"github.com/df07/go-photon-raytracer/pkg/photon"
	"github.com/df07/go-photon-raytracer/pkg/renderer"
	"github.com/df07/go-photon-raytracer/pkg/scene"
	"github.com/df07/go-photon-raytracer/pkg/visualize"
)

// cliOptions holds flags that are not part of the config file
type cliOptions struct {
	help       bool
	listScenes bool
	saveConfig string
}

func main() {
	cfg, opts, err := parseArgs(os.Args[1:], os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	if opts.listScenes {
		for _, info := range scene.ListScenes() {
			fmt.Printf("  %-10s %s\n", info.ID, info.Description)
		}
		return
	}
	if opts.saveConfig != "" {
		if err := config.Save(cfg, opts.saveConfig); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config saved as %s\n", opts.saveConfig)
		return
	}

	logger := core.NewDefaultLogger()
	logger.Printf("Starting Photon Raytracer...\n")
	if cfg.Debug.LogHost {
		logHostInfo(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outputPath := cfg.Render.Output
	if outputPath == "" {
		outputPath = createOutputPath(cfg.Scene.Name, time.Now())
	}

	if err := run(ctx, cfg, outputPath, logger); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs loads the config file named by -config and applies any flags that
// were set explicitly on top of it
func parseArgs(args []string, output io.Writer) (*config.Config, cliOptions, error) {
	var opts cliOptions
	defaults := config.DefaultConfig()

	fs := flag.NewFlagSet("photon-raytracer", flag.ContinueOnError)
	fs.SetOutput(output)
	configPath := fs.String("config", "", "YAML config file; flags override its values")
	sceneName := fs.String("scene", defaults.Scene.Name, "Scene to render (see -list)")
	width := fs.Int("width", defaults.Render.Width, "Image width in pixels (0 keeps the scene width)")
	spp := fs.Int("spp", defaults.Render.SamplesPerPixel, "Samples per pixel")
	workers := fs.Int("workers", defaults.Render.NumWorkers, "Render workers (0 = one per CPU)")
	seed := fs.Int64("seed", defaults.Render.Seed, "Random seed")
	outputFile := fs.String("output", defaults.Render.Output, "Output image (.png or .ppm)")
	photons := fs.Int("photons", defaults.Photons.NumPhotonsToShoot, "Photons to shoot")
	collect := fs.Int("collect", defaults.Photons.NumPhotonsToCollect, "Photons gathered per estimate")
	occlusion := fs.String("occlusion", defaults.Photons.Occlusion, "Gather occlusion test: view, photon, segment or none")
	bounces := fs.Int("bounces", defaults.Tracing.NumBounces, "Mirror bounce budget for eye rays")
	shadowSamples := fs.Int("shadow-samples", defaults.Tracing.NumShadowSamples, "Shadow rays per light (0 disables shadows)")
	indirect := fs.Bool("indirect", defaults.Tracing.GatherIndirect, "Trace photons and gather indirect light")
	patches := fs.Bool("patches", defaults.Tracing.UsePatches, "Intersect rasterized patches instead of analytic primitives")
	photonMap := fs.String("photon-map", defaults.Debug.PhotonMapImage, "Write a photon map debug PNG to this path")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	fs.BoolVar(&opts.listScenes, "list", false, "List available scenes")
	fs.StringVar(&opts.saveConfig, "save-config", "", "Write the effective config to this path and exit")

	fs.Usage = func() {
		fmt.Fprintln(output, "Photon Raytracer")
		fmt.Fprintln(output, "Usage: photon-raytracer [options]")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Available scenes:")
		for _, info := range scene.ListScenes() {
			fmt.Fprintf(output, "  %-10s %s\n", info.ID, info.Description)
		}
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Output defaults to output/<scene>/render_<timestamp>.png")
	}

	if err := fs.Parse(args); err != nil {
		return nil, opts, err
	}
	if opts.help {
		fs.Usage()
		return nil, opts, flag.ErrHelp
	}

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, opts, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene.Name = *sceneName
		case "width":
			cfg.Render.Width = *width
		case "spp":
			cfg.Render.SamplesPerPixel = *spp
		case "workers":
			cfg.Render.NumWorkers = *workers
		case "seed":
			cfg.Render.Seed = *seed
		case "output":
			cfg.Render.Output = *outputFile
		case "photons":
			cfg.Photons.NumPhotonsToShoot = *photons
		case "collect":
			cfg.Photons.NumPhotonsToCollect = *collect
		case "occlusion":
			cfg.Photons.Occlusion = *occlusion
		case "bounces":
			cfg.Tracing.NumBounces = *bounces
		case "shadow-samples":
			cfg.Tracing.NumShadowSamples = *shadowSamples
		case "indirect":
			cfg.Tracing.GatherIndirect = *indirect
		case "patches":
			cfg.Tracing.UsePatches = *patches
		case "photon-map":
			cfg.Debug.PhotonMapImage = *photonMap
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, opts, err
	}
	return cfg, opts, nil
}

// run traces the photon map, renders the image and writes the outputs
func run(ctx context.Context, cfg *config.Config, outputPath string, logger core.Logger) error {
	img, photonMap, err := render(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if err := imageio.Write(outputPath, img); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", outputPath)

	if cfg.Debug.PhotonMapImage != "" && photonMap != nil {
		axis, err := visualize.ParseAxis(cfg.Debug.PhotonMapAxis)
		if err != nil {
			return err
		}
		opts := visualize.DefaultOptions()
		opts.Axis = axis
		opts.Size = cfg.Debug.PhotonMapSize
		if err := visualize.SavePhotonMap(cfg.Debug.PhotonMapImage, photonMap, opts); err != nil {
			return err
		}
		logger.Printf("Photon map saved as %s\n", cfg.Debug.PhotonMapImage)
	}
	return nil
}

// render builds the scene and produces the linear image. The photon map is
// nil when indirect gathering is disabled.
func render(ctx context.Context, cfg *config.Config, logger core.Logger) (*renderer.Image, *photon.Map, error) {
	sampler := core.NewSeededSampler(cfg.Render.Seed)
	s, err := scene.Create(cfg.Scene.Name, scene.Options{
		Sampler:   sampler,
		Lightning: cfg.LightningConfig(),
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}
	if ambient, ok := cfg.AmbientOverride(); ok {
		s.Ambient = ambient
	}

	rt := renderer.NewRayTracer(s, cfg.TracingConfig())

	var photonMap *photon.Map
	if cfg.Tracing.GatherIndirect {
		tracer := photon.NewTracer(rt, cfg.PhotonConfig(), logger)
		photonMap = tracer.TracePhotons(s.BoundingBox(), s.AreaLights, sampler)
		rt = rt.WithGatherer(photon.NewGatherer(photonMap, rt, cfg.GatherConfig(), logger))
	}

	camera := s.NewCamera(cfg.Render.Width)
	r := renderer.NewRenderer(rt, camera, cfg.RenderOptions(), logger)
	img, stats, err := r.Render(ctx)
	if err != nil {
		return nil, nil, err
	}

	logger.Printf("Average luminance %.4f over %d pixels\n", renderer.CalculateAverageLuminance(img), stats.TotalPixels)
	return img, photonMap, nil
}

// createOutputPath returns output/<scene>/render_<timestamp>.png
func createOutputPath(sceneName string, now time.Time) string {
	if sceneName == "" {
		sceneName = "scene"
	}
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

// logHostInfo logs the CPU and memory available to the renderer
func logHostInfo(logger core.Logger) {
	cpuInfo, err := cpu.Info()
	if err != nil || len(cpuInfo) == 0 {
		logger.Printf("WARNING: CPU information unavailable: %v\n", err)
	} else {
		logger.Printf("CPU: %s, %d logical cores at %.2f GHz\n", cpuInfo[0].ModelName, len(cpuInfo), cpuInfo[0].Mhz/1000)
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Printf("WARNING: memory information unavailable: %v\n", err)
		return
	}
	logger.Printf("Memory: %d MB total, %d MB available\n", memInfo.Total/(1024*1024), memInfo.Available/(1024*1024))
}
