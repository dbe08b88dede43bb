package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/lightning"
	"github.com/df07/go-photon-raytracer/pkg/photon"
	"github.com/df07/go-photon-raytracer/pkg/renderer"
)

// MaxBounceLimit caps every bounce setting; recursion depth follows it
const MaxBounceLimit = 64

// Config represents the main configuration
type Config struct {
	Scene     SceneConfig     `yaml:"scene"`
	Render    RenderConfig    `yaml:"render"`
	Photons   PhotonsConfig   `yaml:"photons"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Lightning LightningConfig `yaml:"lightning"`
	Debug     DebugConfig     `yaml:"debug"`
}

// SceneConfig selects the scene and its lighting overrides
type SceneConfig struct {
	Name         string    `yaml:"name"`
	AmbientLight []float64 `yaml:"ambient_light,omitempty"` // Linear RGB, overrides the scene ambient when set
}

// RenderConfig contains image and parallelism settings
type RenderConfig struct {
	Width           int    `yaml:"width"` // 0 keeps the scene camera width
	SamplesPerPixel int    `yaml:"samples_per_pixel"`
	NumWorkers      int    `yaml:"num_workers"` // 0 means one per CPU
	TileRows        int    `yaml:"tile_rows"`
	Seed            int64  `yaml:"seed"`
	Output          string `yaml:"output"` // .png or .ppm; empty picks output/<scene>/render_<timestamp>.png
}

// PhotonsConfig contains photon tracing and gathering settings
type PhotonsConfig struct {
	NumPhotonsToShoot   int     `yaml:"num_photons_to_shoot"`
	NumPhotonsToCollect int     `yaml:"num_photons_to_collect"`
	NumBounces          int     `yaml:"num_bounces"`
	Allocation          string  `yaml:"allocation"` // truncate, largest-remainder
	GatherEpsilon       float64 `yaml:"gather_epsilon"`
	Occlusion           string  `yaml:"occlusion"` // view, photon, segment, none
	ClampCosine         bool    `yaml:"clamp_cosine"`
}

// TracingConfig contains eye ray settings
type TracingConfig struct {
	NumBounces       int  `yaml:"num_bounces"`
	NumShadowSamples int  `yaml:"num_shadow_samples"`
	GatherIndirect   bool `yaml:"gather_indirect"`
	UsePatches       bool `yaml:"use_patches"`
}

// LightningConfig contains bolt generation and line light shading settings
type LightningConfig struct {
	StartRadius            float64 `yaml:"start_radius"`
	MeanSegmentLength      float64 `yaml:"mean_segment_length"`
	MaxSegmentAngle        float64 `yaml:"max_segment_angle"`
	BranchProbability      float64 `yaml:"branch_probability"`
	MeanBranchLength       float64 `yaml:"mean_branch_length"`
	MaxBranchAngle         float64 `yaml:"max_branch_angle"`
	MaxSegments            int     `yaml:"max_segments"`
	Intensity              float64 `yaml:"intensity"`
	Sharpness              float64 `yaml:"sharpness"`
	GlowWidthScale         float64 `yaml:"glow_width_scale"`
	MaxChannelContribution float64 `yaml:"max_channel_contribution"`
	MaxGlowContribution    float64 `yaml:"max_glow_contribution"`
}

// DebugConfig contains diagnostic outputs
type DebugConfig struct {
	PhotonMapImage string `yaml:"photon_map_image"` // PNG path, empty disables
	PhotonMapAxis  string `yaml:"photon_map_axis"`  // x, y or z: the axis projected away
	PhotonMapSize  int    `yaml:"photon_map_size"`
	LogHost        bool   `yaml:"log_host"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	p := photon.DefaultConfig()
	g := photon.DefaultGatherConfig()
	t := renderer.DefaultTracingConfig()
	r := renderer.DefaultRenderOptions()
	l := lightning.DefaultConfig()
	ll := renderer.DefaultLineLightConfig()

	return &Config{
		Scene: SceneConfig{
			Name: "cornell",
		},
		Render: RenderConfig{
			Width:           0,
			SamplesPerPixel: r.SamplesPerPixel,
			NumWorkers:      r.NumWorkers,
			TileRows:        r.TileRows,
			Seed:            r.Seed,
			Output:          "",
		},
		Photons: PhotonsConfig{
			NumPhotonsToShoot:   p.PhotonsToShoot,
			NumPhotonsToCollect: g.PhotonsToCollect,
			NumBounces:          p.MaxBounces,
			Allocation:          string(p.Allocation),
			GatherEpsilon:       g.Epsilon,
			Occlusion:           string(g.Occlusion),
			ClampCosine:         g.ClampCosine,
		},
		Tracing: TracingConfig{
			NumBounces:       t.NumBounces,
			NumShadowSamples: t.NumShadowSamples,
			GatherIndirect:   t.GatherIndirect,
			UsePatches:       t.UsePatches,
		},
		Lightning: LightningConfig{
			StartRadius:            l.StartRadius,
			MeanSegmentLength:      l.MeanSegmentLength,
			MaxSegmentAngle:        l.MaxSegmentAngle,
			BranchProbability:      l.BranchProbability,
			MeanBranchLength:       l.MeanBranchLength,
			MaxBranchAngle:         l.MaxBranchAngle,
			MaxSegments:            l.MaxSegments,
			Intensity:              ll.Intensity,
			Sharpness:              ll.Sharpness,
			GlowWidthScale:         ll.GlowWidthScale,
			MaxChannelContribution: ll.MaxChannelContribution,
			MaxGlowContribution:    ll.MaxGlowContribution,
		},
		Debug: DebugConfig{
			PhotonMapAxis: "z",
			PhotonMapSize: 512,
			LogHost:       true,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config %s: %w", filePath, err)
	}

	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config %s: %w", filePath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filePath, err)
	}

	return config, nil
}

// Save writes the configuration as YAML
func Save(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate rejects settings the renderer cannot honor
func (c *Config) Validate() error {
	switch {
	case c.Photons.NumPhotonsToShoot < 0:
		return fmt.Errorf("num_photons_to_shoot must not be negative, got %d", c.Photons.NumPhotonsToShoot)
	case c.Photons.NumPhotonsToCollect < 1:
		return fmt.Errorf("num_photons_to_collect must be at least 1, got %d", c.Photons.NumPhotonsToCollect)
	case c.Photons.NumBounces < 0 || c.Photons.NumBounces > MaxBounceLimit:
		return fmt.Errorf("photons.num_bounces must be in [0, %d], got %d", MaxBounceLimit, c.Photons.NumBounces)
	case c.Tracing.NumBounces < 0 || c.Tracing.NumBounces > MaxBounceLimit:
		return fmt.Errorf("tracing.num_bounces must be in [0, %d], got %d", MaxBounceLimit, c.Tracing.NumBounces)
	case c.Tracing.NumShadowSamples < 0:
		return fmt.Errorf("num_shadow_samples must not be negative, got %d", c.Tracing.NumShadowSamples)
	case c.Render.Width < 0:
		return fmt.Errorf("render.width must not be negative, got %d", c.Render.Width)
	case c.Render.SamplesPerPixel < 1:
		return fmt.Errorf("samples_per_pixel must be at least 1, got %d", c.Render.SamplesPerPixel)
	case c.Lightning.MaxSegments < 0:
		return fmt.Errorf("lightning.max_segments must not be negative, got %d", c.Lightning.MaxSegments)
	case c.Scene.AmbientLight != nil && len(c.Scene.AmbientLight) != 3:
		return fmt.Errorf("ambient_light needs 3 components, got %d", len(c.Scene.AmbientLight))
	}

	switch photon.AllocationMode(c.Photons.Allocation) {
	case photon.AllocateTruncate, photon.AllocateLargestRemainder:
	default:
		return fmt.Errorf("unknown photon allocation %q", c.Photons.Allocation)
	}

	switch photon.OcclusionMode(c.Photons.Occlusion) {
	case photon.OcclusionView, photon.OcclusionPhoton, photon.OcclusionSegment, photon.OcclusionNone:
	default:
		return fmt.Errorf("unknown occlusion mode %q", c.Photons.Occlusion)
	}

	switch c.Debug.PhotonMapAxis {
	case "x", "y", "z":
	default:
		return fmt.Errorf("photon_map_axis must be x, y or z, got %q", c.Debug.PhotonMapAxis)
	}

	return nil
}

// PhotonConfig returns the photon tracing settings
func (c *Config) PhotonConfig() photon.Config {
	return photon.Config{
		PhotonsToShoot: c.Photons.NumPhotonsToShoot,
		MaxBounces:     c.Photons.NumBounces,
		Allocation:     photon.AllocationMode(c.Photons.Allocation),
	}
}

// GatherConfig returns the radiance estimation settings
func (c *Config) GatherConfig() photon.GatherConfig {
	return photon.GatherConfig{
		PhotonsToCollect: c.Photons.NumPhotonsToCollect,
		Epsilon:          c.Photons.GatherEpsilon,
		Occlusion:        photon.OcclusionMode(c.Photons.Occlusion),
		ClampCosine:      c.Photons.ClampCosine,
	}
}

// TracingConfig returns the eye ray settings
func (c *Config) TracingConfig() renderer.TracingConfig {
	line := renderer.DefaultLineLightConfig()
	line.Intensity = c.Lightning.Intensity
	line.Sharpness = c.Lightning.Sharpness
	line.GlowWidthScale = c.Lightning.GlowWidthScale
	line.MaxChannelContribution = c.Lightning.MaxChannelContribution
	line.MaxGlowContribution = c.Lightning.MaxGlowContribution

	return renderer.TracingConfig{
		NumBounces:       c.Tracing.NumBounces,
		NumShadowSamples: c.Tracing.NumShadowSamples,
		GatherIndirect:   c.Tracing.GatherIndirect,
		UsePatches:       c.Tracing.UsePatches,
		LineLight:        line,
	}
}

// RenderOptions returns the image rendering settings
func (c *Config) RenderOptions() renderer.RenderOptions {
	return renderer.RenderOptions{
		SamplesPerPixel: c.Render.SamplesPerPixel,
		NumWorkers:      c.Render.NumWorkers,
		TileRows:        c.Render.TileRows,
		Seed:            c.Render.Seed,
	}
}

// LightningConfig returns the bolt generation settings
func (c *Config) LightningConfig() lightning.Config {
	return lightning.Config{
		StartRadius:       c.Lightning.StartRadius,
		MeanSegmentLength: c.Lightning.MeanSegmentLength,
		MaxSegmentAngle:   c.Lightning.MaxSegmentAngle,
		BranchProbability: c.Lightning.BranchProbability,
		MeanBranchLength:  c.Lightning.MeanBranchLength,
		MaxBranchAngle:    c.Lightning.MaxBranchAngle,
		MaxSegments:       c.Lightning.MaxSegments,
	}
}

// AmbientOverride returns the configured ambient light, if any
func (c *Config) AmbientOverride() (core.Vec3, bool) {
	if len(c.Scene.AmbientLight) != 3 {
		return core.Vec3{}, false
	}
	a := c.Scene.AmbientLight
	return core.NewVec3(a[0], a[1], a[2]), true
}
