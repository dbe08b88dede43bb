package renderer

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
	"github.com/df07/go-photon-raytracer/pkg/lights"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// Scene interface to avoid circular imports
type Scene interface {
	GetQuads() []geometry.Shape
	GetPrimitives() []geometry.Shape
	GetRasterizedPatches() []geometry.Shape
	GetAreaLights() []lights.AreaLight
	GetLineLights() []*lights.LineLight
	GetBackgroundColor() core.Vec3 // sRGB
	GetAmbientLight() core.Vec3
}

// IndirectGatherer estimates indirect irradiance at a surface point
type IndirectGatherer interface {
	GatherIndirect(point, normal, directionFrom core.Vec3) core.Vec3
}

// LineLightConfig controls how lightning segments look and light the scene
type LineLightConfig struct {
	Color                  core.Vec3 // Linear color of every segment
	Intensity              float64   // Point-light power per unit segment length
	Sharpness              float64   // Channel falloff exponent
	GlowWidthScale         float64   // Glow width as a multiple of the segment radius
	MaxChannelContribution float64
	MaxGlowContribution    float64
}

// TracingConfig contains ray tracing configuration
type TracingConfig struct {
	NumBounces       int  // Mirror reflection budget per primary ray
	NumShadowSamples int  // 0 = unshadowed, 1 = hard shadows, >1 = soft shadows
	GatherIndirect   bool // Use the photon map for indirect light
	UsePatches       bool // Trace against rasterized patches instead of primitives
	LineLight        LineLightConfig
}

// DefaultTracingConfig returns sensible default values
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		NumBounces:       5,
		NumShadowSamples: 1,
		GatherIndirect:   true,
		LineLight:        DefaultLineLightConfig(),
	}
}

// DefaultLineLightConfig returns the default lightning appearance
func DefaultLineLightConfig() LineLightConfig {
	return LineLightConfig{
		Color:                  core.NewVec3(0.8, 0.85, 1.0),
		Intensity:              2.0,
		Sharpness:              4.0,
		GlowWidthScale:         8.0,
		MaxChannelContribution: 1.0,
		MaxGlowContribution:    0.15,
	}
}

// RayTracer shades rays against a scene and an optional photon map snapshot.
// It holds no mutable state and is safe for concurrent use.
type RayTracer struct {
	quads      []geometry.Shape
	primitives []geometry.Shape
	patches    []geometry.Shape
	areaLights []lights.AreaLight
	lineLights []*lights.LineLight
	background core.Vec3 // linear
	ambient    core.Vec3
	config     TracingConfig
	gatherer   IndirectGatherer
}

// NewRayTracer creates a ray tracer for scene
func NewRayTracer(scene Scene, config TracingConfig) *RayTracer {
	if config.NumBounces < 0 {
		config.NumBounces = 0
	}
	if config.NumShadowSamples < 0 {
		config.NumShadowSamples = 0
	}

	return &RayTracer{
		quads:      scene.GetQuads(),
		primitives: scene.GetPrimitives(),
		patches:    scene.GetRasterizedPatches(),
		areaLights: scene.GetAreaLights(),
		lineLights: scene.GetLineLights(),
		background: scene.GetBackgroundColor().SRGBToLinear(),
		ambient:    scene.GetAmbientLight(),
		config:     config,
	}
}

// WithGatherer returns a copy of the tracer that estimates indirect light with g
func (rt *RayTracer) WithGatherer(g IndirectGatherer) *RayTracer {
	copied := *rt
	copied.gatherer = g
	return &copied
}

// Config returns the tracing configuration
func (rt *RayTracer) Config() TracingConfig {
	return rt.config
}

// CastRay finds the closest hit along ray. Quads are always tested, followed by
// either the rasterized patches or the analytic primitives.
func (rt *RayTracer) CastRay(ray core.Ray, useRasterizedPatches bool) (*material.SurfaceInteraction, bool) {
	var closestHit *material.SurfaceInteraction
	closestSoFar := math.Inf(1)

	scan := func(shapes []geometry.Shape) {
		for _, shape := range shapes {
			if hit, isHit := shape.Hit(ray, core.Epsilon, closestSoFar); isHit {
				closestSoFar = hit.T
				closestHit = hit
			}
		}
	}

	scan(rt.quads)
	if useRasterizedPatches {
		scan(rt.patches)
	} else {
		scan(rt.primitives)
	}

	return closestHit, closestHit != nil
}

// TraceRay returns the linear radiance arriving along ray, following mirror
// reflections for at most bounceBudget bounces
func (rt *RayTracer) TraceRay(ray core.Ray, bounceBudget int, sampler core.Sampler) core.Vec3 {
	hit, isHit := rt.CastRay(ray, rt.config.UsePatches)

	// Lightning glows in front of everything, sky included
	answer := rt.lineLightGlow(ray)

	if !isHit {
		return answer.Add(rt.background)
	}

	m := hit.Material
	if m == nil {
		return answer
	}
	if material.IsEmissive(m) {
		return core.White
	}

	answer = answer.Add(rt.indirect(ray, hit))
	answer = answer.Add(rt.directAreaLights(ray, hit, sampler))
	answer = answer.Add(rt.directLineLights(ray, hit, sampler))

	reflective := m.ReflectiveColor()
	if reflective.Length() > core.Epsilon && bounceBudget > 0 {
		dir := core.MirrorDirection(hit.Normal, ray.Direction)
		reflected := rt.TraceRay(core.NewRay(hit.Point, dir), bounceBudget-1, sampler)
		answer = answer.Add(reflected.MultiplyVec(reflective))
	}

	return answer
}

// indirect returns diffuse albedo times gathered plus ambient light
func (rt *RayTracer) indirect(ray core.Ray, hit *material.SurfaceInteraction) core.Vec3 {
	diffuse := hit.Material.DiffuseColor(hit.UV, hit.Point)
	incoming := rt.ambient
	if rt.config.GatherIndirect && rt.gatherer != nil {
		incoming = incoming.Add(rt.gatherer.GatherIndirect(hit.Point, hit.Normal, ray.Direction))
	}
	return diffuse.MultiplyVec(incoming)
}

// directAreaLights shades hit with every area light, testing shadows as configured
func (rt *RayTracer) directAreaLights(ray core.Ray, hit *material.SurfaceInteraction, sampler core.Sampler) core.Vec3 {
	var answer core.Vec3
	numSamples := rt.config.NumShadowSamples

	for _, light := range rt.areaLights {
		power := light.Power()

		if numSamples <= 1 {
			sample, ok := lights.SampleToward(light, hit.Point, sampler, false)
			if !ok {
				continue
			}
			if numSamples == 1 && !rt.seesLight(hit.Point, sample) {
				continue
			}
			answer = answer.Add(hit.Material.Shade(ray, *hit, sample.Direction, pointLightColor(power, sample.Distance)))
			continue
		}

		var shaded core.Vec3
		for j := 0; j < numSamples; j++ {
			sample, ok := lights.SampleToward(light, hit.Point, sampler, true)
			if !ok || !rt.seesLight(hit.Point, sample) {
				continue
			}
			shaded = shaded.Add(hit.Material.Shade(ray, *hit, sample.Direction, pointLightColor(power, sample.Distance)))
		}
		answer = answer.Add(shaded.Multiply(1.0 / float64(numSamples)))
	}

	return answer
}

// seesLight reports whether the first surface toward sample is the emitter at
// the sampled point. Another emitter in front of it still casts a shadow.
func (rt *RayTracer) seesLight(point core.Vec3, sample lights.LightSample) bool {
	shadowHit, isHit := rt.CastRay(core.NewRay(point, sample.Direction), rt.config.UsePatches)
	return isHit && material.IsEmissive(shadowHit.Material) && shadowHit.T >= sample.Distance-core.Epsilon
}

// directLineLights shades hit with each lightning segment treated as a point light
func (rt *RayTracer) directLineLights(ray core.Ray, hit *material.SurfaceInteraction, sampler core.Sampler) core.Vec3 {
	var answer core.Vec3
	cfg := rt.config.LineLight
	numSamples := rt.config.NumShadowSamples

	for _, segment := range rt.lineLights {
		power := cfg.Color.Multiply(segment.Power(cfg.Intensity))

		if numSamples <= 1 {
			contribution, ok := rt.shadeLinePoint(ray, hit, segment.Midpoint(), power, numSamples == 1)
			if ok {
				answer = answer.Add(contribution)
			}
			continue
		}

		var shaded core.Vec3
		for j := 0; j < numSamples; j++ {
			lightPoint := segment.PointAt(sampler.Get1D())
			if contribution, ok := rt.shadeLinePoint(ray, hit, lightPoint, power, true); ok {
				shaded = shaded.Add(contribution)
			}
		}
		answer = answer.Add(shaded.Multiply(1.0 / float64(numSamples)))
	}

	return answer
}

// shadeLinePoint shades hit with a point light at lightPoint. Only geometry
// strictly nearer than the light point casts a shadow.
func (rt *RayTracer) shadeLinePoint(ray core.Ray, hit *material.SurfaceInteraction, lightPoint, power core.Vec3, shadows bool) (core.Vec3, bool) {
	toLight := lightPoint.Subtract(hit.Point)
	distance := toLight.Length()
	if distance <= 0 {
		return core.Vec3{}, false
	}
	dir := toLight.Multiply(1.0 / distance)

	if shadows {
		if shadowHit, isHit := rt.CastRay(core.NewRay(hit.Point, dir), rt.config.UsePatches); isHit && shadowHit.T < distance {
			return core.Vec3{}, false
		}
	}

	return hit.Material.Shade(ray, *hit, dir, pointLightColor(power, distance)), true
}

// lineLightGlow sums the channel and halo glow of every segment seen along ray
func (rt *RayTracer) lineLightGlow(ray core.Ray) core.Vec3 {
	var answer core.Vec3
	for _, segment := range rt.lineLights {
		channel, glow := rt.segmentGlow(segment, ray)
		answer = answer.Add(channel).Add(glow)
	}
	return answer
}

// segmentGlow returns the channel and halo contributions of one segment
func (rt *RayTracer) segmentGlow(segment *lights.LineLight, ray core.Ray) (core.Vec3, core.Vec3) {
	cfg := rt.config.LineLight
	dist, _ := segment.ClosestApproach(ray)

	channel := cfg.Color.Multiply(cfg.MaxChannelContribution * segment.ChannelFalloff(dist, cfg.Sharpness))
	glow := cfg.Color.Multiply(cfg.MaxGlowContribution * segment.GlowFalloff(dist, cfg.GlowWidthScale*segment.Radius))
	return channel, glow
}

// pointLightColor spreads power over the disk π·d² around the light
func pointLightColor(power core.Vec3, distance float64) core.Vec3 {
	return power.Multiply(1.0 / (math.Pi * distance * distance))
}
