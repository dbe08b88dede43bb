package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/geometry"
	"github.com/df07/go-photon-raytracer/pkg/lights"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// testScene implements Scene with plain slices
type testScene struct {
	quads      []geometry.Shape
	primitives []geometry.Shape
	patches    []geometry.Shape
	areaLights []lights.AreaLight
	lineLights []*lights.LineLight
	background core.Vec3
	ambient    core.Vec3
}

func (s *testScene) GetQuads() []geometry.Shape             { return s.quads }
func (s *testScene) GetPrimitives() []geometry.Shape        { return s.primitives }
func (s *testScene) GetRasterizedPatches() []geometry.Shape { return s.patches }
func (s *testScene) GetAreaLights() []lights.AreaLight      { return s.areaLights }
func (s *testScene) GetLineLights() []*lights.LineLight     { return s.lineLights }
func (s *testScene) GetBackgroundColor() core.Vec3          { return s.background }
func (s *testScene) GetAmbientLight() core.Vec3             { return s.ambient }

// countingShape counts Hit calls on the wrapped shape
type countingShape struct {
	geometry.Shape
	calls int
}

func (c *countingShape) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	c.calls++
	return c.Shape.Hit(ray, tMin, tMax)
}

// constantGatherer returns the same irradiance everywhere
type constantGatherer struct {
	irradiance core.Vec3
}

func (g constantGatherer) GatherIndirect(point, normal, directionFrom core.Vec3) core.Vec3 {
	return g.irradiance
}

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

// litFloor builds a diffuse floor at y=0 under a unit quad light at y=1 facing down
func litFloor(extra ...geometry.Shape) *testScene {
	floor := geometry.NewQuad(core.NewVec3(-5, 0, -5), core.NewVec3(0, 0, 10), core.NewVec3(10, 0, 0),
		material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
	light := lights.NewQuadLight(core.NewVec3(-0.5, 1, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1),
		material.NewEmissive(core.NewVec3(1, 1, 1)))

	quads := []geometry.Shape{floor, light}
	quads = append(quads, extra...)
	return &testScene{quads: quads, areaLights: []lights.AreaLight{light}}
}

func TestRayTracer_CastRayClosestHit(t *testing.T) {
	inner := material.NewDiffuse(core.NewVec3(1, 0, 0))
	outer := material.NewDiffuse(core.NewVec3(0, 1, 0))
	innerSphere := geometry.NewSphere(core.Vec3{}, 1, inner)
	outerSphere := geometry.NewSphere(core.Vec3{}, 2, outer)

	var patches []geometry.Shape
	patches = append(patches, outerSphere.Rasterize(32, 16)...)
	patches = append(patches, innerSphere.Rasterize(32, 16)...)

	scene := &testScene{
		primitives: []geometry.Shape{outerSphere, innerSphere},
		patches:    patches,
	}
	rt := NewRayTracer(scene, DefaultTracingConfig())
	// Slightly off axis so the ray does not pass exactly through a patch vertex
	ray := core.NewRay(core.NewVec3(0.013, 0.017, -5), core.NewVec3(0, 0, 1))

	tests := []struct {
		name       string
		usePatches bool
		tolerance  float64
	}{
		{"primitives", false, 1e-3},
		{"rasterized patches", true, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := rt.CastRay(ray, tt.usePatches)
			if !isHit {
				t.Fatal("Expected a hit")
			}
			// The radius-2 surface is reached first, at t=3 rather than t=4
			if math.Abs(hit.T-3) > tt.tolerance {
				t.Errorf("Expected the nearer surface at t=3, got t=%f", hit.T)
			}
			if hit.Material != outer {
				t.Error("Expected the radius-2 sphere material")
			}
		})
	}
}

func TestRayTracer_CastRayQuadsAlwaysTested(t *testing.T) {
	wallMat := material.NewDiffuse(core.NewVec3(0, 0, 1))
	wall := geometry.NewQuad(core.NewVec3(-1, -1, -4), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), wallMat)
	sphere := geometry.NewSphere(core.Vec3{}, 1, material.NewDiffuse(core.NewVec3(1, 0, 0)))

	scene := &testScene{
		quads:      []geometry.Shape{wall},
		primitives: []geometry.Shape{sphere},
		patches:    sphere.Rasterize(16, 8),
	}
	rt := NewRayTracer(scene, DefaultTracingConfig())
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	for _, usePatches := range []bool{false, true} {
		hit, isHit := rt.CastRay(ray, usePatches)
		if !isHit || hit.Material != wallMat || math.Abs(hit.T-1) > 1e-9 {
			t.Errorf("usePatches=%t: expected the wall at t=1, got %+v", usePatches, hit)
		}
	}

	if _, isHit := rt.CastRay(core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1)), false); isHit {
		t.Error("Expected a miss looking away from the scene")
	}
}

func TestRayTracer_AbsorptiveSurfaceIsBlack(t *testing.T) {
	black := geometry.NewQuad(core.NewVec3(-1, -1, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0),
		material.NewDiffuse(core.Vec3{}))
	light := lights.NewQuadLight(core.NewVec3(-0.5, 2, -1.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1),
		material.NewEmissive(core.NewVec3(5, 5, 5)))
	scene := &testScene{
		quads:      []geometry.Shape{black, light},
		areaLights: []lights.AreaLight{light},
		background: core.NewVec3(1, 1, 1),
	}

	for _, samples := range []int{0, 1, 8} {
		config := DefaultTracingConfig()
		config.NumShadowSamples = samples
		rt := NewRayTracer(scene, config).WithGatherer(constantGatherer{core.NewVec3(3, 3, 3)})

		got := rt.TraceRay(core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1)), 5, core.NewSeededSampler(42))
		if !got.IsZero() {
			t.Errorf("%d shadow samples: expected black, got %v", samples, got)
		}
	}
}

func TestRayTracer_EmissiveHitIsWhite(t *testing.T) {
	scene := litFloor()
	rt := NewRayTracer(scene, DefaultTracingConfig())

	got := rt.TraceRay(core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, 1, 0)), 3, core.NewSeededSampler(1))
	if got != core.White {
		t.Errorf("Expected white when looking at the light, got %v", got)
	}
}

func TestRayTracer_MissReturnsLinearBackground(t *testing.T) {
	scene := &testScene{background: core.NewVec3(0.5, 0.5, 0.5)}
	rt := NewRayTracer(scene, DefaultTracingConfig())

	got := rt.TraceRay(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), 3, core.NewSeededSampler(1))
	expected := core.SRGBToLinear(0.5)
	if math.Abs(got.X-expected) > 1e-12 || got.X != got.Y || got.Y != got.Z {
		t.Errorf("Expected linear background %f, got %v", expected, got)
	}
}

func TestRayTracer_LineLightVisibleAgainstSky(t *testing.T) {
	segment := lights.NewLineLight(core.NewVec3(-1, 0, 5), core.NewVec3(1, 0, 5), 0.05)
	scene := &testScene{background: core.NewVec3(0.2, 0.3, 0.4), lineLights: []*lights.LineLight{segment}}
	config := DefaultTracingConfig()
	rt := NewRayTracer(scene, config)

	got := rt.TraceRay(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), 0, core.NewSeededSampler(1))

	cfg := config.LineLight
	glow := cfg.Color.Multiply(cfg.MaxChannelContribution + cfg.MaxGlowContribution)
	expected := core.NewVec3(0.2, 0.3, 0.4).SRGBToLinear().Add(glow)
	if !vecNear(got, expected, 1e-12) {
		t.Errorf("Expected background plus full glow %v, got %v", expected, got)
	}
}

func TestRayTracer_ChannelGlowPeaksOnTheSegment(t *testing.T) {
	segment := lights.NewLineLight(core.NewVec3(-1, 0, 5), core.NewVec3(1, 0, 5), 0.05)
	rt := NewRayTracer(&testScene{lineLights: []*lights.LineLight{segment}}, DefaultTracingConfig())
	cfg := rt.Config().LineLight

	channel, _ := rt.segmentGlow(segment, core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)))
	if !vecNear(channel, cfg.Color.Multiply(cfg.MaxChannelContribution), 1e-15) {
		t.Errorf("Expected maximal channel glow at distance 0, got %v", channel)
	}

	previous := channel.X
	for offset := 0.02; offset <= 0.2; offset += 0.02 {
		channel, _ := rt.segmentGlow(segment, core.NewRay(core.NewVec3(0, offset, 0), core.NewVec3(0, 0, 1)))
		if channel.X >= previous {
			t.Fatalf("Expected channel glow to decay at offset %f: %f >= %f", offset, channel.X, previous)
		}
		previous = channel.X
	}
}

func TestRayTracer_BounceBudget(t *testing.T) {
	mirror := &countingShape{Shape: geometry.NewQuad(core.NewVec3(-1, -1, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0),
		material.NewPhong(core.Vec3{}, core.NewVec3(1, 1, 1), 10))}
	scene := &testScene{quads: []geometry.Shape{mirror}, background: core.NewVec3(1, 0, 0)}
	rt := NewRayTracer(scene, DefaultTracingConfig())
	ray := core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1))

	tests := []struct {
		name     string
		budget   int
		casts    int
		expected core.Vec3
	}{
		{"zero budget never recurses", 0, 1, core.Vec3{}},
		{"one bounce sees the sky", 1, 2, core.NewVec3(1, 0, 0)},
		{"extra budget is unused", 4, 2, core.NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mirror.calls = 0
			got := rt.TraceRay(ray, tt.budget, core.NewSeededSampler(1))
			if mirror.calls != tt.casts {
				t.Errorf("Expected %d casts, got %d", tt.casts, mirror.calls)
			}
			if !vecNear(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRayTracer_DirectLightShadowSamples(t *testing.T) {
	blocker := geometry.NewQuad(core.NewVec3(-0.2, 0.5, -0.2), core.NewVec3(0.4, 0, 0), core.NewVec3(0, 0, 0.4),
		material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
	// An emitter that is not a registered light still blocks the one behind it
	emitterBlocker := geometry.NewQuad(core.NewVec3(-0.2, 0.5, -0.2), core.NewVec3(0.4, 0, 0), core.NewVec3(0, 0, 0.4),
		material.NewEmissive(core.NewVec3(1, 1, 1)))
	ray := core.NewRay(core.NewVec3(0, 0.2, 0), core.NewVec3(0, -1, 0))
	unshadowed := 0.5 / math.Pi

	tests := []struct {
		name     string
		scene    *testScene
		samples  int
		min, max float64
	}{
		{"no shadow test", litFloor(), 0, unshadowed, unshadowed},
		{"no shadow test ignores blocker", litFloor(blocker), 0, unshadowed, unshadowed},
		{"hard shadow lit", litFloor(), 1, unshadowed, unshadowed},
		{"hard shadow blocked", litFloor(blocker), 1, 0, 0},
		{"hard shadow blocked by another emitter", litFloor(emitterBlocker), 1, 0, 0},
		{"soft shadow lit", litFloor(), 16, 0.27 / math.Pi, unshadowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultTracingConfig()
			config.NumShadowSamples = tt.samples
			rt := NewRayTracer(tt.scene, config)

			got := rt.TraceRay(ray, 0, core.NewSeededSampler(7))
			if got.X < tt.min-1e-9 || got.X > tt.max+1e-9 {
				t.Errorf("Expected direct light in [%f, %f], got %f", tt.min, tt.max, got.X)
			}
		})
	}
}

func TestRayTracer_SoftShadowPartialOcclusion(t *testing.T) {
	// Blocker covers half of the light as seen from the origin
	blocker := geometry.NewQuad(core.NewVec3(0, 0.5, -1), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 2),
		material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
	config := DefaultTracingConfig()
	config.NumShadowSamples = 256
	ray := core.NewRay(core.NewVec3(0, 0.2, 0), core.NewVec3(0, -1, 0))

	lit := NewRayTracer(litFloor(), config).TraceRay(ray, 0, core.NewSeededSampler(3))
	half := NewRayTracer(litFloor(blocker), config).TraceRay(ray, 0, core.NewSeededSampler(3))

	ratio := half.X / lit.X
	if ratio < 0.35 || ratio > 0.65 {
		t.Errorf("Expected about half the light through a half blocker, got ratio %f", ratio)
	}
}

func TestRayTracer_IndirectTerm(t *testing.T) {
	tests := []struct {
		name     string
		gather   bool
		expected float64
	}{
		{"gathered plus ambient", true, 0.5 * (0.2 + 0.1)},
		{"ambient only", false, 0.5 * 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := litFloor()
			scene.areaLights = nil
			scene.ambient = core.NewVec3(0.1, 0.1, 0.1)

			config := DefaultTracingConfig()
			config.GatherIndirect = tt.gather
			rt := NewRayTracer(scene, config).WithGatherer(constantGatherer{core.NewVec3(0.2, 0.2, 0.2)})

			got := rt.TraceRay(core.NewRay(core.NewVec3(2, 0.2, 2), core.NewVec3(0, -1, 0)), 0, core.NewSeededSampler(1))
			if math.Abs(got.X-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, got.X)
			}
		})
	}
}

func TestRayTracer_LineLightShadowDistance(t *testing.T) {
	segment := lights.NewLineLight(core.NewVec3(-0.1, 1, 0), core.NewVec3(0.1, 1, 0), 0.01)
	occluder := func(y float64) geometry.Shape {
		return geometry.NewQuad(core.NewVec3(-1, y, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2),
			material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
	}

	config := DefaultTracingConfig()
	config.NumShadowSamples = 1
	config.LineLight.Color = core.NewVec3(1, 1, 1)
	config.LineLight.Intensity = 1
	unshadowed := 0.5 * 0.2 / math.Pi

	tests := []struct {
		name     string
		extra    []geometry.Shape
		expected float64
	}{
		{"nothing in the way", nil, unshadowed},
		{"geometry beyond the light", []geometry.Shape{occluder(2)}, unshadowed},
		{"geometry in front of the light", []geometry.Shape{occluder(0.5)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := &testScene{quads: append([]geometry.Shape{litFloor().quads[0]}, tt.extra...)}
			scene.lineLights = []*lights.LineLight{segment}
			rt := NewRayTracer(scene, config)

			ray := core.NewRay(core.NewVec3(0, 0.2, 0), core.NewVec3(0, -1, 0))
			hit, isHit := rt.CastRay(ray, false)
			if !isHit {
				t.Fatal("Expected to hit the floor")
			}
			got := rt.directLineLights(ray, hit, core.NewSeededSampler(1))
			if math.Abs(got.X-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, got.X)
			}
		})
	}
}
