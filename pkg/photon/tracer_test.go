package photon

import (
	"fmt"
	"math"
	"testing"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/lights"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// mockCaster answers CastRay with a test-provided function
type mockCaster struct {
	fn    func(ray core.Ray) (*material.SurfaceInteraction, bool)
	calls int
}

func (m *mockCaster) CastRay(ray core.Ray, useRasterizedPatches bool) (*material.SurfaceInteraction, bool) {
	m.calls++
	if m.fn == nil {
		return nil, false
	}
	return m.fn(ray)
}

// alwaysHit returns a caster that hits mat one unit along every ray, facing the ray
func alwaysHit(mat material.Material) *mockCaster {
	return &mockCaster{fn: func(ray core.Ray) (*material.SurfaceInteraction, bool) {
		dir := ray.Direction.Normalize()
		return &material.SurfaceInteraction{
			T:         1,
			Point:     ray.Origin.Add(dir),
			Normal:    dir.Negate(),
			FrontFace: true,
			Material:  mat,
		}, true
	}}
}

// testLogger records formatted log lines
type testLogger struct {
	lines []string
}

func (tl *testLogger) Printf(format string, args ...interface{}) {
	tl.lines = append(tl.lines, fmt.Sprintf(format, args...))
}

var testBounds = core.NewAABB(core.NewVec3(-10, -10, -10), core.NewVec3(10, 10, 10))

func unitLight(emission core.Vec3) *lights.QuadLight {
	return lights.NewQuadLight(core.NewVec3(-0.5, -0.5, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		material.NewEmissive(emission))
}

func bounceEnergy(m *Map) map[int]core.Vec3 {
	energy := make(map[int]core.Vec3)
	m.Photons(func(p Photon) {
		energy[p.Bounce] = energy[p.Bounce].Add(p.Energy)
	})
	return energy
}

func TestTracer_RussianRouletteConservesEnergy(t *testing.T) {
	const numPhotons = 20000
	albedo := 0.5
	caster := alwaysHit(material.NewDiffuse(core.NewVec3(albedo, albedo, albedo)))
	tracer := NewTracer(caster, Config{PhotonsToShoot: numPhotons, MaxBounces: 1, Allocation: AllocateTruncate}, nil)

	photonMap := tracer.TracePhotons(testBounds, []lights.AreaLight{unitLight(core.NewVec3(1, 1, 1))}, core.NewSeededSampler(42))

	bounce0, bounce1 := 0, 0
	photonMap.Photons(func(p Photon) {
		switch p.Bounce {
		case 0:
			bounce0++
			if math.Abs(p.Energy.X-1.0/numPhotons) > 1e-15 {
				t.Fatalf("Expected bounce-0 energy %g, got %g", 1.0/numPhotons, p.Energy.X)
			}
		case 1:
			bounce1++
		default:
			t.Fatalf("Unexpected bounce %d with MaxBounces 1", p.Bounce)
		}
	})
	if bounce0 != numPhotons {
		t.Errorf("Expected %d first-hit photons, got %d", numPhotons, bounce0)
	}

	energy := bounceEnergy(photonMap)
	if math.Abs(energy[0].X-1) > 1e-9 {
		t.Errorf("Expected emitted energy 1, got %f", energy[0].X)
	}
	// Expected surviving energy equals emitted energy times albedo
	if math.Abs(energy[1].X-albedo) > 0.02 {
		t.Errorf("Expected bounce-1 energy near %f, got %f", albedo, energy[1].X)
	}

	stats := photonMap.Stats()
	if stats.PhotonsEmitted != numPhotons || stats.PhotonsStored != bounce0+bounce1 || stats.PhotonsDropped != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestTracer_BounceLimitAndAbsorption(t *testing.T) {
	tests := []struct {
		name        string
		mat         material.Material
		maxBounces  int
		maxBounce   int
		expectCount int
	}{
		{"black absorbs at first hit", material.NewDiffuse(core.Vec3{}), 5, 0, 100},
		{"nil material stops", nil, 5, 0, 100},
		{"perfect mirror runs to the limit", material.NewPhong(core.Vec3{}, core.NewVec3(1, 1, 1), 10), 3, 3, 400},
		{"zero bounce budget", material.NewPhong(core.Vec3{}, core.NewVec3(1, 1, 1), 10), 0, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caster := alwaysHit(tt.mat)
			tracer := NewTracer(caster, Config{PhotonsToShoot: 100, MaxBounces: tt.maxBounces}, nil)
			photonMap := tracer.TracePhotons(testBounds, []lights.AreaLight{unitLight(core.NewVec3(1, 1, 1))}, core.NewSeededSampler(1))

			count, highest := 0, 0
			photonMap.Photons(func(p Photon) {
				count++
				if p.Bounce > highest {
					highest = p.Bounce
				}
			})
			if count != tt.expectCount {
				t.Errorf("Expected %d stored photons, got %d", tt.expectCount, count)
			}
			if highest != tt.maxBounce {
				t.Errorf("Expected highest bounce %d, got %d", tt.maxBounce, highest)
			}
		})
	}
}

func TestTracer_MirrorKeepsEnergyAndReflects(t *testing.T) {
	mirror := material.NewPhong(core.Vec3{}, core.NewVec3(1, 1, 1), 10)
	caster := alwaysHit(mirror)
	tracer := NewTracer(caster, Config{PhotonsToShoot: 10, MaxBounces: 1}, nil)
	photonMap := tracer.TracePhotons(testBounds, []lights.AreaLight{unitLight(core.NewVec3(2, 2, 2))}, core.NewSeededSampler(5))

	photonMap.Photons(func(p Photon) {
		if math.Abs(p.Energy.X-0.2) > 1e-12 {
			t.Errorf("Expected mirror bounce to keep energy 0.2, got %f", p.Energy.X)
		}
		// Normal faces the incoming ray, so a mirror sends the photon straight back
		if p.Bounce == 1 && p.DirectionFrom.Z > 0 {
			t.Errorf("Expected reflected photon to travel back toward the light, got %v", p.DirectionFrom)
		}
	})
}

func TestTracer_MissStoresNothing(t *testing.T) {
	caster := &mockCaster{}
	tracer := NewTracer(caster, Config{PhotonsToShoot: 50, MaxBounces: 3}, nil)
	photonMap := tracer.TracePhotons(testBounds, []lights.AreaLight{unitLight(core.NewVec3(1, 1, 1))}, core.NewSeededSampler(1))

	if photonMap.Tree().Count() != 0 {
		t.Errorf("Expected empty map, got %d photons", photonMap.Tree().Count())
	}
	if caster.calls != 50 {
		t.Errorf("Expected one cast per photon, got %d", caster.calls)
	}
}

func TestTracer_ZeroLightArea(t *testing.T) {
	caster := alwaysHit(material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
	logger := &testLogger{}
	tracer := NewTracer(caster, Config{PhotonsToShoot: 1000, MaxBounces: 3}, logger)

	degenerate := lights.NewQuadLight(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0),
		material.NewEmissive(core.NewVec3(1, 1, 1)))

	tests := []struct {
		name   string
		lights []lights.AreaLight
	}{
		{"no lights", nil},
		{"zero-area light", []lights.AreaLight{degenerate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caster.calls = 0
			photonMap := tracer.TracePhotons(testBounds, tt.lights, core.NewSeededSampler(1))
			if photonMap == nil || photonMap.Tree() == nil {
				t.Fatal("Expected an empty map, not nil")
			}
			if photonMap.Tree().Count() != 0 || caster.calls != 0 {
				t.Errorf("Expected no photons and no casts, got %d photons and %d casts",
					photonMap.Tree().Count(), caster.calls)
			}
		})
	}
	if len(logger.lines) != 2 {
		t.Errorf("Expected one log line per empty pass, got %v", logger.lines)
	}
}

func TestTracer_OutOfBoundsPhotonsAreCounted(t *testing.T) {
	caster := &mockCaster{fn: func(ray core.Ray) (*material.SurfaceInteraction, bool) {
		return &material.SurfaceInteraction{T: 100, Point: core.NewVec3(100, 0, 0), Normal: core.NewVec3(-1, 0, 0)}, true
	}}
	tracer := NewTracer(caster, Config{PhotonsToShoot: 20, MaxBounces: 1}, nil)
	photonMap := tracer.TracePhotons(testBounds, []lights.AreaLight{unitLight(core.NewVec3(1, 1, 1))}, core.NewSeededSampler(1))

	stats := photonMap.Stats()
	if stats.PhotonsDropped != 20 || stats.PhotonsStored != 0 {
		t.Errorf("Expected 20 dropped photons, got %+v", stats)
	}
}

func TestAllocatePhotons(t *testing.T) {
	mat := material.NewEmissive(core.NewVec3(1, 1, 1))
	quad := func(w float64) lights.AreaLight {
		return lights.NewQuadLight(core.Vec3{}, core.NewVec3(w, 0, 0), core.NewVec3(0, 1, 0), mat)
	}
	three := []lights.AreaLight{quad(1), quad(1), quad(1)}

	tests := []struct {
		name     string
		lights   []lights.AreaLight
		budget   int
		mode     AllocationMode
		expected []int
	}{
		{"proportional to area", []lights.AreaLight{quad(1), quad(3)}, 100, AllocateTruncate, []int{25, 75}},
		{"truncation loses photons", three, 100, AllocateTruncate, []int{33, 33, 33}},
		{"largest remainder restores budget", three, 100, AllocateLargestRemainder, []int{34, 33, 33}},
		{"small light gets nothing", []lights.AreaLight{quad(0.001), quad(10)}, 100, AllocateTruncate, []int{0, 99}},
		{"zero budget", three, 0, AllocateTruncate, []int{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllocatePhotons(tt.lights, tt.budget, tt.mode)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("Expected %v, got %v", tt.expected, got)
				}
			}
		})
	}
}
