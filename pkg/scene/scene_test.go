package scene

import (
	"testing"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

func TestPreprocess(t *testing.T) {
	s := &Scene{Name: "test", Raster: RasterConfig{Horizontal: 8, Vertical: 4}}
	mat := material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))
	s.Quads = append(s.Quads, NewGroundQuad(core.Vec3{}, 4, mat))
	s.AddSphere(core.NewVec3(0, 1, 0), 1, mat)
	s.AddQuadLight(core.NewVec3(-0.5, 3, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1))

	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	bounds := s.BoundingBox()
	expected := core.NewAABB(core.NewVec3(-2, 0, -2), core.NewVec3(2, 3, 2))
	if bounds.Min.Distance(expected.Min) > 1e-12 || bounds.Max.Distance(expected.Max) > 1e-12 {
		t.Errorf("Expected bounds %v, got %v", expected, bounds)
	}

	// 2·h·(v-1) triangles per sphere
	if got := len(s.Patches()); got != 48 {
		t.Errorf("Expected 48 patches, got %d", got)
	}
	if got := s.PatchIndex().Stats().Shapes; got != 48 {
		t.Errorf("Expected 48 patches in the BVH, got %d", got)
	}
	if got := len(s.GetRasterizedPatches()); got != 1 {
		t.Errorf("Expected patches behind a single BVH, got %d shapes", got)
	}

	// Rerunning does not duplicate patches
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if got := len(s.Patches()); got != 48 {
		t.Errorf("Expected 48 patches after a second pass, got %d", got)
	}

	if len(s.GetQuads()) != 2 || len(s.GetPrimitives()) != 1 || len(s.GetAreaLights()) != 1 {
		t.Errorf("Unexpected scene contents: %d quads, %d primitives, %d lights",
			len(s.GetQuads()), len(s.GetPrimitives()), len(s.GetAreaLights()))
	}
}

func TestPreprocess_EmptyScene(t *testing.T) {
	s := &Scene{Name: "empty"}
	if err := s.Preprocess(); err == nil {
		t.Error("Expected an error for a scene without geometry")
	}
}

func TestNewGroundQuadFacesUp(t *testing.T) {
	q := NewGroundQuad(core.NewVec3(1, 2, 3), 2, nil)
	if q.Normal.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-12 {
		t.Errorf("Expected normal (0,1,0), got %v", q.Normal)
	}
	if q.Centroid().Distance(core.NewVec3(1, 2, 3)) > 1e-12 {
		t.Errorf("Expected centroid at the requested center, got %v", q.Centroid())
	}
}

func TestSceneCamera(t *testing.T) {
	s := NewCornellScene()
	if got := s.NewCamera(64); got.Width() != 64 || got.Height() != 64 {
		t.Errorf("Expected 64x64 camera, got %dx%d", got.Width(), got.Height())
	}
	if got := s.NewCamera(0); got.Width() != s.CameraConfig.Width {
		t.Errorf("Expected scene width %d, got %d", s.CameraConfig.Width, got.Width())
	}
}
