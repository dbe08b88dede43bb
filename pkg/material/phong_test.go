package material

import (
	"math"
	"testing"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

func TestPhong_ShadeDiffuseOnly(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	phong := NewDiffuse(albedo)

	hit := SurfaceInteraction{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	lightColor := core.NewVec3(2, 2, 2)

	tests := []struct {
		name       string
		dirToLight core.Vec3
		cosine     float64
	}{
		{"overhead", core.NewVec3(0, 0, 1), 1},
		{"grazing 60 degrees", core.NewVec3(math.Sin(math.Pi/3), 0, math.Cos(math.Pi/3)), 0.5},
		{"below horizon", core.NewVec3(0, 0, -1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := phong.Shade(ray, hit, tt.dirToLight, lightColor)
			expected := lightColor.MultiplyVec(albedo).Multiply(tt.cosine)
			if got.Subtract(expected).Length() > 1e-9 {
				t.Errorf("Shade = %v, expected %v", got, expected)
			}
		})
	}
}

func TestPhong_HighlightPeaksAlongMirror(t *testing.T) {
	phong := NewPhong(core.Vec3{}, core.NewVec3(1, 1, 1), 20)
	hit := SurfaceInteraction{Normal: core.NewVec3(0, 0, 1)}

	// Eye and light placed symmetrically about the normal
	l := core.NewVec3(1, 0, 1).Normalize()
	ray := core.NewRay(core.NewVec3(-1, 0, 1), core.NewVec3(1, 0, -1).Normalize())
	lightColor := core.NewVec3(1, 1, 1)

	mirrored := phong.Shade(ray, hit, l, lightColor)
	expected := l.Dot(hit.Normal) // highlight term is 1 * n.l
	if math.Abs(mirrored.X-expected) > 1e-9 {
		t.Errorf("Expected peak highlight %f, got %f", expected, mirrored.X)
	}

	// Moving the eye off the mirror direction reduces the highlight
	offRay := core.NewRay(core.NewVec3(-0.3, 0, 1), core.NewVec3(0.3, 0, -1).Normalize())
	off := phong.Shade(offRay, hit, l, lightColor)
	if off.X >= mirrored.X {
		t.Errorf("Expected off-mirror highlight %f below peak %f", off.X, mirrored.X)
	}
}

func TestPhong_EmittedAlwaysAdded(t *testing.T) {
	phong := NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))
	phong.Emitted = core.NewVec3(0.1, 0.2, 0.3)

	hit := SurfaceInteraction{Normal: core.NewVec3(0, 0, 1)}
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	got := phong.Shade(ray, hit, core.NewVec3(0, 0, -1), core.NewVec3(1, 1, 1))
	if got != phong.Emitted {
		t.Errorf("Expected only emission %v for a light behind the surface, got %v", phong.Emitted, got)
	}
}

func TestChecker_Evaluate(t *testing.T) {
	black := core.NewVec3(0, 0, 0)
	white := core.NewVec3(1, 1, 1)
	checker := NewChecker(4, black, white)

	tests := []struct {
		name     string
		uv       core.Vec2
		expected core.Vec3
	}{
		{"origin", core.NewVec2(0.1, 0.1), black},
		{"next along u", core.NewVec2(0.3, 0.1), white},
		{"next along v", core.NewVec2(0.1, 0.3), white},
		{"diagonal", core.NewVec2(0.3, 0.3), black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.Evaluate(tt.uv, core.Vec3{}); got != tt.expected {
				t.Errorf("Evaluate(%v) = %v, want %v", tt.uv, got, tt.expected)
			}
		})
	}

	textured := NewTexturedPhong(checker, core.Vec3{}, 1)
	if got := textured.DiffuseColor(core.NewVec2(0.3, 0.1), core.Vec3{}); got != white {
		t.Errorf("Expected textured diffuse %v, got %v", white, got)
	}
}

func TestSurfaceInteraction_SetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 0, 1)

	var front SurfaceInteraction
	front.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)), outward)
	if !front.FrontFace || front.Normal != outward {
		t.Errorf("Expected front face with outward normal, got %v front=%t", front.Normal, front.FrontFace)
	}

	var back SurfaceInteraction
	back.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)), outward)
	if back.FrontFace || back.Normal != outward.Multiply(-1) {
		t.Errorf("Expected back face with flipped normal, got %v front=%t", back.Normal, back.FrontFace)
	}
}
