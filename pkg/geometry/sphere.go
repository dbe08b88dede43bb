package geometry

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// Sphere represents a sphere shape.
// Rays starting inside the sphere or pointing away from it do not hit it.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	oc := ray.Origin.Subtract(s.Center)

	// at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return nil, false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	tMinus := (-halfB - sqrtD) / a
	tPlus := (-halfB + sqrtD) / a

	// Origin inside the sphere, or sphere behind the ray
	if tMinus < -core.Epsilon || tPlus < -core.Epsilon {
		return nil, false
	}

	root := tMinus
	if root < tMin || root > tMax {
		return nil, false
	}

	hitRecord := &material.SurfaceInteraction{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	outwardNormal := hitRecord.Point.Subtract(s.Center).Normalize()
	hitRecord.SetFaceNormal(ray, outwardNormal)
	hitRecord.UV = s.surfaceUV(outwardNormal)

	return hitRecord, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return core.NewAABBAround(s.Center, s.Radius)
}

// ClosestPoint returns the point on the sphere surface nearest to p
func (s *Sphere) ClosestPoint(p core.Vec3) core.Vec3 {
	dir := p.Subtract(s.Center).Normalize()
	if dir.IsZero() {
		dir = core.NewVec3(0, 1, 0)
	}
	return s.Center.Add(dir.Multiply(s.Radius))
}

// pointAt places (s,t) in [0,1]² on the sphere: s is longitude, t runs from
// the bottom pole (t=0) to the top pole (t=1)
func (s *Sphere) pointAt(u, v float64) core.Vec3 {
	angle := 2 * math.Pi * u
	y := -math.Cos(math.Pi * v)
	factor := math.Sqrt(math.Max(0, 1-y*y))
	dir := core.NewVec3(factor*math.Cos(angle), y, -factor*math.Sin(angle))
	return s.Center.Add(dir.Multiply(s.Radius))
}

// surfaceUV inverts pointAt for a unit outward normal
func (s *Sphere) surfaceUV(n core.Vec3) core.Vec2 {
	u := math.Atan2(-n.Z, n.X) / (2 * math.Pi)
	if u < 0 {
		u += 1
	}
	v := math.Acos(math.Max(-1, math.Min(1, -n.Y))) / math.Pi
	return core.NewVec2(u, v)
}

// Rasterize approximates the sphere with triangle patches on a grid of
// horizontal × vertical cells. horizontal is rounded up to an even number.
func (s *Sphere) Rasterize(horizontal, vertical int) []Shape {
	h := horizontal
	if h < 4 {
		h = 4
	}
	if h%2 != 0 {
		h++
	}
	v := vertical
	if v < 2 {
		v = 2
	}

	type vertex struct {
		p  core.Vec3
		uv core.Vec2
	}

	// Ring j (1..v-1), column i (wrapping at h)
	ring := func(i, j int) vertex {
		u := float64(i%h) / float64(h)
		t := float64(j) / float64(v)
		return vertex{s.pointAt(u, t), core.NewVec2(float64(i)/float64(h), t)}
	}
	bottom := vertex{s.Center.Add(core.NewVec3(0, -s.Radius, 0)), core.NewVec2(0.5, 0)}
	top := vertex{s.Center.Add(core.NewVec3(0, s.Radius, 0)), core.NewVec2(0.5, 1)}

	var patches []Shape
	addTri := func(a, b, c vertex) {
		patches = append(patches, NewTriangleWithUVs(a.p, b.p, c.p, a.uv, b.uv, c.uv, s.Material))
	}

	// Middle bands: each grid cell becomes two triangles
	for j := 1; j < v-1; j++ {
		for i := 0; i < h; i++ {
			a := ring(i, j)
			b := ring(i+1, j)
			c := ring(i, j+1)
			d := ring(i+1, j+1)
			addTri(a, b, d)
			addTri(a, d, c)
		}
	}

	// Caps: fans around each pole, two ring steps per patch
	for i := 0; i < h; i += 2 {
		b := ring(i, 1)
		c := ring(i+1, 1)
		d := ring(i+2, 1)
		addTri(d, c, bottom)
		addTri(c, b, bottom)

		b = ring(i, v-1)
		c = ring(i+1, v-1)
		d = ring(i+2, v-1)
		addTri(b, c, top)
		addTri(c, d, top)
	}

	return patches
}
