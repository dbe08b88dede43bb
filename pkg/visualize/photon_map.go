package visualize

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/photon"
)

// Source is a traced photon map
type Source interface {
	Tree() *photon.KDTree
	PhotonsShot() int
}

// Options controls the debug view
type Options struct {
	Axis       int     // Axis projected away: 0 = x, 1 = y, 2 = z
	Size       int     // Pixels along the longer side of the view
	TailLength float64 // World-space length of the incoming direction tail
	DrawLeaves bool    // Outline kd-tree leaf boxes
}

// DefaultOptions returns a front view (looking down z) with leaf outlines
func DefaultOptions() Options {
	return Options{Axis: 2, Size: 512, TailLength: 0.02, DrawLeaves: true}
}

// ParseAxis converts "x", "y" or "z" to an axis index
func ParseAxis(name string) (int, error) {
	switch name {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("unknown axis %q", name)
}

// planeAxes returns the world axes drawn horizontally and vertically
func planeAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 2, 1
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

// view maps world points onto the image plane
type view struct {
	u, v   int
	min    core.Vec3
	scale  float64
	width  int
	height int
}

func newView(bounds core.AABB, opts Options) (view, error) {
	u, v := planeAxes(opts.Axis)
	size := bounds.Size()
	extent := math.Max(size.Component(u), size.Component(v))
	if !(extent > 0) || opts.Size <= 0 {
		return view{}, fmt.Errorf("cannot project bounds %v at size %d", bounds, opts.Size)
	}

	scale := float64(opts.Size) / extent
	return view{
		u:      u,
		v:      v,
		min:    bounds.Min,
		scale:  scale,
		width:  max(1, int(math.Ceil(size.Component(u)*scale))),
		height: max(1, int(math.Ceil(size.Component(v)*scale))),
	}, nil
}

// project returns image coordinates; the vertical axis points up
func (vw view) project(p core.Vec3) (float64, float64) {
	x := (p.Component(vw.u) - vw.min.Component(vw.u)) * vw.scale
	y := float64(vw.height) - (p.Component(vw.v)-vw.min.Component(vw.v))*vw.scale
	return x, y
}

// Render draws the photons of src projected along opts.Axis. Each photon is
// colored by its energy scaled by the number of photons shot, with a short
// tail pointing back where it came from.
func Render(src Source, opts Options) (image.Image, error) {
	tree := src.Tree()
	if tree == nil {
		return nil, fmt.Errorf("photon map has no index")
	}
	vw, err := newView(tree.Bounds(), opts)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(vw.width, vw.height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	if opts.DrawLeaves {
		dc.SetLineWidth(1)
		dc.SetRGB(0.15, 0.25, 0.15)
		tree.Walk(func(node *photon.KDTree) {
			if !node.IsLeaf() {
				return
			}
			x0, y0 := vw.project(node.Min())
			x1, y1 := vw.project(node.Max())
			dc.DrawRectangle(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0))
			dc.Stroke()
		})
	}

	shot := float64(max(1, src.PhotonsShot()))
	var photons []photon.Photon
	tree.Walk(func(node *photon.KDTree) {
		photons = append(photons, node.Photons()...)
	})

	// Tails first so every photon dot stays on top
	if opts.TailLength > 0 {
		dc.SetLineWidth(1)
		for _, p := range photons {
			c := displayColor(p.Energy, shot).Multiply(0.5)
			x0, y0 := vw.project(p.Position)
			x1, y1 := vw.project(p.Position.Subtract(p.DirectionFrom.Multiply(opts.TailLength)))
			dc.SetRGB(c.X, c.Y, c.Z)
			dc.DrawLine(x0, y0, x1, y1)
			dc.Stroke()
		}
	}

	for _, p := range photons {
		c := displayColor(p.Energy, shot)
		x, y := vw.project(p.Position)
		dc.SetRGB(c.X, c.Y, c.Z)
		dc.SetPixel(max(0, min(vw.width-1, int(x))), max(0, min(vw.height-1, int(y))))
	}

	return dc.Image(), nil
}

// SavePhotonMap renders src and writes it as a PNG
func SavePhotonMap(path string, src Source, opts Options) error {
	img, err := Render(src, opts)
	if err != nil {
		return fmt.Errorf("error rendering photon map: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("error saving photon map: %w", err)
	}
	return nil
}

func displayColor(energy core.Vec3, shot float64) core.Vec3 {
	return energy.Multiply(shot).Clamp(0, 1)
}
