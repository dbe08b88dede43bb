package renderer

import "github.com/df07/go-photon-raytracer/pkg/core"

// Image is a row-major buffer of linear RGB pixels; row 0 is the top
type Image struct {
	width  int
	height int
	pixels []core.Vec3
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{width: width, height: height, pixels: make([]core.Vec3, width*height)}
}

// Width returns the image width in pixels
func (img *Image) Width() int {
	return img.width
}

// Height returns the image height in pixels
func (img *Image) Height() int {
	return img.height
}

// Pixel returns the linear color at (x, y)
func (img *Image) Pixel(x, y int) core.Vec3 {
	return img.pixels[y*img.width+x]
}

// SetPixel stores a linear color at (x, y)
func (img *Image) SetPixel(x, y int, c core.Vec3) {
	img.pixels[y*img.width+x] = c
}
