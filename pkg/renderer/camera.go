package renderer

import (
	"math"

	"github.com/df07/go-photon-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera aimed at a point
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is aimed at
	Up          core.Vec3 // Approximate up direction
	Width       int       // Image width in pixels
	AspectRatio float64   // Width / height
	VFov        float64   // Vertical field of view in degrees
}

// Camera generates primary rays through image pixels
type Camera struct {
	config      CameraConfig
	width       int
	height      int
	origin      core.Vec3
	pixel00     core.Vec3 // Upper left corner of the image plane
	pixelDeltaU core.Vec3 // One pixel to the right
	pixelDeltaV core.Vec3 // One pixel down
	forward     core.Vec3
}

// NewCamera creates a camera from config
func NewCamera(config CameraConfig) *Camera {
	if config.Width < 1 {
		config.Width = 1
	}
	if config.AspectRatio <= 0 {
		config.AspectRatio = 1
	}
	if config.VFov <= 0 || config.VFov >= 180 {
		config.VFov = 40
	}
	if config.Up.IsZero() {
		config.Up = core.NewVec3(0, 1, 0)
	}

	height := int(float64(config.Width) / config.AspectRatio)
	if height < 1 {
		height = 1
	}

	forward := config.LookAt.Subtract(config.Center).Normalize()
	if forward.IsZero() {
		forward = core.NewVec3(0, 0, -1)
	}
	right := forward.Cross(config.Up).Normalize()
	if right.IsZero() {
		u, _ := core.OrthonormalBasis(forward)
		right = u
	}
	up := right.Cross(forward)

	// Image plane one unit in front of the camera
	viewportHeight := 2 * math.Tan(config.VFov*math.Pi/360)
	viewportWidth := viewportHeight * float64(config.Width) / float64(height)

	horizontal := right.Multiply(viewportWidth)
	vertical := up.Multiply(-viewportHeight)
	pixelDeltaU := horizontal.Multiply(1.0 / float64(config.Width))
	pixelDeltaV := vertical.Multiply(1.0 / float64(height))
	pixel00 := config.Center.Add(forward).
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5))

	return &Camera{
		config:      config,
		width:       config.Width,
		height:      height,
		origin:      config.Center,
		pixel00:     pixel00,
		pixelDeltaU: pixelDeltaU,
		pixelDeltaV: pixelDeltaV,
		forward:     forward,
	}
}

// GetRay returns the ray through pixel (i, j), offset inside the pixel by
// jitter in [0,1)². Row 0 is the top of the image.
func (c *Camera) GetRay(i, j int, jitter core.Vec2) core.Ray {
	target := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + jitter.X)).
		Add(c.pixelDeltaV.Multiply(float64(j) + jitter.Y))
	return core.NewRay(c.origin, target.Subtract(c.origin).Normalize())
}

// GetCameraForward returns the unit viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.forward
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.height
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}
