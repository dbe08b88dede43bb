package core

import "math"

// SRGBToLinear converts a display-gamma (sRGB) channel value to linear light
func SRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LinearToSRGB converts a linear light channel value to display gamma (sRGB)
func LinearToSRGB(c float64) float64 {
	if c <= 0 {
		return 0
	}
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}

// SRGBToLinear converts every channel of an sRGB color to linear light
func (v Vec3) SRGBToLinear() Vec3 {
	return Vec3{X: SRGBToLinear(v.X), Y: SRGBToLinear(v.Y), Z: SRGBToLinear(v.Z)}
}

// LinearToSRGB converts every channel of a linear color to sRGB
func (v Vec3) LinearToSRGB() Vec3 {
	return Vec3{X: LinearToSRGB(v.X), Y: LinearToSRGB(v.Y), Z: LinearToSRGB(v.Z)}
}

// White is full-intensity linear white
var White = Vec3{X: 1, Y: 1, Z: 1}
