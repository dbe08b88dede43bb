package lights

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
)

// TotalArea sums the area of every light
func TotalArea(lights []AreaLight) float64 {
	total := 0.0
	for _, light := range lights {
		total += light.Area()
	}
	return total
}

// SampleToward picks the point on the light seen from a shading point.
// With jitter the point is drawn uniformly on the surface, otherwise the centroid is used.
func SampleToward(light AreaLight, point core.Vec3, sampler core.Sampler, jitter bool) (LightSample, bool) {
	lightPoint := light.Centroid()
	if jitter {
		lightPoint = light.RandomPoint(sampler)
	}

	toLight := lightPoint.Subtract(point)
	distance := toLight.Length()
	if distance <= 0 {
		return LightSample{}, false
	}

	return LightSample{
		Point:     lightPoint,
		Direction: toLight.Multiply(1.0 / distance),
		Distance:  distance,
	}, true
}

// SampleEmission draws a uniform point on the light and a cosine-weighted direction about its normal
func SampleEmission(light AreaLight, sampler core.Sampler) EmissionSample {
	point := light.RandomPoint(sampler)
	normal := light.Normal()
	return EmissionSample{
		Point:     point,
		Normal:    normal,
		Direction: core.SampleCosineHemisphere(normal, sampler.Get2D()),
	}
}
