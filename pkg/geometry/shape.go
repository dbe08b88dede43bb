package geometry

import (
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/material"
)

// ShapeList is an ordered collection of shapes tested by linear scan
type ShapeList []Shape

// Hit returns the closest intersection across all shapes.
// Ties keep the shape inserted first.
func (sl ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	var closestHit *material.SurfaceInteraction
	closestT := tMax

	for _, shape := range sl {
		if hit, isHit := shape.Hit(ray, tMin, closestT); isHit {
			if hit.T < closestT {
				closestT = hit.T
				closestHit = hit
			}
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the union of all shape bounds
func (sl ShapeList) BoundingBox() core.AABB {
	if len(sl) == 0 {
		return core.AABB{}
	}
	bbox := sl[0].BoundingBox()
	for _, shape := range sl[1:] {
		bbox = bbox.Union(shape.BoundingBox())
	}
	return bbox
}
