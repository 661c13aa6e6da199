package geometry

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Hit returns the nearest intersection with t in [tMin, tMax]
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	// BoundingBox returns a box enclosing the shape over the shutter interval [time0, time1].
	// The bool is false when the shape has no finite bounds.
	BoundingBox(time0, time1 float64) (core.AABB, bool)
}
