package geometry

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// ShapeList is an aggregate that linearly scans its members for the nearest hit
type ShapeList struct {
	Shapes []Shape
}

// NewShapeList creates a list over the given shapes
func NewShapeList(shapes ...Shape) *ShapeList {
	return &ShapeList{Shapes: shapes}
}

// Add appends a shape to the list
func (l *ShapeList) Add(shape Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Hit returns the nearest member hit within [tMin, tMax]
func (l *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return hitNearest(l.Shapes, ray, tMin, tMax)
}

// BoundingBox is the union of member boxes; absent if the list is empty or any member is unbounded
func (l *ShapeList) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return unionBoxes(l.Shapes, time0, time1)
}

// hitNearest scans shapes, shrinking tMax to the closest hit so far
func hitNearest(shapes []Shape, ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	hitAnything := false
	closestSoFar := tMax

	for _, shape := range shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

func unionBoxes(shapes []Shape, time0, time1 float64) (core.AABB, bool) {
	if len(shapes) == 0 {
		return core.AABB{}, false
	}

	var outputBox core.AABB
	for i, shape := range shapes {
		box, ok := shape.BoundingBox(time0, time1)
		if !ok {
			return core.AABB{}, false
		}
		if i == 0 {
			outputBox = box
		} else {
			outputBox = outputBox.Union(box)
		}
	}
	return outputBox, true
}
