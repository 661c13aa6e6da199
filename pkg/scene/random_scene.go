package scene

import (
	"math/rand"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Checker colors shared by the ground of the random and two-spheres scenes
var (
	checkerEven = core.NewVec3(0.2, 0.3, 0.1)
	checkerOdd  = core.NewVec3(0.9, 0.9, 0.9)
)

// randomGridExtent is the half-width of the small-sphere grid: cells run over [-11, 11)
const randomGridExtent = 11

// defaultWideCamera is the camera shared by the built-in showcase scenes
func defaultWideCamera() geometry.CameraConfig {
	lookFrom := core.NewVec3(13, 2, 3)
	lookAt := core.NewVec3(0, 0, 0)
	return geometry.CameraConfig{
		Center:        lookFrom,
		LookAt:        lookAt,
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: lookFrom.Subtract(lookAt).Length(),
		Time0:         0.0,
		Time1:         1.0,
	}
}

// defaultShowcaseSampling mirrors the quality settings used for the showcase scenes
func defaultShowcaseSampling() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 50,
		MaxDepth:        25,
	}
}

// applyCameraOverrides merges the first override, if any, onto base
func applyCameraOverrides(base geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	if len(overrides) > 0 {
		return geometry.MergeCameraConfig(base, overrides[0])
	}
	return base
}

// NewRandomScene creates the cover scene: a checkered ground, a 22x22 grid of small
// diffuse (moving), metal and glass spheres, and three large feature spheres
func NewRandomScene(random *rand.Rand, cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := applyCameraOverrides(defaultWideCamera(), cameraOverrides)
	s := newScene(cameraConfig, defaultShowcaseSampling())
	s.SamplingConfig.UseBVH = true // several hundred spheres

	checker := material.NewCheckerTexture(checkerEven, checkerOdd)
	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(checker)))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -randomGridExtent; a < randomGridExtent; a++ {
		for b := -randomGridExtent; b < randomGridExtent; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())

			// Keep the space around the large metal sphere clear
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				// diffuse, bouncing upward during the shutter interval
				albedo := randomColor(random, 0, 1).MultiplyVec(randomColor(random, 0, 1))
				center2 := center.Add(core.NewVec3(0, randomInRange(random, 0, 0.5), 0))
				s.Shapes = append(s.Shapes, geometry.NewMovingSphere(center, center2,
					cameraConfig.Time0, cameraConfig.Time1, 0.2, material.NewLambertian(albedo)))
			case chooseMat < 0.95:
				// metal
				albedo := randomColor(random, 0.5, 1)
				fuzz := randomInRange(random, 0, 0.5)
				s.Shapes = append(s.Shapes, geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				// glass
				s.Shapes = append(s.Shapes, geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}

func randomInRange(random *rand.Rand, minVal, maxVal float64) float64 {
	return minVal + (maxVal-minVal)*random.Float64()
}

func randomColor(random *rand.Rand, minVal, maxVal float64) core.Vec3 {
	return core.NewVec3(
		randomInRange(random, minVal, maxVal),
		randomInRange(random, minVal, maxVal),
		randomInRange(random, minVal, maxVal),
	)
}
