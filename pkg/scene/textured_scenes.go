package scene

import (
	"math/rand"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/loaders"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// DefaultEarthTexture is the texture the earth scene looks for when no path is given
const DefaultEarthTexture = "data/earth.jpg"

// NewTwoSpheresScene creates a checkered sphere below a Perlin-noise sphere, with a small glass ball
func NewTwoSpheresScene(random *rand.Rand, cameraOverrides ...geometry.CameraConfig) *Scene {
	s := newScene(applyCameraOverrides(defaultWideCamera(), cameraOverrides), defaultShowcaseSampling())

	checker := material.NewCheckerTexture(checkerEven, checkerOdd)
	noise := material.NewNoiseTexture(1, random)

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(0, -10, 0), 10, material.NewTexturedLambertian(checker)),
		geometry.NewSphere(core.NewVec3(0, 10, 0), 10, material.NewTexturedLambertian(noise)),
		geometry.NewSphere(core.NewVec3(3, 0, 3), 1, material.NewDielectric(1.5)),
	)

	return s
}

// NewTwoPerlinSpheresScene creates a marble ground and a marble ball sharing one noise texture
func NewTwoPerlinSpheresScene(random *rand.Rand, cameraOverrides ...geometry.CameraConfig) *Scene {
	s := newScene(applyCameraOverrides(defaultWideCamera(), cameraOverrides), defaultShowcaseSampling())

	marble := material.NewTexturedLambertian(material.NewNoiseTexture(4, random))

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble),
		geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
	)

	return s
}

// NewEarthScene creates a single globe wrapped in an image texture.
// If the texture cannot be loaded the globe renders in the cyan missing-texture color.
func NewEarthScene(texturePath string, logger core.Logger, cameraOverrides ...geometry.CameraConfig) *Scene {
	s := newScene(applyCameraOverrides(defaultWideCamera(), cameraOverrides), defaultShowcaseSampling())

	if texturePath == "" {
		texturePath = DefaultEarthTexture
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	texture, err := loaders.LoadImageTexture(texturePath)
	if err != nil {
		logger.Printf("Warning: could not load earth texture: %v\n", err)
		texture = material.NewImageTexture(0, 0, nil)
	}

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(0, 0, 0), 2, material.NewTexturedLambertian(texture)))

	return s
}
