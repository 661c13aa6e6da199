package scene

import (
	"fmt"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	Shapes         []geometry.Shape // Objects in the scene
	SamplingConfig SamplingConfig
	CameraConfig   geometry.CameraConfig
	TopColor       core.Vec3      // Sky color straight up
	BottomColor    core.Vec3      // Sky color straight down
	World          geometry.Shape // Aggregate queried by the integrator, built by Preprocess
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int  // Image width
	Height          int  // Image height
	SamplesPerPixel int  // Number of rays per pixel
	MaxDepth        int  // Maximum ray bounce depth
	UseBVH          bool // Accelerate nearest-hit queries; results are identical to the linear list
}

// Default sky gradient
var (
	DefaultTopColor    = core.NewVec3(0.5, 0.7, 1.0)
	DefaultBottomColor = core.NewVec3(1.0, 1.0, 1.0)
)

// newScene assembles a scene around a camera configuration with the default sky
func newScene(cameraConfig geometry.CameraConfig, samplingConfig SamplingConfig) *Scene {
	samplingConfig.Width = cameraConfig.Width
	samplingConfig.Height = imageHeight(cameraConfig.Width, cameraConfig.AspectRatio)

	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		Shapes:         make([]geometry.Shape, 0),
		SamplingConfig: samplingConfig,
		CameraConfig:   cameraConfig,
		TopColor:       DefaultTopColor,
		BottomColor:    DefaultBottomColor,
	}
}

// imageHeight derives the pixel height from width and aspect ratio, never less than one row
func imageHeight(width int, aspectRatio float64) int {
	if aspectRatio <= 0 {
		return width
	}
	return max(1, int(float64(width)/aspectRatio))
}

// Preprocess prepares the scene for rendering by building the world aggregate
func (s *Scene) Preprocess() error {
	if s.Camera == nil {
		return fmt.Errorf("scene has no camera")
	}
	if len(s.Shapes) == 0 {
		return fmt.Errorf("scene has no shapes")
	}

	if s.SamplingConfig.UseBVH {
		s.World = geometry.NewBVH(s.Shapes, s.CameraConfig.Time0, s.CameraConfig.Time1)
	} else {
		s.World = geometry.NewShapeList(s.Shapes...)
	}
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += countPrimitivesInShape(shape)
	}
	return count
}

// countPrimitivesInShape counts primitives in a single shape, descending into lists
func countPrimitivesInShape(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.ShapeList:
		count := 0
		for _, child := range obj.Shapes {
			count += countPrimitivesInShape(child)
		}
		return count
	default:
		// Regular shapes count as 1 primitive each
		return 1
	}
}
