package renderer

import (
	"fmt"
	"image"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// Raytracer renders a whole frame on the calling goroutine
type Raytracer struct {
	scene        *scene.Scene
	width        int
	height       int
	config       scene.SamplingConfig
	tileRenderer *TileRenderer
}

// NewRaytracer creates a new raytracer, building the scene's world if needed
func NewRaytracer(s *scene.Scene, integratorInst integrator.Integrator) (*Raytracer, error) {
	if err := ensurePreprocessed(s); err != nil {
		return nil, err
	}
	return &Raytracer{
		scene:        s,
		width:        s.SamplingConfig.Width,
		height:       s.SamplingConfig.Height,
		config:       s.SamplingConfig,
		tileRenderer: NewTileRenderer(s, integratorInst),
	}, nil
}

// ensurePreprocessed builds the world aggregate once
func ensurePreprocessed(s *scene.Scene) error {
	if s == nil {
		return fmt.Errorf("nil scene")
	}
	if s.World != nil {
		return nil
	}
	if err := s.Preprocess(); err != nil {
		return fmt.Errorf("failed to preprocess scene: %w", err)
	}
	return nil
}

// RenderPass renders the full frame with SamplesPerPixel samples per pixel and
// returns the gamma-corrected image along with sampling statistics
func (rt *Raytracer) RenderPass(sampler core.Sampler) (*image.RGBA, RenderStats) {
	pixelStats := newPixelStatsGrid(rt.width, rt.height)
	bounds := image.Rect(0, 0, rt.width, rt.height)

	stats := rt.tileRenderer.RenderTileBounds(bounds, pixelStats, sampler, rt.config.SamplesPerPixel)
	return assembleImage(pixelStats, rt.width, rt.height), stats
}

// assembleImage converts accumulated pixel statistics into an 8-bit image
func assembleImage(pixelStats [][]PixelStats, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, ToRGBA(pixelStats[y][x].GetColor()))
		}
	}
	return img
}
