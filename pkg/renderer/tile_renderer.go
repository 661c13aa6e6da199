package renderer

import (
	"image"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator.
// The scene must already be preprocessed.
func NewTileRenderer(s *scene.Scene, integratorInst integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		scene:      s,
		integrator: integratorInst,
	}
}

// RenderTileBounds tops up every pixel within bounds to targetSamples samples.
// Pixels already at or above the target are left untouched.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	// Initialize statistics tracking for this specific bounds
	stats := tr.initRenderStatsForBounds(bounds, targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			samplesUsed := tr.samplePixel(x, y, &pixelStats[y][x], sampler, targetSamples)
			tr.updateStats(&stats, samplesUsed)
		}
	}

	// Finalize statistics
	tr.finalizeStats(&stats)
	return stats
}

// samplePixel traces jittered camera rays through pixel (x, y), where y=0 is the top row
func (tr *TileRenderer) samplePixel(x, y int, ps *PixelStats, sampler core.Sampler, targetSamples int) int {
	cfg := tr.scene.SamplingConfig
	camera := tr.scene.Camera

	// Viewport t runs bottom-up, so flip the row
	j := cfg.Height - 1 - y
	uSpan := float64(max(1, cfg.Width-1))
	vSpan := float64(max(1, cfg.Height-1))

	initialSampleCount := ps.SampleCount
	for ps.SampleCount < targetSamples {
		s := (float64(x) + sampler.Get1D()) / uSpan
		t := (float64(j) + sampler.Get1D()) / vSpan
		ray := camera.GetRay(s, t, sampler)
		ps.AddSample(tr.integrator.RayColor(ray, tr.scene.World, cfg.MaxDepth, sampler))
	}

	return ps.SampleCount - initialSampleCount
}

// initRenderStatsForBounds initializes the render statistics tracking for specific bounds
func (tr *TileRenderer) initRenderStatsForBounds(bounds image.Rectangle, maxSamples int) RenderStats {
	pixelCount := bounds.Dx() * bounds.Dy()
	return RenderStats{
		TotalPixels:    pixelCount,
		TotalSamples:   0,
		AverageSamples: 0,
		MaxSamples:     maxSamples,
		MinSamples:     maxSamples, // Start with max, will be reduced
		MaxSamplesUsed: 0,
	}
}

// updateStats updates the render statistics with data from a single pixel
func (tr *TileRenderer) updateStats(stats *RenderStats, samplesUsed int) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
}

// finalizeStats calculates final statistics after all pixels are rendered
func (tr *TileRenderer) finalizeStats(stats *RenderStats) {
	if stats.TotalPixels == 0 {
		return
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
}
