package material

import (
	"math"
	"math/rand"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// checkerFrequency sets the size of the 3D checker cells
const checkerFrequency = 10.0

// CheckerTexture alternates between two color sources in a solid 3D pattern
type CheckerTexture struct {
	Even ColorSource
	Odd  ColorSource
}

// NewCheckerTexture creates a checker texture from two solid colors
func NewCheckerTexture(even, odd core.Vec3) *CheckerTexture {
	return &CheckerTexture{Even: NewSolidColor(even), Odd: NewSolidColor(odd)}
}

// Evaluate picks Odd where sin(10x)*sin(10y)*sin(10z) is negative and Even otherwise
func (c *CheckerTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	sines := math.Sin(checkerFrequency*point.X) *
		math.Sin(checkerFrequency*point.Y) *
		math.Sin(checkerFrequency*point.Z)
	if sines < 0 {
		return c.Odd.Evaluate(uv, point)
	}
	return c.Even.Evaluate(uv, point)
}

// NoiseTexture is a marble-like grey pattern driven by Perlin turbulence
type NoiseTexture struct {
	Noise *Perlin
	Scale float64
}

// NewNoiseTexture creates a noise texture with its own Perlin tables
func NewNoiseTexture(scale float64, random *rand.Rand) *NoiseTexture {
	return &NoiseTexture{Noise: NewPerlin(random), Scale: scale}
}

// Evaluate returns 0.5*(1 + sin(scale*z + 10*turbulence(p))) in every channel
func (n *NoiseTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	value := 0.5 * (1 + math.Sin(n.Scale*point.Z+10*n.Noise.Turbulence(point, DefaultTurbulenceDepth)))
	return core.NewVec3(1, 1, 1).Multiply(value)
}
