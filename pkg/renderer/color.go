package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// maxChannelIntensity keeps quantized channels below 256
const maxChannelIntensity = 0.999

// GammaCorrect applies gamma 2 (square root) to each channel. Negative and NaN channels become 0.
func GammaCorrect(c core.Vec3) core.Vec3 {
	return core.NewVec3(gamma2(c.X), gamma2(c.Y), gamma2(c.Z))
}

// InverseGamma undoes GammaCorrect by squaring each channel
func InverseGamma(c core.Vec3) core.Vec3 {
	return c.MultiplyVec(c)
}

// QuantizeChannel maps a linear channel value to an 8-bit level:
// int(256 * clamp(sqrt(c), 0, 0.999))
func QuantizeChannel(c float64) uint8 {
	g := math.Min(gamma2(c), maxChannelIntensity)
	return uint8(256 * g)
}

// ToRGBA converts an averaged linear pixel color to an opaque 8-bit color
func ToRGBA(c core.Vec3) color.RGBA {
	g := GammaCorrect(c).Clamp(0, maxChannelIntensity)
	return color.RGBA{
		R: uint8(256 * g.X),
		G: uint8(256 * g.Y),
		B: uint8(256 * g.Z),
		A: 255,
	}
}

func gamma2(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	return math.Sqrt(x)
}
