package material

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// bytesPerPixel is the stride of the RGB buffer backing an ImageTexture
const bytesPerPixel = 3

// missingTextureColor is returned when no pixel data was loaded
var missingTextureColor = core.NewVec3(0, 1, 1)

// ImageTexture provides color from a 2D RGB image
type ImageTexture struct {
	Width  int
	Height int
	Data   []byte // Row-major 8-bit RGB, first row is the top of the image
}

// NewImageTexture creates a new image texture over an RGB buffer
func NewImageTexture(width, height int, data []byte) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Data:   data,
	}
}

// Evaluate samples the texture at given UV coordinates using nearest-neighbor filtering.
// Returns cyan when the texture has no data.
func (t *ImageTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	if t.Data == nil || t.Width <= 0 || t.Height <= 0 {
		return missingTextureColor
	}

	// Clamp input texture coordinates to [0,1] x [1,0]
	u := clamp01(uv.X)
	v := 1.0 - clamp01(uv.Y) // Flip V to image coordinates

	i := int(u * float64(t.Width))
	j := int(v * float64(t.Height))

	// Clamp integer mapping, since actual coordinates should be less than 1.0
	if i >= t.Width {
		i = t.Width - 1
	}
	if j >= t.Height {
		j = t.Height - 1
	}

	const colorScale = 1.0 / 255.0
	offset := j*t.Width*bytesPerPixel + i*bytesPerPixel
	if offset+2 >= len(t.Data) {
		return missingTextureColor
	}
	pixel := t.Data[offset : offset+bytesPerPixel]

	return core.NewVec3(
		colorScale*float64(pixel[0]),
		colorScale*float64(pixel[1]),
		colorScale*float64(pixel[2]),
	)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
