package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// ImageData contains a decoded image as packed 8-bit RGB
type ImageData struct {
	Width  int
	Height int
	Data   []byte // Row-major RGB, 3 bytes per pixel, first row is the top of the image
}

// LoadImage loads a PNG, JPEG, BMP, TIFF or WebP image and converts it to packed RGB.
// EXIF orientation is applied so photos come out upright.
func LoadImage(filename string) (*ImageData, error) {
	img, err := imaging.Open(filename, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", filename, err)
	}
	return FromImage(img), nil
}

// FromImage converts any decoded image to packed RGB, dropping alpha
func FromImage(img image.Image) *ImageData {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	data := make([]byte, 0, width*height*3)
	for y := 0; y < height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		for x := 0; x < width; x++ {
			data = append(data, row[x*4], row[x*4+1], row[x*4+2])
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Data:   data,
	}
}

// LoadImageTexture loads an image file into an ImageTexture
func LoadImageTexture(filename string) (*material.ImageTexture, error) {
	imageData, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return material.NewImageTexture(imageData.Width, imageData.Height, imageData.Data), nil
}
