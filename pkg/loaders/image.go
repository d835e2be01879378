package loaders

import (
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"math"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/pkg/errors"
)

// displayGamma is the encoding gamma assumed for 8-bit panoramas
const displayGamma = 2.2

// DecodeImage decodes a PNG or JPEG panorama into a linear raster. Stored
// values are treated as gamma encoded and raised to displayGamma so an LDR
// image lights a scene on the same scale as an HDR one.
func DecodeImage(r io.Reader) (*core.Raster, error) {
	// Decode image (auto-detects PNG/JPEG from file header)
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	bounds := img.Bounds()
	raster := core.NewRaster(bounds.Dx(), bounds.Dy())

	for y := 0; y < raster.Height; y++ {
		for x := 0; x < raster.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			raster.Set(x, y, core.NewVec3(
				math.Pow(float64(r)/65535.0, displayGamma),
				math.Pow(float64(g)/65535.0, displayGamma),
				math.Pow(float64(b)/65535.0, displayGamma),
			))
		}
	}

	return raster, nil
}
