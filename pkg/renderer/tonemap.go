package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/pkg/errors"
)

// DisplayGamma is the gamma applied before quantizing to 8 bits
const DisplayGamma = 2.2

// ToneMapper converts linear radiance to a display color
type ToneMapper func(c core.Vec3) color.RGBA

// GammaToneMap raises each channel to 1/DisplayGamma, clamps it to [0,1] and
// scales it to 8 bits, truncating. NaN channels become 0.
func GammaToneMap(c core.Vec3) color.RGBA {
	c = c.GammaCorrect(DisplayGamma).Clamp(0, 1)

	return color.RGBA{
		R: quantize(c.X),
		G: quantize(c.Y),
		B: quantize(c.Z),
		A: 255,
	}
}

// ACESToneMap compresses highlights with the ACES filmic curve fit before
// the gamma step
func ACESToneMap(c core.Vec3) color.RGBA {
	const a, b, cc, d, e = 2.51, 0.03, 2.43, 0.59, 0.14

	numerator := c.MultiplyVec(c.Multiply(a).Add(core.Splat(b)))
	denominator := c.MultiplyVec(c.Multiply(cc).Add(core.Splat(d))).Add(core.Splat(e))
	return GammaToneMap(numerator.DivideVec(denominator))
}

// ParseToneMap returns the tone mapper called name: "gamma" or "aces"
func ParseToneMap(name string) (ToneMapper, error) {
	switch name {
	case "gamma", "":
		return GammaToneMap, nil
	case "aces":
		return ACESToneMap, nil
	default:
		return nil, errors.Errorf("unknown tone map %q", name)
	}
}

// ToImage tone maps every pixel of raster
func ToImage(raster *core.Raster, toneMap ToneMapper) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, raster.Width, raster.Height))
	for y := 0; y < raster.Height; y++ {
		for x := 0; x < raster.Width; x++ {
			img.SetRGBA(x, y, toneMap(raster.At(x, y)))
		}
	}
	return img
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(255 * v)
}
