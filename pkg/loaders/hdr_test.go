package loaders

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

// hdrBuilder assembles a Radiance picture in memory
type hdrBuilder struct {
	buf bytes.Buffer
}

func newHDR(width, height int, headerLines ...string) *hdrBuilder {
	b := &hdrBuilder{}
	b.buf.WriteString("#?RADIANCE\n")
	if headerLines == nil {
		headerLines = []string{"# made by a test", "FORMAT=32-bit_rle_rgbe", "EXPOSURE=1.0"}
	}
	for _, line := range headerLines {
		b.buf.WriteString(line + "\n")
	}
	b.buf.WriteString("\n")
	b.buf.WriteString("-Y " + strconv.Itoa(height) + " +X " + strconv.Itoa(width) + "\n")
	return b
}

// scanlinePrefix writes the new-RLE marker and scanline width
func (b *hdrBuilder) scanlinePrefix(marker uint16, width int) *hdrBuilder {
	b.buf.Write([]byte{byte(marker >> 8), byte(marker), byte(width >> 8), byte(width)})
	return b
}

// repeatPlane writes one plane as a single repeat run
func (b *hdrBuilder) repeatPlane(width int, value byte) *hdrBuilder {
	b.buf.Write([]byte{byte(128 + width), value})
	return b
}

// literalPlane writes one plane as a single literal run
func (b *hdrBuilder) literalPlane(values ...byte) *hdrBuilder {
	b.buf.WriteByte(byte(len(values)))
	b.buf.Write(values)
	return b
}

// uniformScanline writes a scanline of identical RGBE pixels
func (b *hdrBuilder) uniformScanline(width int, r, g, bl, e byte) *hdrBuilder {
	return b.scanlinePrefix(0x0202, width).
		repeatPlane(width, r).
		repeatPlane(width, g).
		repeatPlane(width, bl).
		repeatPlane(width, e)
}

func (b *hdrBuilder) reader() io.Reader {
	return bytes.NewReader(b.buf.Bytes())
}

func TestDecodeHDR_RepeatRun(t *testing.T) {
	const width = 5
	raster, err := DecodeHDR(newHDR(width, 1).uniformScanline(width, 200, 100, 50, 130).reader())
	if err != nil {
		t.Fatalf("DecodeHDR failed: %v", err)
	}

	if raster.Width != width || raster.Height != 1 {
		t.Fatalf("Expected %dx1 raster, got %dx%d", width, raster.Width, raster.Height)
	}

	scale := math.Pow(2, 130-136)
	want := core.NewVec3(200*scale, 100*scale, 50*scale)
	for x := 0; x < width; x++ {
		if got := raster.At(x, 0); got != want {
			t.Errorf("pixel %d: expected %v, got %v", x, want, got)
		}
	}
}

func TestDecodeHDR_MixedRunsAndRows(t *testing.T) {
	const width, height = 4, 2
	b := newHDR(width, height)
	// Row 0: red mixes a literal and a repeat run.
	b.scanlinePrefix(0x0202, width)
	b.literalPlane(1, 2)
	b.buf.Write([]byte{128 + 2, 9})
	b.repeatPlane(width, 0)
	b.literalPlane(4, 3, 2, 1)
	b.repeatPlane(width, 136)
	// Row 1: constant.
	b.uniformScanline(width, 10, 20, 30, 137)

	raster, err := DecodeHDR(b.reader())
	if err != nil {
		t.Fatalf("DecodeHDR failed: %v", err)
	}

	want := []core.Vec3{
		{X: 1, Y: 0, Z: 4}, {X: 2, Y: 0, Z: 3}, {X: 9, Y: 0, Z: 2}, {X: 9, Y: 0, Z: 1},
		{X: 20, Y: 40, Z: 60}, {X: 20, Y: 40, Z: 60}, {X: 20, Y: 40, Z: 60}, {X: 20, Y: 40, Z: 60},
	}
	if diff := cmp.Diff(want, raster.Pixels); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeHDR_ResolutionHeightFirst(t *testing.T) {
	const width, height = 3, 2
	b := newHDR(width, height)
	for y := 0; y < height; y++ {
		b.uniformScanline(width, 1, 1, 1, 136)
	}
	raster, err := DecodeHDR(b.reader())
	if err != nil {
		t.Fatalf("DecodeHDR failed: %v", err)
	}
	if raster.Width != width || raster.Height != height {
		t.Errorf("Expected %dx%d, got %dx%d", width, height, raster.Width, raster.Height)
	}
}

func TestDecodeHDR_FormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong signature", "#?RGBE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1 +X 1\n"},
		{"other format", "#?RADIANCE\nFORMAT=32-bit_rle_xyze\n\n-Y 1 +X 1\n"},
		{"missing format", "#?RADIANCE\nEXPOSURE=1\n\n-Y 1 +X 1\n"},
		{"short resolution", "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1\n"},
		{"non numeric width", "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1 +X wide\n"},
		{"zero height", "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 0 +X 4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHDR(strings.NewReader(tt.input))
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("Expected FormatError, got %v", err)
			}
		})
	}
}

func TestDecodeHDR_DecodeErrors(t *testing.T) {
	const width = 4
	tests := []struct {
		name  string
		build func() *hdrBuilder
		row   int
	}{
		{
			name: "bad RLE marker",
			build: func() *hdrBuilder {
				return newHDR(width, 1).scanlinePrefix(0x0101, width).repeatPlane(width, 1)
			},
		},
		{
			name: "scanline width mismatch",
			build: func() *hdrBuilder {
				return newHDR(width, 1).uniformScanline(width+1, 1, 1, 1, 128)
			},
		},
		{
			name: "repeat run overruns",
			build: func() *hdrBuilder {
				return newHDR(width, 1).scanlinePrefix(0x0202, width).repeatPlane(width+1, 1)
			},
		},
		{
			name: "literal run overruns",
			build: func() *hdrBuilder {
				return newHDR(width, 1).scanlinePrefix(0x0202, width).literalPlane(1, 2, 3, 4, 5)
			},
		},
		{
			name: "zero length run",
			build: func() *hdrBuilder {
				return newHDR(width, 1).scanlinePrefix(0x0202, width).literalPlane()
			},
		},
		{
			name: "truncated planes",
			build: func() *hdrBuilder {
				return newHDR(width, 1).scanlinePrefix(0x0202, width).repeatPlane(width, 1).repeatPlane(width, 2)
			},
		},
		{
			name: "missing second row",
			build: func() *hdrBuilder {
				return newHDR(width, 2).uniformScanline(width, 1, 1, 1, 128)
			},
			row: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raster, err := DecodeHDR(tt.build().reader())
			if raster != nil {
				t.Error("Expected no partial raster on failure")
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Expected DecodeError, got %v", err)
			}
			if decodeErr.Row != tt.row {
				t.Errorf("Expected error on row %d, got %d", tt.row, decodeErr.Row)
			}
		})
	}
}

func TestDecodeHDR_TruncatedScanlineIsUnexpectedEOF(t *testing.T) {
	_, err := DecodeHDR(newHDR(4, 1).scanlinePrefix(0x0202, 4).reader())
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected io.ErrUnexpectedEOF in chain, got %v", err)
	}
}

func TestParseHDRHeader_IgnoresUnknownLines(t *testing.T) {
	input := "#?RADIANCE\nGAMMA=1\nFORMAT=32-bit_rle_rgbe\nSOFTWARE=test\n\n-Y 7 +X 9\n"
	header, err := ParseHDRHeader(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("ParseHDRHeader failed: %v", err)
	}
	if diff := cmp.Diff(HDRHeader{Width: 9, Height: 7}, header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRGBE(t *testing.T) {
	tests := []struct {
		r, g, b, e byte
		want       core.Vec3
	}{
		{128, 64, 0, 136, core.NewVec3(128, 64, 0)},
		{128, 64, 32, 129, core.NewVec3(1, 0.5, 0.25)},
		{255, 255, 255, 140, core.NewVec3(255*16, 255*16, 255*16)},
	}
	for _, tt := range tests {
		if got := DecodeRGBE(tt.r, tt.g, tt.b, tt.e); got != tt.want {
			t.Errorf("DecodeRGBE(%d,%d,%d,%d): expected %v, got %v", tt.r, tt.g, tt.b, tt.e, tt.want, got)
		}
	}
}
