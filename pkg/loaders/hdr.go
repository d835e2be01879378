package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/pkg/errors"
)

const (
	hdrSignature   = "#?RADIANCE"
	hdrFormatKey   = "FORMAT"
	hdrFormatRGBE  = "32-bit_rle_rgbe"
	newRLEMarker   = 0x0202
	rgbeBias       = 128 + 8
	repeatRunFlag  = 128
	repeatRunCount = 0x7F
)

// FormatError reports a Radiance header that is not a supported RGBE picture.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "hdr: invalid format: " + e.Reason
}

// DecodeError reports a scanline that could not be decoded.
type DecodeError struct {
	Row    int
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("hdr: scanline %d: %s", e.Row, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// HDRHeader holds the image dimensions read from a Radiance header
type HDRHeader struct {
	Width  int
	Height int
}

// ParseHDRHeader reads the signature, the variable header lines, and the
// resolution line. The resolution line lists height before width
// ("-Y <height> +X <width>"); the second and fourth fields are used.
func ParseHDRHeader(r *bufio.Reader) (HDRHeader, error) {
	line, err := readHeaderLine(r)
	if err != nil {
		return HDRHeader{}, errors.Wrap(err, "hdr: reading signature")
	}
	if strings.TrimSpace(line) != hdrSignature {
		return HDRHeader{}, &FormatError{Reason: fmt.Sprintf("signature %q is not %s", strings.TrimSpace(line), hdrSignature)}
	}

	sawFormat := false
	for {
		line, err := readHeaderLine(r)
		if err != nil {
			return HDRHeader{}, errors.Wrap(err, "hdr: reading header")
		}
		if line == "" {
			break
		}
		if !strings.HasPrefix(line, hdrFormatKey) {
			continue
		}
		_, value, _ := strings.Cut(line, "=")
		if value != hdrFormatRGBE {
			return HDRHeader{}, &FormatError{Reason: fmt.Sprintf("unsupported FORMAT %q", value)}
		}
		sawFormat = true
	}
	if !sawFormat {
		return HDRHeader{}, &FormatError{Reason: "missing FORMAT line"}
	}

	line, err = readHeaderLine(r)
	if err != nil {
		return HDRHeader{}, errors.Wrap(err, "hdr: reading resolution")
	}
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return HDRHeader{}, &FormatError{Reason: fmt.Sprintf("malformed resolution line %q", line)}
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil || height <= 0 {
		return HDRHeader{}, &FormatError{Reason: fmt.Sprintf("bad height %q", fields[1])}
	}
	width, err := strconv.Atoi(fields[3])
	if err != nil || width <= 0 {
		return HDRHeader{}, &FormatError{Reason: fmt.Sprintf("bad width %q", fields[3])}
	}

	return HDRHeader{Width: width, Height: height}, nil
}

func readHeaderLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// DecodeHDR decodes a Radiance RGBE picture stored with new-style run length
// encoded scanlines. Any error aborts the decode; no partial image is returned.
func DecodeHDR(r io.Reader) (*core.Raster, error) {
	br := bufio.NewReader(r)
	header, err := ParseHDRHeader(br)
	if err != nil {
		return nil, err
	}

	raster := core.NewRaster(header.Width, header.Height)
	planes := newScanline(header.Width)
	for y := 0; y < header.Height; y++ {
		if err := planes.read(br, y); err != nil {
			return nil, err
		}
		for x := 0; x < header.Width; x++ {
			raster.Set(x, y, DecodeRGBE(planes.red[x], planes.green[x], planes.blue[x], planes.exp[x]))
		}
	}
	return raster, nil
}

// DecodeRGBE converts one RGBE quadruple to linear radiance: each mantissa is
// scaled by 2^(e-136).
func DecodeRGBE(r, g, b, e byte) core.Vec3 {
	scale := math.Ldexp(1, int(e)-rgbeBias)
	return core.NewVec3(float64(r)*scale, float64(g)*scale, float64(b)*scale)
}

// scanline holds the four component planes of one row
type scanline struct {
	red, green, blue, exp []byte
}

func newScanline(width int) *scanline {
	return &scanline{
		red:   make([]byte, width),
		green: make([]byte, width),
		blue:  make([]byte, width),
		exp:   make([]byte, width),
	}
}

func (s *scanline) read(r *bufio.Reader, y int) error {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return &DecodeError{Row: y, Reason: "reading scanline header", Err: unexpectedEOF(err)}
	}
	if marker := binary.BigEndian.Uint16(prefix[0:2]); marker != newRLEMarker {
		return &DecodeError{Row: y, Reason: fmt.Sprintf("bad RLE marker 0x%04x", marker)}
	}
	if width := int(binary.BigEndian.Uint16(prefix[2:4])); width != len(s.red) {
		return &DecodeError{Row: y, Reason: fmt.Sprintf("scanline width %d does not match image width %d", width, len(s.red))}
	}

	for _, plane := range [][]byte{s.red, s.green, s.blue, s.exp} {
		if err := readPlane(r, plane); err != nil {
			return &DecodeError{Row: y, Reason: "malformed run data", Err: err}
		}
	}
	return nil
}

// readPlane fills plane from a sequence of runs. A count above 128 repeats
// the next byte count&0x7F times; otherwise count literal bytes follow.
func readPlane(r *bufio.Reader, plane []byte) error {
	for x := 0; x < len(plane); {
		count, err := r.ReadByte()
		if err != nil {
			return unexpectedEOF(err)
		}

		if count > repeatRunFlag {
			n := int(count & repeatRunCount)
			if x+n > len(plane) {
				return errors.Errorf("repeat run of %d at %d overruns width %d", n, x, len(plane))
			}
			value, err := r.ReadByte()
			if err != nil {
				return unexpectedEOF(err)
			}
			for i := 0; i < n; i++ {
				plane[x+i] = value
			}
			x += n
			continue
		}

		n := int(count)
		if n == 0 {
			return errors.Errorf("zero length run at %d", x)
		}
		if x+n > len(plane) {
			return errors.Errorf("literal run of %d at %d overruns width %d", n, x, len(plane))
		}
		if _, err := io.ReadFull(r, plane[x:x+n]); err != nil {
			return unexpectedEOF(err)
		}
		x += n
	}
	return nil
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
