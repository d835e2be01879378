package loaders

import (
	"bufio"
	"context"
	"path"
	"strings"

	"github.com/df07/go-envmap-pathtracer/pkg/core"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
)

// LoadEnvironment reads the panorama stored under key and decodes it with the
// decoder matching its extension: .hdr and .pic are Radiance pictures, .png,
// .jpg and .jpeg are 8-bit images.
func LoadEnvironment(ctx context.Context, bucket *blob.Bucket, key string) (*core.Raster, error) {
	decode, err := decoderFor(key)
	if err != nil {
		return nil, err
	}

	rd, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open environment %q", key)
	}
	defer rd.Close()

	raster, err := decode(bufio.NewReaderSize(rd, 1<<20))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load environment %q", key)
	}
	return raster, nil
}

func decoderFor(key string) (func(r *bufio.Reader) (*core.Raster, error), error) {
	switch strings.ToLower(path.Ext(key)) {
	case ".hdr", ".pic":
		return func(r *bufio.Reader) (*core.Raster, error) { return DecodeHDR(r) }, nil
	case ".png", ".jpg", ".jpeg":
		return func(r *bufio.Reader) (*core.Raster, error) { return DecodeImage(r) }, nil
	default:
		return nil, errors.Errorf("unsupported environment format %q", path.Ext(key))
	}
}
