package output

import (
	"bufio"
	"context"
	"image"
	"image/png"
	"io"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
)

// WritePNG encodes img as a PNG under key
func WritePNG(ctx context.Context, bucket *blob.Bucket, key string, img image.Image) error {
	return write(ctx, bucket, key, "image/png", func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

// write streams encode's output to key. On failure the partial object is
// discarded rather than committed.
func write(ctx context.Context, bucket *blob.Bucket, key, contentType string, encode func(io.Writer) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fd, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "unable to create %q", key)
	}
	buf := bufio.NewWriterSize(fd, 1<<20) // use 1MB buffer

	if err := encode(buf); err != nil {
		cancel()
		fd.Close()
		return errors.Wrapf(err, "unable to encode %q", key)
	}
	if err := buf.Flush(); err != nil {
		cancel()
		fd.Close()
		return errors.Wrapf(err, "unable to flush %q", key)
	}
	if err := fd.Close(); err != nil {
		return errors.Wrapf(err, "unable to write %q", key)
	}
	return nil
}
