package encoder

import (
	"bytes"
	"image"
	"image/png"
)

// PNGEncoder encodes images to PNG using Go's standard library.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return ".png" }
func (e *PNGEncoder) Available() bool   { return true }

func (e *PNGEncoder) Encode(img image.Image, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(512 * 1024) // pre-alloc 512KB

	enc := &png.Encoder{CompressionLevel: compressionLevel(opts)}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compressionLevel folds the 0-9 scale onto the four levels image/png
// exposes. Optimize always buys the most expensive one.
func compressionLevel(opts Options) png.CompressionLevel {
	if opts.Optimize {
		return png.BestCompression
	}
	switch {
	case opts.CompressLevel <= 0:
		return png.NoCompression
	case opts.CompressLevel <= 3:
		return png.BestSpeed
	case opts.CompressLevel <= 8:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
