package encoder

import (
	"image"
)

// Options carries the per-format tuning knobs for one encode. Each encoder
// reads only the fields that apply to its format.
type Options struct {
	// Quality is the lossy quality 1-100 (JPEG, WebP).
	Quality int

	// Progressive requests progressive scan order (JPEG).
	Progressive bool

	// Optimize requests entropy optimization: Huffman tables for JPEG,
	// maximum deflate effort for PNG.
	Optimize bool

	// CompressLevel is the PNG compression effort 0-9.
	CompressLevel int

	// Lossless switches WebP to lossless mode, ignoring Quality.
	Lossless bool

	// Method is the WebP effort 0-6 (0=fast, 6=smallest).
	Method int
}

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the canonical format name (e.g. "jpeg", "png", "webp").
	Format() string

	// Extension returns the output file extension including the dot.
	Extension() string

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp) may not be installed.
	Available() bool

	// Encode converts the image to bytes using opts.
	Encode(img image.Image, opts Options) ([]byte, error)
}
