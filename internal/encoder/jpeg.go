package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os/exec"
	"sync"
)

// JPEGEncoder encodes with Go's standard library, then optionally passes
// the result through jpegtran for progressive scan conversion and Huffman
// table optimization, neither of which image/jpeg can do itself.
type JPEGEncoder struct {
	once         sync.Once
	jpegtranPath string
}

func (e *JPEGEncoder) Format() string    { return "jpeg" }
func (e *JPEGEncoder) Extension() string { return ".jpg" }
func (e *JPEGEncoder) Available() bool   { return true }

func (e *JPEGEncoder) Encode(img image.Image, opts Options) ([]byte, error) {
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 82
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024) // pre-alloc 256KB — avoids repeated grow for typical photos

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	if !opts.Progressive && !opts.Optimize {
		return buf.Bytes(), nil
	}
	return e.transcode(buf.Bytes(), opts)
}

// transcode reruns the encoded stream through jpegtran. A missing binary
// is not an error: the baseline bytes are already valid output. A binary
// that runs and fails is.
func (e *JPEGEncoder) transcode(encoded []byte, opts Options) ([]byte, error) {
	e.once.Do(func() {
		if path, err := exec.LookPath("jpegtran"); err == nil {
			e.jpegtranPath = path
		}
	})
	if e.jpegtranPath == "" {
		return encoded, nil
	}

	// Metadata is re-embedded after encoding, so nothing to copy here.
	args := []string{"-copy", "none"}
	if opts.Progressive {
		args = append(args, "-progressive")
	}
	if opts.Optimize {
		args = append(args, "-optimize")
	}

	cmd := exec.Command(e.jpegtranPath, args...)
	cmd.Stdin = bytes.NewReader(encoded)

	var out, stderr bytes.Buffer
	out.Grow(len(encoded))
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("jpegtran: %w: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}
