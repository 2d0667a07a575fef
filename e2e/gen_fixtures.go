//go:build ignore

// gen_fixtures creates small test images for an E2E smoke run.
// Usage: go run gen_fixtures.go <output_dir>
//
// The set covers the interesting paths: a big noisy photo that shrinks,
// a tiny file that will not, a transparent logo that needs flattening,
// a pre-suffixed file, a nested directory for --recursive, and a text
// file that must be reported as unsupported.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "nested"), 0o755)

	// Photo (JPEG, 1600x1200, high quality so re-encoding saves bytes)
	writeJPEG(filepath.Join(dir, "photo.jpg"), noisy(1600, 1200), 98)

	// Thumbnail (JPEG, 64x48, already tiny; expect not_smaller)
	writeJPEG(filepath.Join(dir, "thumb.jpg"), noisy(64, 48), 40)

	// Logo with alpha (PNG, 256x256; flattens when converted to JPEG)
	writeImage(filepath.Join(dir, "logo.png"), alphaGradient(256, 256))

	// Already carries the default suffix; expect already_suffixed
	writeJPEG(filepath.Join(dir, "banner_optimized.jpg"), noisy(400, 225), 80)

	// Nested image, only found with --recursive
	writeImage(filepath.Join(dir, "nested", "chart.png"), gradient(640, 480))

	// Not an image at all; expect unsupported_extension when given directly
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image\n"), 0o644); err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 6 fixtures in %s\n", dir)
}

// noisy fills every pixel from a xorshift stream so JPEG quality changes
// move the file size in a predictable direction.
func noisy(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	state := uint32(2463534242)
	next := func() uint8 {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		return uint8(state)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: next(), G: next(), B: next(), A: 255})
		}
	}
	return img
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func writeImage(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA, quality int) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		panic(err)
	}
}
