// Package meta extracts and re-embeds EXIF and ICC metadata for the
// containers the optimizer reads and writes (JPEG, PNG, WebP). Pixel
// decoders drop this data, so carrying it across a re-encode means lifting
// the raw blocks out of the source bytes and splicing them into the encoded
// output.
package meta

import "bytes"

// Metadata holds the raw metadata blocks of one image. EXIF is a bare TIFF
// stream (no "Exif\x00\x00" prefix); ICC is a raw ICC profile.
type Metadata struct {
	EXIF []byte
	ICC  []byte
}

// Empty reports whether there is nothing to embed.
func (m Metadata) Empty() bool {
	return len(m.EXIF) == 0 && len(m.ICC) == 0
}

var (
	jpegSig = []byte{0xff, 0xd8, 0xff}
	pngSig  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	riffSig = []byte("RIFF")
	webpTag = []byte("WEBP")
)

// Extract pulls EXIF and ICC blocks out of an encoded image, detecting the
// container from its magic bytes. Unknown containers yield empty metadata.
func Extract(data []byte) Metadata {
	switch {
	case bytes.HasPrefix(data, jpegSig):
		return extractJPEG(data)
	case bytes.HasPrefix(data, pngSig):
		return extractPNG(data)
	case bytes.HasPrefix(data, riffSig) && len(data) >= 12 && bytes.Equal(data[8:12], webpTag):
		return extractWebP(data)
	default:
		return Metadata{}
	}
}
