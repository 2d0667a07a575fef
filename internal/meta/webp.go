package meta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// VP8X feature flags.
const (
	vp8xICC   = 1 << 5
	vp8xAlpha = 1 << 4
	vp8xEXIF  = 1 << 3
)

// maxWebPCanvas is the VP8X canvas limit: dimensions are stored minus one
// in 24 bits.
const maxWebPCanvas = 1 << 24

// extractWebP walks the RIFF chunks of a WebP file collecting EXIF and
// ICCP payloads. Some writers keep the "Exif\x00\x00" prefix inside the
// EXIF chunk; it is stripped here so the stored block is always bare TIFF.
func extractWebP(data []byte) Metadata {
	var md Metadata
	if len(data) < 12 {
		return md
	}
	i := 12
	for i+8 <= len(data) {
		fourCC := string(data[i : i+4])
		size := int(binary.LittleEndian.Uint32(data[i+4 : i+8]))
		end := i + 8 + size
		if size < 0 || end > len(data) {
			break
		}
		payload := data[i+8 : end]
		switch fourCC {
		case "EXIF":
			if md.EXIF == nil {
				if bytes.HasPrefix(payload, exifHeader) {
					payload = payload[len(exifHeader):]
				}
				md.EXIF = append([]byte(nil), payload...)
			}
		case "ICCP":
			if md.ICC == nil {
				md.ICC = append([]byte(nil), payload...)
			}
		}
		// chunks are padded to even offsets
		i = end + (size & 1)
	}
	return md
}

// EmbedWebP rebuilds a WebP file around md. Metadata chunks require the
// extended (VP8X) layout: VP8X first, ICCP before the image data, EXIF
// after it. Canvas dimensions and the alpha hint must be supplied because
// a simple lossy stream does not expose them for rewriting.
func EmbedWebP(data []byte, md Metadata, width, height int, hasAlpha bool) ([]byte, error) {
	if md.Empty() {
		return data, nil
	}
	if len(data) < 12 || !bytes.Equal(data[:4], riffSig) || !bytes.Equal(data[8:12], webpTag) {
		return nil, errors.New("not a WebP stream")
	}
	if width <= 0 || height <= 0 || width > maxWebPCanvas || height > maxWebPCanvas {
		return nil, fmt.Errorf("canvas %dx%d outside VP8X range", width, height)
	}

	body := data[12:]
	var flags byte
	if hasAlpha {
		flags |= vp8xAlpha
	}
	if len(md.ICC) > 0 {
		flags |= vp8xICC
	}
	if len(md.EXIF) > 0 {
		flags |= vp8xEXIF
	}

	// An existing VP8X header gets folded in and re-emitted up front.
	if len(body) >= 18 && bytes.Equal(body[:4], []byte("VP8X")) {
		flags |= body[8]
		body = body[18:]
	}

	vp8x := make([]byte, 10)
	vp8x[0] = flags
	putUint24(vp8x[4:], uint32(width-1))
	putUint24(vp8x[7:], uint32(height-1))

	var chunks bytes.Buffer
	chunks.Grow(len(body) + len(md.EXIF) + len(md.ICC) + 64)
	writeRIFFChunk(&chunks, "VP8X", vp8x)
	if len(md.ICC) > 0 {
		writeRIFFChunk(&chunks, "ICCP", md.ICC)
	}
	chunks.Write(body)
	if len(md.EXIF) > 0 {
		writeRIFFChunk(&chunks, "EXIF", md.EXIF)
	}

	var out bytes.Buffer
	out.Grow(12 + chunks.Len())
	out.Write(riffSig)
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(4+chunks.Len()))
	out.Write(n[:])
	out.Write(webpTag)
	out.Write(chunks.Bytes())
	return out.Bytes(), nil
}

func writeRIFFChunk(buf *bytes.Buffer, fourCC string, payload []byte) {
	buf.WriteString(fourCC)
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(payload)))
	buf.Write(n[:])
	buf.Write(payload)
	if len(payload)%2 == 1 {
		buf.WriteByte(0)
	}
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}
