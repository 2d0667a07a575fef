package meta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	exifHeader = []byte("Exif\x00\x00")
	iccHeader  = []byte("ICC_PROFILE\x00")
)

// An APP2 segment carries at most 65533 payload bytes; the ICC header plus
// its sequence/count pair eat 14 of them.
const maxICCChunk = 65535 - 2 - len("ICC_PROFILE\x00") - 2

const (
	markerSOI = 0xd8
	markerEOI = 0xd9
	markerSOS = 0xda
	markerTEM = 0x01
	markerAPP = 0xe0
)

// extractJPEG walks the segment stream up to SOS and collects the first
// Exif APP1 block and the ICC profile spread over APP2 segments.
func extractJPEG(data []byte) Metadata {
	var md Metadata
	if len(data) < 2 || data[0] != 0xff || data[1] != markerSOI {
		return md
	}

	iccParts := make(map[int][]byte)
	iccTotal := 0

	i := 2
	for i+1 < len(data) {
		if data[i] != 0xff {
			i++
			continue
		}
		marker := data[i+1]
		switch {
		case marker == 0xff:
			// fill byte, resync
			i++
			continue
		case marker == markerEOI || marker == markerSOS:
			return assembleICC(md, iccParts, iccTotal)
		case marker == markerTEM || (marker >= 0xd0 && marker <= 0xd7):
			i += 2
			continue
		}
		if i+4 > len(data) {
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 || i+2+segLen > len(data) {
			break
		}
		payload := data[i+4 : i+2+segLen]
		switch {
		case marker == markerAPP+1 && bytes.HasPrefix(payload, exifHeader):
			if md.EXIF == nil {
				md.EXIF = append([]byte(nil), payload[len(exifHeader):]...)
			}
		case marker == markerAPP+2 && bytes.HasPrefix(payload, iccHeader):
			rest := payload[len(iccHeader):]
			if len(rest) > 2 {
				seq, count := int(rest[0]), int(rest[1])
				if count > iccTotal {
					iccTotal = count
				}
				if _, dup := iccParts[seq]; !dup {
					iccParts[seq] = append([]byte(nil), rest[2:]...)
				}
			}
		}
		i += 2 + segLen
	}
	return assembleICC(md, iccParts, iccTotal)
}

// assembleICC joins the numbered APP2 fragments. A missing fragment means
// the profile is unreliable and gets dropped wholesale.
func assembleICC(md Metadata, parts map[int][]byte, total int) Metadata {
	if len(parts) == 0 || total == 0 {
		return md
	}
	var icc []byte
	for n := 1; n <= total; n++ {
		part, ok := parts[n]
		if !ok {
			return md
		}
		icc = append(icc, part...)
	}
	md.ICC = icc
	return md
}

// EmbedJPEG splices md into an encoded JPEG right after SOI, where readers
// expect APP segments. The image/jpeg encoder emits no APP segments of its
// own, so nothing needs replacing.
func EmbedJPEG(data []byte, md Metadata) ([]byte, error) {
	if md.Empty() {
		return data, nil
	}
	if len(data) < 2 || data[0] != 0xff || data[1] != markerSOI {
		return nil, errors.New("not a JPEG stream")
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(md.EXIF) + len(md.ICC) + 128)
	buf.Write(data[:2])

	if len(md.EXIF) > 0 {
		payload := len(exifHeader) + len(md.EXIF)
		if payload+2 > 0xffff {
			return nil, fmt.Errorf("exif block too large for APP1: %d bytes", len(md.EXIF))
		}
		buf.Write([]byte{0xff, markerAPP + 1})
		writeUint16(&buf, uint16(payload+2))
		buf.Write(exifHeader)
		buf.Write(md.EXIF)
	}

	if len(md.ICC) > 0 {
		count := (len(md.ICC) + maxICCChunk - 1) / maxICCChunk
		if count > 255 {
			return nil, fmt.Errorf("icc profile too large: %d bytes", len(md.ICC))
		}
		for n := 0; n < count; n++ {
			chunk := md.ICC[n*maxICCChunk:]
			if len(chunk) > maxICCChunk {
				chunk = chunk[:maxICCChunk]
			}
			buf.Write([]byte{0xff, markerAPP + 2})
			writeUint16(&buf, uint16(2+len(iccHeader)+2+len(chunk)))
			buf.Write(iccHeader)
			buf.WriteByte(byte(n + 1))
			buf.WriteByte(byte(count))
			buf.Write(chunk)
		}
	}

	buf.Write(data[2:])
	return buf.Bytes(), nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}
