package meta

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// extractPNG walks the chunk stream looking for eXIf (raw TIFF) and iCCP
// (zlib-compressed profile) chunks.
func extractPNG(data []byte) Metadata {
	var md Metadata
	if !bytes.HasPrefix(data, pngSig) {
		return md
	}
	i := len(pngSig)
	for i+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[i : i+4]))
		typ := string(data[i+4 : i+8])
		end := i + 8 + length
		if length < 0 || end+4 > len(data) {
			break
		}
		payload := data[i+8 : end]
		switch typ {
		case "eXIf":
			if md.EXIF == nil {
				md.EXIF = append([]byte(nil), payload...)
			}
		case "iCCP":
			if md.ICC == nil {
				if icc, err := decodeICCP(payload); err == nil {
					md.ICC = icc
				}
			}
		case "IEND":
			return md
		}
		i = end + 4
	}
	return md
}

// decodeICCP unwraps an iCCP chunk: profile name, NUL, compression method
// byte (always 0 = zlib), compressed profile.
func decodeICCP(payload []byte) ([]byte, error) {
	nul := bytes.IndexByte(payload, 0)
	if nul < 0 || nul+2 > len(payload) {
		return nil, errors.New("malformed iCCP chunk")
	}
	if method := payload[nul+1]; method != 0 {
		return nil, fmt.Errorf("unsupported iCCP compression method %d", method)
	}
	zr, err := zlib.NewReader(bytes.NewReader(payload[nul+2:]))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// EmbedPNG inserts iCCP and eXIf chunks directly after IHDR. iCCP must
// precede the first IDAT; placing both right behind the header satisfies
// that for any encoder output.
func EmbedPNG(data []byte, md Metadata) ([]byte, error) {
	if md.Empty() {
		return data, nil
	}
	if !bytes.HasPrefix(data, pngSig) {
		return nil, errors.New("not a PNG stream")
	}
	if len(data) < len(pngSig)+8 {
		return nil, errors.New("truncated PNG stream")
	}
	ihdrLen := int(binary.BigEndian.Uint32(data[8:12]))
	if !bytes.Equal(data[12:16], []byte("IHDR")) {
		return nil, errors.New("PNG stream missing IHDR")
	}
	cut := len(pngSig) + 8 + ihdrLen + 4
	if cut > len(data) {
		return nil, errors.New("truncated PNG stream")
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(md.EXIF) + len(md.ICC) + 64)
	buf.Write(data[:cut])
	if len(md.ICC) > 0 {
		writePNGChunk(&buf, "iCCP", iccpPayload(md.ICC))
	}
	if len(md.EXIF) > 0 {
		writePNGChunk(&buf, "eXIf", md.EXIF)
	}
	buf.Write(data[cut:])
	return buf.Bytes(), nil
}

func writePNGChunk(buf *bytes.Buffer, typ string, payload []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(payload)))
	buf.Write(n[:])
	buf.WriteString(typ)
	buf.Write(payload)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(payload)
	binary.BigEndian.PutUint32(n[:], crc.Sum32())
	buf.Write(n[:])
}

func iccpPayload(icc []byte) []byte {
	var out bytes.Buffer
	out.WriteString("ICC Profile")
	out.WriteByte(0) // name terminator
	out.WriteByte(0) // compression method: zlib
	zw := zlib.NewWriter(&out)
	zw.Write(icc)
	zw.Close()
	return out.Bytes()
}
