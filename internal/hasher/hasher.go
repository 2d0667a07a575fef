package hasher

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Sum computes the xxHash64 of data and returns it as a 16-char hex
// string. Reports store this for each written file so a later verify run
// can prove the output on disk is the one the optimizer produced.
func Sum(data []byte) string {
	return hex.EncodeToString(uint64ToBytes(xxhash.Sum64(data)))
}

// SumFile streams a file through xxHash64 without loading it whole.
func SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(uint64ToBytes(h.Sum64())), nil
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
	return b
}
