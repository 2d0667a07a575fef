package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// outputPath builds the destination path: stem + suffix + ext under
// outDir. Unless overwriting, an existing name gets a " (N)" counter, the
// way file managers resolve collisions.
func outputPath(srcPath, outDir, suffix, ext string, overwrite bool) string {
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	path := filepath.Join(outDir, stem+suffix+ext)
	if overwrite {
		return path
	}
	return nextAvailableName(path)
}

// nextAvailableName returns path unchanged if free, otherwise the first
// "name (N).ext" variant that does not exist yet.
func nextAvailableName(path string) string {
	if !fileExists(path) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if !fileExists(candidate) {
			return candidate
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// replaceFile moves tmp over dst. Rename replaces atomically on POSIX; the
// remove-then-rename fallback covers filesystems where renaming onto an
// existing file fails.
func replaceFile(tmp, dst string) error {
	if err := os.Rename(tmp, dst); err == nil {
		return nil
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmp, dst)
}
