package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// imageExtensions lists the extensions the optimizer can read.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// SupportedExtension reports whether path has a recognized image extension.
func SupportedExtension(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Enumerate expands the input arguments into a flat, deduplicated list of
// candidate files, preserving first-seen order. Files named directly are
// kept regardless of extension so their outcomes can say why they were
// skipped; directory walks keep only recognized extensions. Anything under
// excludeDir is dropped, which keeps a previous run's output from being
// optimized again. Inputs that do not exist are ignored.
func Enumerate(inputs []string, recursive bool, excludeDir string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		key := canonicalKey(path)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, path)
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			if excludeDir == "" || !isWithin(excludeDir, input) {
				add(input)
			}
			continue
		}
		entries, err := collectDir(input, recursive, excludeDir)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", input, err)
		}
		for _, e := range entries {
			add(e)
		}
	}
	return files, nil
}

func collectDir(dir string, recursive bool, excludeDir string) ([]string, error) {
	if recursive {
		var files []string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if excludeDir != "" && isWithin(excludeDir, path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !SupportedExtension(path) {
				return nil
			}
			if excludeDir != "" && isWithin(excludeDir, path) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		return files, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !SupportedExtension(path) {
			continue
		}
		if excludeDir != "" && isWithin(excludeDir, path) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// canonicalKey resolves a path for dedup purposes. Symlink resolution is
// best effort: a broken link still gets a stable absolute key.
func canonicalKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// isWithin reports whether path sits at or below root. Both sides are
// canonicalized so a symlinked output directory still excludes the files
// it actually contains.
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(canonicalKey(root), canonicalKey(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
