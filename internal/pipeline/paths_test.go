package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	got := outputPath(filepath.Join("src", "photo.jpg"), dir, "_optimized", ".webp", false)
	want := filepath.Join(dir, "photo_optimized.webp")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = outputPath("pic.PNG", dir, "", ".png", false)
	want = filepath.Join(dir, "pic.png")
	if got != want {
		t.Errorf("empty suffix: got %q, want %q", got, want)
	}
}

func TestOutputPathCollision(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "photo_optimized.jpg"))

	got := outputPath("photo.jpg", dir, "_optimized", ".jpg", false)
	want := filepath.Join(dir, "photo_optimized (1).jpg")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	touch(t, want)
	got = outputPath("photo.jpg", dir, "_optimized", ".jpg", false)
	want = filepath.Join(dir, "photo_optimized (2).jpg")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOutputPathOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "photo_optimized.jpg")
	touch(t, existing)

	got := outputPath("photo.jpg", dir, "_optimized", ".jpg", true)
	if got != existing {
		t.Errorf("overwrite should reuse the plain name, got %q", got)
	}
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, "new.tmp")
	dst := filepath.Join(dir, "final.jpg")
	if err := os.WriteFile(tmp, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := replaceFile(tmp, dst); err != nil {
		t.Fatalf("replace: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("dst content = %q, want %q", data, "new")
	}
	if fileExists(tmp) {
		t.Error("tmp file should be gone after replace")
	}
}

func TestReplaceFileFreshDestination(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, "new.tmp")
	dst := filepath.Join(dir, "final.jpg")
	if err := os.WriteFile(tmp, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := replaceFile(tmp, dst); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !fileExists(dst) {
		t.Error("dst should exist")
	}
}
