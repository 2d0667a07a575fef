package hasher

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSumLength(t *testing.T) {
	got := Sum([]byte("hello world"))
	if len(got) != 16 {
		t.Fatalf("hash length = %d, want 16", len(got))
	}
}

func TestSumDeterministic(t *testing.T) {
	a := Sum([]byte("payload"))
	b := Sum([]byte("payload"))
	if a != b {
		t.Errorf("same input hashed differently: %s vs %s", a, b)
	}
	if Sum([]byte("payload")) == Sum([]byte("payloae")) {
		t.Error("different inputs produced the same hash")
	}
}

func TestSumFileMatchesSum(t *testing.T) {
	data := []byte("file contents for hashing")
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	fromFile, err := SumFile(path)
	if err != nil {
		t.Fatalf("SumFile: %v", err)
	}
	if fromFile != Sum(data) {
		t.Errorf("SumFile = %s, Sum = %s", fromFile, Sum(data))
	}
}

func TestSumFileMissing(t *testing.T) {
	if _, err := SumFile(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Error("expected error for missing file")
	}
}
