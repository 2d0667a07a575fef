package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleOutcomes() []Outcome {
	return []Outcome{
		{
			SrcPath:    "photos/a.jpg",
			OutPath:    "optimized/a_optimized.jpg",
			SrcBytes:   100000,
			OutBytes:   60000,
			Changed:    true,
			OutputHash: "abcd1234abcd1234",
		},
		{
			SrcPath:    "photos/b.png",
			SrcBytes:   50000,
			OutBytes:   50000,
			Changed:    false,
			SkipReason: "not_smaller",
		},
		{
			SrcPath:    "photos/notes.txt",
			SrcBytes:   120,
			OutBytes:   120,
			Changed:    false,
			SkipReason: "unsupported_extension",
		},
		{
			SrcPath:    "photos/c.png",
			SrcBytes:   80000,
			OutBytes:   80000,
			Changed:    false,
			SkipReason: "not_smaller",
		},
	}
}

func TestBuildSummary(t *testing.T) {
	s := BuildSummary(sampleOutcomes())

	if s.TotalFiles != 4 {
		t.Errorf("total_files: got %d, want 4", s.TotalFiles)
	}
	if s.Processed != 1 {
		t.Errorf("processed: got %d, want 1", s.Processed)
	}
	if s.Skipped != 3 {
		t.Errorf("skipped: got %d, want 3", s.Skipped)
	}
	if s.TotalSrcBytes != 230120 {
		t.Errorf("total_src_bytes: got %d", s.TotalSrcBytes)
	}
	if s.TotalOutBytes != 190120 {
		t.Errorf("total_out_bytes: got %d", s.TotalOutBytes)
	}
	if s.SavedBytes() != 40000 {
		t.Errorf("saved_bytes: got %d", s.SavedBytes())
	}
}

func TestOutcomeDerived(t *testing.T) {
	bigger := Outcome{SrcBytes: 100, OutBytes: 150}
	if bigger.SavedBytes() != 0 {
		t.Error("saved bytes must clamp at zero when output grew")
	}
	if bigger.SavedPercent() != 0 {
		t.Error("saved percent must clamp at zero when output grew")
	}
	empty := Outcome{SrcBytes: 0, OutBytes: 0}
	if empty.SavedPercent() != 0 {
		t.Error("saved percent of empty source must be zero")
	}
	saved := Outcome{SrcBytes: 200, OutBytes: 50}
	if saved.SavedBytes() != 150 {
		t.Errorf("saved bytes: got %d, want 150", saved.SavedBytes())
	}
	if saved.SavedPercent() != 75 {
		t.Errorf("saved percent: got %v, want 75", saved.SavedPercent())
	}
}

func TestReportRoundtrip(t *testing.T) {
	outcomes := sampleOutcomes()
	r := Build(outcomes, BuildSummary(outcomes))
	if r.CreatedUTC == "" {
		t.Error("created_utc missing")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	r2, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if r2.Summary != r.Summary {
		t.Errorf("summary mismatch: %+v vs %+v", r2.Summary, r.Summary)
	}
	if len(r2.Files) != 4 {
		t.Fatalf("files: got %d, want 4", len(r2.Files))
	}
	if r2.Files[0].OutputHash != "abcd1234abcd1234" {
		t.Errorf("output_hash: got %q", r2.Files[0].OutputHash)
	}
	if r2.Files[1].SkipReason != "not_smaller" {
		t.Errorf("skipped_reason: got %q", r2.Files[1].SkipReason)
	}

	// omitempty: a skipped file has no out_path or output_hash keys
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(raw), `"out_path"`); n != 1 {
		t.Errorf("out_path should appear once, got %d", n)
	}
}

func TestReportRounding(t *testing.T) {
	outcomes := []Outcome{
		{SrcPath: "x.jpg", OutPath: "y.jpg", SrcBytes: 3, OutBytes: 2, Changed: true},
	}
	r := Build(outcomes, BuildSummary(outcomes))
	if r.Files[0].SavedPercent != 33.33 {
		t.Errorf("saved_percent: got %v, want 33.33", r.Files[0].SavedPercent)
	}
	if r.Summary.SavedPercent != 33.33 {
		t.Errorf("summary saved_percent: got %v, want 33.33", r.Summary.SavedPercent)
	}
}

func TestWriteCSV(t *testing.T) {
	outcomes := sampleOutcomes()
	r := Build(outcomes, BuildSummary(outcomes))

	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	if err := WriteCSV(r, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows: got %d, want header + 4", len(rows))
	}
	if rows[0][0] != "src_path" || rows[0][8] != "output_hash" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "photos/a.jpg" || rows[1][6] != "true" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][7] != "not_smaller" {
		t.Errorf("unexpected skip reason: %v", rows[2])
	}
	if rows[1][5] != "40.00" {
		t.Errorf("saved_percent cell: got %q, want 40.00", rows[1][5])
	}
}

func TestSkipBreakdown(t *testing.T) {
	got := SkipBreakdown(sampleOutcomes())
	if len(got) != 2 {
		t.Fatalf("reasons: got %d, want 2", len(got))
	}
	if got[0].Reason != "not_smaller" || got[0].Count != 2 {
		t.Errorf("first: %+v", got[0])
	}
	if got[1].Reason != "unsupported_extension" || got[1].Count != 1 {
		t.Errorf("second: %+v", got[1])
	}
	if SkipBreakdown(nil) != nil {
		t.Error("no outcomes should yield nil breakdown")
	}
}
