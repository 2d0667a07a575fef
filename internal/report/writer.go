package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SummaryRecord is the persisted form of Summary, derived fields baked in
// so the file is useful without reimplementing the math.
type SummaryRecord struct {
	TotalFiles    int     `json:"total_files"`
	Processed     int     `json:"processed"`
	Skipped       int     `json:"skipped"`
	TotalSrcBytes int64   `json:"total_src_bytes"`
	TotalOutBytes int64   `json:"total_out_bytes"`
	SavedBytes    int64   `json:"saved_bytes"`
	SavedPercent  float64 `json:"saved_percent"`
}

// FileRecord is the persisted form of one Outcome.
type FileRecord struct {
	SrcPath      string  `json:"src_path"`
	OutPath      string  `json:"out_path,omitempty"`
	SrcBytes     int64   `json:"src_bytes"`
	OutBytes     int64   `json:"out_bytes"`
	SavedBytes   int64   `json:"saved_bytes"`
	SavedPercent float64 `json:"saved_percent"`
	Changed      bool    `json:"changed"`
	SkipReason   string  `json:"skipped_reason,omitempty"`
	OutputHash   string  `json:"output_hash,omitempty"`
}

// BatchReport is the top-level document of one run.
type BatchReport struct {
	CreatedUTC string        `json:"created_utc"`
	Summary    SummaryRecord `json:"summary"`
	Files      []FileRecord  `json:"files"`
}

// Build assembles a report from the run's outcomes, in input order, and
// the summary the orchestrator already computed for them.
func Build(outcomes []Outcome, s Summary) *BatchReport {
	r := &BatchReport{
		CreatedUTC: time.Now().UTC().Format(time.RFC3339),
		Summary: SummaryRecord{
			TotalFiles:    s.TotalFiles,
			Processed:     s.Processed,
			Skipped:       s.Skipped,
			TotalSrcBytes: s.TotalSrcBytes,
			TotalOutBytes: s.TotalOutBytes,
			SavedBytes:    s.SavedBytes(),
			SavedPercent:  round2(s.SavedPercent()),
		},
		Files: make([]FileRecord, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		r.Files = append(r.Files, FileRecord{
			SrcPath:      o.SrcPath,
			OutPath:      o.OutPath,
			SrcBytes:     o.SrcBytes,
			OutBytes:     o.OutBytes,
			SavedBytes:   o.SavedBytes(),
			SavedPercent: round2(o.SavedPercent()),
			Changed:      o.Changed,
			SkipReason:   o.SkipReason,
			OutputHash:   o.OutputHash,
		})
	}
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WriteJSON serializes the report to a JSON file with stable ordering.
func WriteJSON(r *BatchReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a previously written report.
func ReadJSON(path string) (*BatchReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r BatchReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &r, nil
}

var csvHeader = []string{
	"src_path", "out_path", "src_bytes", "out_bytes",
	"saved_bytes", "saved_percent", "changed", "skipped_reason", "output_hash",
}

// WriteCSV writes the per-file rows as CSV, one row per source file.
func WriteCSV(r *BatchReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, fr := range r.Files {
		row := []string{
			fr.SrcPath,
			fr.OutPath,
			strconv.FormatInt(fr.SrcBytes, 10),
			strconv.FormatInt(fr.OutBytes, 10),
			strconv.FormatInt(fr.SavedBytes, 10),
			strconv.FormatFloat(fr.SavedPercent, 'f', 2, 64),
			strconv.FormatBool(fr.Changed),
			fr.SkipReason,
			fr.OutputHash,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
