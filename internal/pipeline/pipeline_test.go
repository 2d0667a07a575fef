package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"imgopt/internal/config"
	"imgopt/internal/report"
)

func TestPipelineRunBatch(t *testing.T) {
	dir := t.TempDir()
	writeJPEGFile(t, filepath.Join(dir, "a.jpg"), noisy(96, 96), 100)
	writeJPEGFile(t, filepath.Join(dir, "b.jpg"), noisy(96, 96), 100)
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(filepath.Join(dir, "optimized"))
	cfg.JPEG.Quality = 40

	var progress []int
	var seen []string
	var outs []report.Outcome
	var completes []CompleteInfo

	p, err := New(cfg, Options{
		Callbacks: Callbacks{
			OnProgress: func(info ProgressInfo) { progress = append(progress, info.Index) },
			OnFile:     func(info FileInfo) { seen = append(seen, info.Path) },
			OnOutcome:  func(o report.Outcome) { outs = append(outs, o) },
			OnComplete: func(info CompleteInfo) { completes = append(completes, info) },
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	outcomes, summary, err := p.Run(context.Background(), []string{dir, notes})
	if err != nil {
		t.Fatal(err)
	}

	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(outcomes))
	}
	if summary.TotalFiles != 3 || summary.Processed != 2 || summary.Skipped != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if outcomes[2].SkipReason != SkipUnsupportedExtension {
		t.Errorf("direct txt input should be reported, got %+v", outcomes[2])
	}

	if len(progress) != 3 || progress[0] != 1 || progress[2] != 3 {
		t.Errorf("progress indexes = %v", progress)
	}
	if len(seen) != 3 || len(outs) != 3 {
		t.Errorf("callbacks fired %d/%d times, want 3/3", len(seen), len(outs))
	}
	if len(completes) != 1 || completes[0].Cancelled {
		t.Errorf("completes = %+v", completes)
	}
	if completes[0].Summary != summary {
		t.Error("complete callback should carry the final summary")
	}
}

func TestPipelineRunCancellation(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		writeJPEGFile(t, filepath.Join(dir, name), noisy(64, 64), 100)
	}

	cfg := testConfig(filepath.Join(dir, "optimized"))
	cfg.JPEG.Quality = 40

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var done []CompleteInfo
	p, err := New(cfg, Options{
		Callbacks: Callbacks{
			OnOutcome:  func(report.Outcome) { cancel() },
			OnComplete: func(info CompleteInfo) { done = append(done, info) },
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	outcomes, summary, err := p.Run(ctx, []string{dir})
	if err != nil {
		t.Fatalf("cancellation must not surface as an error: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("outcomes = %d, want 1 (cancel lands before the second file)", len(outcomes))
	}
	if summary.TotalFiles != 1 {
		t.Errorf("summary covers %d files, want 1", summary.TotalFiles)
	}
	if len(done) != 1 || !done[0].Cancelled {
		t.Errorf("complete callback = %+v, want cancelled", done)
	}
}

func TestPipelineNewValidates(t *testing.T) {
	cfg := config.Default() // output dir missing
	if _, err := New(cfg, Options{}); !errors.Is(err, config.ErrOutputDirRequired) {
		t.Errorf("err = %v, want ErrOutputDirRequired", err)
	}
}

func TestPipelineErrorBecomesOutcome(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(broken, []byte("\xff\xd8 junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeJPEGFile(t, filepath.Join(dir, "good.jpg"), noisy(96, 96), 100)

	cfg := testConfig(filepath.Join(dir, "optimized"))
	cfg.JPEG.Quality = 40

	var failures []ErrorInfo
	p, err := New(cfg, Options{
		Callbacks: Callbacks{
			OnError: func(info ErrorInfo) { failures = append(failures, info) },
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	outcomes, summary, err := p.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("a bad file must not abort the batch: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(outcomes))
	}
	if len(failures) != 1 || failures[0].Path != broken {
		t.Errorf("failures = %+v", failures)
	}
	if outcomes[0].Changed || outcomes[0].SkipReason == "" {
		t.Errorf("broken file outcome = %+v, want error skip", outcomes[0])
	}
	if !outcomes[1].Changed {
		t.Errorf("good file outcome = %+v, want processed", outcomes[1])
	}
	if summary.Processed != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestPipelineDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	writeJPEGFile(t, filepath.Join(dir, "a.jpg"), noisy(96, 96), 100)

	out := filepath.Join(dir, "optimized")
	cfg := testConfig(out)
	cfg.JPEG.Quality = 40
	cfg.DryRun = true

	p, err := New(cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}
	outcomes, _, err := p.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 1 || !outcomes[0].Changed {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("dry run must not create the output dir")
	}
}

func TestPipelineExcludesOwnOutput(t *testing.T) {
	dir := t.TempDir()
	writeJPEGFile(t, filepath.Join(dir, "a.jpg"), noisy(96, 96), 100)
	out := filepath.Join(dir, "optimized")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	writeJPEGFile(t, filepath.Join(out, "old_optimized.jpg"), noisy(64, 64), 100)

	cfg := testConfig(out)
	cfg.JPEG.Quality = 40

	p, err := New(cfg, Options{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	outcomes, _, err := p.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("outcomes = %d, want 1 (output dir must not be rescanned)", len(outcomes))
	}
	if filepath.Base(outcomes[0].SrcPath) != "a.jpg" {
		t.Errorf("processed %q, want a.jpg", outcomes[0].SrcPath)
	}
}
