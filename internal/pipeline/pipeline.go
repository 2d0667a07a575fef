package pipeline

import (
	"context"
	"fmt"
	"os"

	"imgopt/internal/config"
	"imgopt/internal/encoder"
	"imgopt/internal/logging"
	"imgopt/internal/report"
)

// Options tunes a batch run beyond the per-file configuration.
type Options struct {
	Recursive bool
	Callbacks Callbacks
	Logger    logging.Logger
}

// Pipeline orchestrates one optimization batch over many inputs.
type Pipeline struct {
	cfg  config.Config
	opts Options
	log  logging.Logger
	tf   *Transformer
}

// New validates cfg and builds a pipeline around it.
func New(cfg config.Config, opts Options) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	registry := encoder.NewRegistry()
	log.Debug(registry.String())

	return &Pipeline{
		cfg:  cfg,
		opts: opts,
		log:  log,
		tf:   NewTransformer(cfg, registry, log),
	}, nil
}

// Run enumerates the inputs and processes every file in order, returning
// one outcome per file plus the batch summary. Context cancellation stops
// between files; outcomes collected so far stay valid and are summarized.
func (p *Pipeline) Run(ctx context.Context, inputs []string) ([]report.Outcome, report.Summary, error) {
	// A dry run must leave the filesystem untouched, including the
	// output directory itself.
	if !p.cfg.DryRun {
		if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
			return nil, report.Summary{}, fmt.Errorf("create output dir: %w", err)
		}
	}

	files, err := Enumerate(inputs, p.opts.Recursive, p.cfg.OutputDir)
	if err != nil {
		return nil, report.Summary{}, err
	}
	total := len(files)
	p.log.Infof("optimizing %d files into %s", total, p.cfg.OutputDir)

	outcomes := make([]report.Outcome, 0, total)
	cancelled := false

	for i, path := range files {
		if ctx.Err() != nil {
			p.log.Warnf("cancelled after %d of %d files", i, total)
			cancelled = true
			break
		}
		callSafe(p.opts.Callbacks.OnProgress, ProgressInfo{Index: i + 1, Total: total})
		callSafe(p.opts.Callbacks.OnFile, FileInfo{Path: path, Index: i + 1, Total: total})

		out, err := p.tf.Process(path)
		switch {
		case err != nil:
			p.log.Warnf("process %s: %v", path, err)
			callSafe(p.opts.Callbacks.OnError, ErrorInfo{Path: path, Err: err})
			out = errorOutcome(path, out.SrcBytes, err)
		case out.Changed:
			p.log.Debugf("done %s: %d -> %d bytes", path, out.SrcBytes, out.OutBytes)
		default:
			p.log.Debugf("skip %s: %s", path, out.SkipReason)
		}
		outcomes = append(outcomes, out)
		callSafe(p.opts.Callbacks.OnOutcome, out)
	}

	summary := report.BuildSummary(outcomes)
	callSafe(p.opts.Callbacks.OnComplete, CompleteInfo{Summary: summary, Cancelled: cancelled})
	return outcomes, summary, nil
}

// errorOutcome converts a per-file failure into a skip entry so the batch
// report stays complete.
func errorOutcome(path string, srcBytes int64, err error) report.Outcome {
	return report.Outcome{
		SrcPath:    path,
		SrcBytes:   srcBytes,
		OutBytes:   srcBytes,
		SkipReason: fmt.Sprintf("error: %v", err),
	}
}
