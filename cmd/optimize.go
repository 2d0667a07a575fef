package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"imgopt/internal/config"
	"imgopt/internal/pipeline"
	"imgopt/internal/report"
	"imgopt/internal/tui"
)

var (
	optOutDir          string
	optFormat          string
	optPreset          string
	optConfigFile      string
	optRecursive       bool
	optOverwrite       bool
	optOnlyIfSmaller   bool
	optWriteBigger     bool
	optSuffix          string
	optStripMetadata   bool
	optNoAutoOrient    bool
	optMaxWidth        int
	optMaxHeight       int
	optScale           float64
	optAllowUpscale    bool
	optCropRatio       string
	optJPEGQuality     int
	optJPEGProgressive bool
	optJPEGOptimize    bool
	optPNGLevel        int
	optPNGOptimize     bool
	optWebPQuality     int
	optWebPLossless    bool
	optWebPMethod      int
	optBackground      string
	optDryRun          bool
	optSkipSuffixed    bool
	optQuiet           bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [flags] <inputs...>",
	Short: "Re-encode, resize and crop images into an output directory",
	Long: `Optimizes every given image file and every image inside given directories
(jpg, jpeg, png, webp), writing results and a report.json/report.csv pair
into the output directory.

Settings are layered: built-in defaults, then an optional --config file,
then an optional --preset, then explicit flags. Files that would not get
smaller are skipped unless stripping metadata demands the write.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOptimize,
}

func init() {
	f := optimizeCmd.Flags()
	f.StringVarP(&optOutDir, "out", "o", "./optimized", "output directory")
	f.StringVar(&optFormat, "format", "keep", "output format (keep, jpeg, png, webp)")
	f.StringVar(&optPreset, "preset", "", "apply a built-in preset (see 'imgopt presets')")
	f.StringVar(&optConfigFile, "config", "", "YAML or JSON config file")
	f.BoolVarP(&optRecursive, "recursive", "r", false, "walk directories recursively")
	f.BoolVar(&optOverwrite, "overwrite", false, "replace existing output files instead of numbering")
	f.BoolVar(&optOnlyIfSmaller, "only-if-smaller", true, "skip results that are not byte-smaller than the source")
	f.BoolVar(&optWriteBigger, "write-bigger-when-stripping", false, "keep bigger results when metadata stripping is on")
	f.StringVar(&optSuffix, "suffix", "_optimized", "suffix appended to output file stems")
	f.BoolVar(&optStripMetadata, "strip-metadata", true, "drop EXIF and ICC metadata")
	f.BoolVar(&optNoAutoOrient, "no-auto-orient", false, "do not bake EXIF orientation into pixels")
	f.IntVar(&optMaxWidth, "max-width", 0, "fit result within this width (0 = unbounded)")
	f.IntVar(&optMaxHeight, "max-height", 0, "fit result within this height (0 = unbounded)")
	f.Float64Var(&optScale, "scale", 0, "scale to this percent of the original (overrides max bounds)")
	f.BoolVar(&optAllowUpscale, "allow-upscale", false, "permit enlarging images")
	f.StringVar(&optCropRatio, "crop-ratio", "", "center-crop to ratio, e.g. 16:9 or 1.5")
	f.IntVar(&optJPEGQuality, "jpeg-quality", 82, "JPEG quality 1-100")
	f.BoolVar(&optJPEGProgressive, "jpeg-progressive", true, "progressive JPEG (needs jpegtran)")
	f.BoolVar(&optJPEGOptimize, "jpeg-optimize", true, "optimize JPEG huffman tables (needs jpegtran)")
	f.IntVar(&optPNGLevel, "png-compress-level", 9, "PNG compression level 0-9")
	f.BoolVar(&optPNGOptimize, "png-optimize", true, "force best PNG compression")
	f.IntVar(&optWebPQuality, "webp-quality", 80, "WebP quality 1-100")
	f.BoolVar(&optWebPLossless, "webp-lossless", false, "lossless WebP")
	f.IntVar(&optWebPMethod, "webp-method", 4, "WebP effort 0-6")
	f.StringVar(&optBackground, "background", "255,255,255", "flatten color for alpha to JPEG, R,G,B")
	f.BoolVar(&optDryRun, "dry-run", false, "compute projected sizes without writing images")
	f.BoolVar(&optSkipSuffixed, "skip-suffixed", false, "skip files whose stem already ends with the suffix")
	f.BoolVar(&optQuiet, "quiet", false, "no interactive progress, summary only")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	useTUI := !optQuiet && !cfg.DryRun
	plog := newLogger(useTUI)
	defer plog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The worker posts to the progress view over a channel; summary state
	// is captured via callbacks, never shared.
	events := make(chan tui.Event, 64)
	cancelled := false

	cbs := pipeline.Callbacks{
		OnComplete: func(ci pipeline.CompleteInfo) { cancelled = ci.Cancelled },
	}
	switch {
	case useTUI:
		cbs.OnFile = func(fi pipeline.FileInfo) {
			events <- tui.Event{Path: fi.Path, Index: fi.Index, Total: fi.Total}
		}
		cbs.OnOutcome = func(o report.Outcome) {
			events <- tui.Event{Outcome: &o}
		}
	case !optQuiet:
		// Dry runs print one plain line per file instead of the live view.
		cbs.OnOutcome = printOutcomeLine
	}

	p, err := pipeline.New(cfg, pipeline.Options{
		Recursive: optRecursive,
		Callbacks: cbs,
		Logger:    plog,
	})
	if err != nil {
		return err
	}

	uiDone := make(chan struct{})
	if useTUI {
		program := tea.NewProgram(tui.NewModel(events, cancel))
		go func() {
			_, _ = program.Run()
			// Keep draining so the worker never blocks on a dead view.
			for range events {
			}
			close(uiDone)
		}()
	} else {
		close(uiDone)
	}

	outcomes, summary, err := p.Run(ctx, args)
	close(events)
	<-uiDone
	if err != nil {
		return err
	}

	rep := report.Build(outcomes, summary)
	jsonPath := filepath.Join(cfg.OutputDir, "report.json")
	if err := report.WriteJSON(rep, jsonPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := report.WriteCSV(rep, filepath.Join(cfg.OutputDir, "report.csv")); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}

	printRunSummary(cfg, outcomes, summary, cancelled, time.Since(start), jsonPath)
	return nil
}

// buildConfig layers settings: defaults, config file, preset, then flags.
// Flags win, but only the ones actually set on the command line.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if optConfigFile != "" {
		loaded, err := config.LoadFile(optConfigFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if optPreset != "" {
		withPreset, err := config.ApplyPreset(optPreset, cfg)
		if err != nil {
			return config.Config{}, err
		}
		cfg = withPreset
	}

	f := cmd.Flags()
	if f.Changed("out") || cfg.OutputDir == "" {
		cfg.OutputDir = optOutDir
	}
	if f.Changed("format") {
		cfg.Format = config.Format(strings.ToLower(optFormat))
	}
	if f.Changed("overwrite") {
		cfg.Overwrite = optOverwrite
	}
	if f.Changed("only-if-smaller") {
		cfg.OnlyIfSmaller = optOnlyIfSmaller
	}
	if f.Changed("write-bigger-when-stripping") {
		cfg.WriteEvenIfBiggerWhenStripping = optWriteBigger
	}
	if f.Changed("suffix") {
		cfg.Suffix = optSuffix
	}
	if f.Changed("strip-metadata") {
		cfg.StripMetadata = optStripMetadata
	}
	if f.Changed("no-auto-orient") {
		cfg.AutoOrient = !optNoAutoOrient
	}
	if f.Changed("max-width") {
		cfg.MaxWidth = optMaxWidth
	}
	if f.Changed("max-height") {
		cfg.MaxHeight = optMaxHeight
	}
	if f.Changed("scale") {
		cfg.ScalePercent = optScale
	}
	if f.Changed("allow-upscale") {
		cfg.AllowUpscale = optAllowUpscale
	}
	if f.Changed("crop-ratio") {
		ratio, err := config.ParseRatio(optCropRatio)
		if err != nil {
			return config.Config{}, err
		}
		cfg.CropRatio = ratio
	}
	if f.Changed("jpeg-quality") {
		cfg.JPEG.Quality = optJPEGQuality
	}
	if f.Changed("jpeg-progressive") {
		cfg.JPEG.Progressive = optJPEGProgressive
	}
	if f.Changed("jpeg-optimize") {
		cfg.JPEG.Optimize = optJPEGOptimize
	}
	if f.Changed("png-compress-level") {
		cfg.PNG.CompressLevel = optPNGLevel
	}
	if f.Changed("png-optimize") {
		cfg.PNG.Optimize = optPNGOptimize
	}
	if f.Changed("webp-quality") {
		cfg.WebP.Quality = optWebPQuality
	}
	if f.Changed("webp-lossless") {
		cfg.WebP.Lossless = optWebPLossless
	}
	if f.Changed("webp-method") {
		cfg.WebP.Method = optWebPMethod
	}
	if f.Changed("background") {
		bg, err := config.ParseBackground(optBackground)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Background = bg
	}
	if f.Changed("dry-run") {
		cfg.DryRun = optDryRun
	}
	if f.Changed("skip-suffixed") {
		cfg.SkipAlreadySuffixed = optSkipSuffixed
	}

	return cfg, nil
}

func printOutcomeLine(o report.Outcome) {
	if o.Changed {
		fmt.Printf("  %s → %s  %s → %s  (saved %.2f%%)\n",
			o.SrcPath, filepath.Base(o.OutPath),
			tui.FormatBytes(o.SrcBytes), tui.FormatBytes(o.OutBytes), o.SavedPercent())
		return
	}
	fmt.Printf("  %s  skipped (%s)\n", o.SrcPath, o.SkipReason)
}

func printRunSummary(cfg config.Config, outcomes []report.Outcome, summary report.Summary, cancelled bool, elapsed time.Duration, reportPath string) {
	title := "optimize complete"
	if cfg.DryRun {
		title = "optimize dry run"
	}
	if cancelled {
		title += " [CANCELLED]"
	}

	rows := []tui.SummaryRow{
		{Label: "Files", Value: fmt.Sprintf("%d", summary.TotalFiles)},
		{Label: "Processed", Value: fmt.Sprintf("%d", summary.Processed)},
		{Label: "Skipped", Value: fmt.Sprintf("%d", summary.Skipped)},
		{Label: "Input size", Value: tui.FormatBytes(summary.TotalSrcBytes)},
		{Label: "Output size", Value: tui.FormatBytes(summary.TotalOutBytes)},
		{Label: "Saved", Value: fmt.Sprintf("%s (%.2f%%)", tui.FormatBytes(summary.SavedBytes()), summary.SavedPercent())},
		{Label: "Time", Value: elapsed.Round(time.Millisecond).String()},
	}

	fmt.Println()
	fmt.Println(tui.RenderSummary(title, rows))

	if breakdown := report.SkipBreakdown(outcomes); len(breakdown) > 0 {
		fmt.Println("Skipped by reason:")
		for _, rc := range breakdown {
			fmt.Printf("  %-24s %d\n", rc.Reason, rc.Count)
		}
	}
	fmt.Printf("Report: %s\n", reportPath)
}
