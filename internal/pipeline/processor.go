package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// imaging registers jpeg, png, gif, tiff and bmp decoders itself;
	// webp sources need this one.
	_ "golang.org/x/image/webp"

	"imgopt/internal/config"
	"imgopt/internal/encoder"
	"imgopt/internal/hasher"
	"imgopt/internal/imgutil"
	"imgopt/internal/logging"
	"imgopt/internal/meta"
	"imgopt/internal/report"
)

// Skip reasons recorded in outcomes.
const (
	SkipUnsupportedExtension = "unsupported_extension"
	SkipAlreadySuffixed      = "already_suffixed"
	SkipNotSmaller           = "not_smaller"
)

// Transformer turns one source file into one optimized output file,
// applying the configured crop, resize, format conversion, metadata and
// encoding policy.
type Transformer struct {
	cfg      config.Config
	registry *encoder.Registry
	log      logging.Logger
}

// NewTransformer builds a transformer around a normalized copy of cfg.
func NewTransformer(cfg config.Config, registry *encoder.Registry, log logging.Logger) *Transformer {
	if registry == nil {
		registry = encoder.NewRegistry()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Transformer{cfg: cfg.Normalized(), registry: registry, log: log}
}

// Process runs the whole per-file pipeline. Skips come back as outcomes
// with a reason; unexpected failures come back as a *ProcessError and the
// outcome carries whatever was known by then.
func (t *Transformer) Process(path string) (report.Outcome, error) {
	outcome := report.Outcome{SrcPath: path}

	if !SupportedExtension(path) {
		return t.skip(outcome, SkipUnsupportedExtension), nil
	}
	if t.cfg.SkipAlreadySuffixed && t.cfg.Suffix != "" {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if strings.HasSuffix(stem, t.cfg.Suffix) {
			return t.skip(outcome, SkipAlreadySuffixed), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return outcome, &ProcessError{Path: path, Stage: StageRead, Err: err}
	}
	outcome.SrcBytes = int64(len(data))
	outcome.OutBytes = outcome.SrcBytes

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(t.cfg.AutoOrient))
	if err != nil {
		return outcome, &ProcessError{Path: path, Stage: StageDecode, Err: err}
	}

	srcExt := strings.ToLower(filepath.Ext(path))
	md := t.carryMetadata(path, data, srcExt)

	bounds := img.Bounds()
	if cw, ch, ok := cropSize(bounds.Dx(), bounds.Dy(), t.cfg.CropRatio); ok {
		img = imaging.CropCenter(img, cw, ch)
	}
	bounds = img.Bounds()
	if tw, th, ok := resizeSize(bounds.Dx(), bounds.Dy(), t.cfg); ok {
		img = imaging.Resize(img, tw, th, imaging.Lanczos)
	}

	format := encoder.ResolveFormat(string(t.cfg.Format), srcExt)
	enc := t.registry.Get(format)
	if enc == nil {
		return outcome, &ProcessError{Path: path, Stage: StageEncode,
			Err: fmt.Errorf("no encoder for format %q", format)}
	}
	outPath := outputPath(path, t.cfg.OutputDir, t.cfg.Suffix, enc.Extension(), t.cfg.Overwrite)

	// JPEG has no alpha channel, composite over the configured background.
	if format == "jpeg" && imgutil.HasAlpha(img) {
		img = imgutil.Flatten(img, t.cfg.Background)
	}

	encoded, err := enc.Encode(img, t.encodeOptions(format))
	if err != nil {
		return outcome, &ProcessError{Path: path, Stage: StageEncode, Err: err}
	}

	if !md.Empty() {
		embedded, err := embed(encoded, format, md, img)
		if err != nil {
			t.log.Warnf("writing %s without metadata: %v", outPath, err)
		} else {
			encoded = embedded
		}
	}

	if t.cfg.OnlyIfSmaller && int64(len(encoded)) >= outcome.SrcBytes {
		if !(t.cfg.StripMetadata && t.cfg.WriteEvenIfBiggerWhenStripping) {
			return t.skip(outcome, SkipNotSmaller), nil
		}
	}

	outcome.Changed = true
	outcome.OutPath = outPath
	outcome.OutBytes = int64(len(encoded))
	outcome.OutputHash = hasher.Sum(encoded)
	if t.cfg.DryRun {
		return outcome, nil
	}

	if err := t.finalize(outPath, encoded); err != nil {
		return outcome, &ProcessError{Path: path, Stage: StageWrite, Err: err}
	}
	if info, err := os.Stat(outPath); err == nil {
		outcome.OutBytes = info.Size()
	}
	return outcome, nil
}

// skip closes out an outcome without producing output. Source size is
// filled in from a stat if the file was never read.
func (t *Transformer) skip(outcome report.Outcome, reason string) report.Outcome {
	if outcome.SrcBytes == 0 {
		if info, err := os.Stat(outcome.SrcPath); err == nil {
			outcome.SrcBytes = info.Size()
		}
	}
	outcome.OutBytes = outcome.SrcBytes
	outcome.Changed = false
	outcome.OutPath = ""
	outcome.OutputHash = ""
	outcome.SkipReason = reason
	return outcome
}

// carryMetadata decides what metadata travels to the output. Stripping
// carries nothing. Otherwise EXIF and ICC come straight from the source
// bytes; if the pixels were auto-oriented the Orientation tag is rewritten
// to upright so viewers do not rotate them again. Orientation handling
// only applies to JPEG sources because that is the only container the
// decoder auto-orients.
func (t *Transformer) carryMetadata(path string, data []byte, srcExt string) meta.Metadata {
	if t.cfg.StripMetadata {
		return meta.Metadata{}
	}
	md := meta.Extract(data)
	if len(md.EXIF) == 0 || !t.cfg.AutoOrient {
		return md
	}
	if srcExt != ".jpg" && srcExt != ".jpeg" {
		return md
	}
	if meta.Orientation(md.EXIF) <= 1 {
		return md
	}
	neutral, err := meta.NeutralizeOrientation(md.EXIF)
	if err != nil {
		t.log.Warnf("dropping exif for %s: orientation rewrite failed: %v", path, err)
		md.EXIF = nil
		return md
	}
	md.EXIF = neutral
	return md
}

func (t *Transformer) encodeOptions(format string) encoder.Options {
	switch format {
	case "jpeg":
		return encoder.Options{
			Quality:     t.cfg.JPEG.Quality,
			Progressive: t.cfg.JPEG.Progressive,
			Optimize:    t.cfg.JPEG.Optimize,
		}
	case "png":
		return encoder.Options{
			CompressLevel: t.cfg.PNG.CompressLevel,
			Optimize:      t.cfg.PNG.Optimize,
		}
	case "webp":
		return encoder.Options{
			Quality:  t.cfg.WebP.Quality,
			Lossless: t.cfg.WebP.Lossless,
			Method:   t.cfg.WebP.Method,
		}
	default:
		return encoder.Options{}
	}
}

func embed(encoded []byte, format string, md meta.Metadata, img image.Image) ([]byte, error) {
	switch format {
	case "jpeg":
		return meta.EmbedJPEG(encoded, md)
	case "png":
		return meta.EmbedPNG(encoded, md)
	case "webp":
		b := img.Bounds()
		return meta.EmbedWebP(encoded, md, b.Dx(), b.Dy(), imgutil.HasAlpha(img))
	}
	return encoded, nil
}

// finalize writes encoded atomically: temp file in the destination
// directory, sync, then rename over the final name.
func (t *Transformer) finalize(outPath string, encoded []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(outPath), "imgopt-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := replaceFile(tmpPath, outPath); err != nil {
		return err
	}
	keep = true
	return nil
}
