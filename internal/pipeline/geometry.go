package pipeline

import (
	"math"

	"imgopt/internal/config"
)

// ratioTolerance is how close the current aspect ratio must be to the
// target before a crop is considered pointless.
const ratioTolerance = 1e-6

// cropSize returns the dimensions of a centered crop matching the target
// aspect ratio, and whether cropping is needed at all.
func cropSize(w, h int, ratio float64) (int, int, bool) {
	if ratio <= 0 || w <= 0 || h <= 0 {
		return w, h, false
	}
	current := float64(w) / float64(h)
	if math.Abs(current-ratio) < ratioTolerance {
		return w, h, false
	}
	if current > ratio {
		// too wide, trim the sides
		cw := int(math.Round(float64(h) * ratio))
		if cw < 1 {
			cw = 1
		}
		return cw, h, true
	}
	// too tall, trim top and bottom
	ch := int(math.Round(float64(w) / ratio))
	if ch < 1 {
		ch = 1
	}
	return w, ch, true
}

// resizeSize computes the output dimensions for the configured resize
// policy and whether a resize is needed. An explicit scale percentage wins
// over the bounding box. Upscales are suppressed unless allowed.
func resizeSize(w, h int, cfg config.Config) (int, int, bool) {
	if w <= 0 || h <= 0 {
		return w, h, false
	}

	if cfg.ScalePercent > 0 {
		if cfg.ScalePercent > 100 && !cfg.AllowUpscale {
			return w, h, false
		}
		tw := int(float64(w) * cfg.ScalePercent / 100)
		th := int(float64(h) * cfg.ScalePercent / 100)
		if tw < 1 {
			tw = 1
		}
		if th < 1 {
			th = 1
		}
		if tw == w && th == h {
			return w, h, false
		}
		return tw, th, true
	}

	if cfg.MaxWidth <= 0 && cfg.MaxHeight <= 0 {
		return w, h, false
	}
	boundW, boundH := cfg.MaxWidth, cfg.MaxHeight
	if boundW <= 0 {
		boundW = w
	}
	if boundH <= 0 {
		boundH = h
	}
	scale := math.Min(float64(boundW)/float64(w), float64(boundH)/float64(h))
	if scale >= 1 && !cfg.AllowUpscale {
		return w, h, false
	}
	tw := int(float64(w) * scale)
	th := int(float64(h) * scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	if tw == w && th == h {
		return w, h, false
	}
	return tw, th, true
}
