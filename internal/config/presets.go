package config

import (
	"fmt"
	"sort"
	"strings"
)

// Preset derives a new configuration from a base by overriding a few fields.
// Apply is a pure function: it takes the base by value and returns the
// adjusted copy.
type Preset struct {
	Name        string
	Description string
	Apply       func(Config) Config
}

// Built-in presets.
var presets = map[string]Preset{
	"blog": {
		Name:        "blog",
		Description: "article images: max 1600px wide, JPEG quality 82, metadata stripped",
		Apply: func(c Config) Config {
			c.JPEG.Quality = 82
			c.StripMetadata = true
			c.MaxWidth = 1600
			c.Format = FormatKeep
			return c
		},
	},
	"ecommerce": {
		Name:        "ecommerce",
		Description: "product shots: max 2000px wide, JPEG quality 88, metadata stripped",
		Apply: func(c Config) Config {
			c.JPEG.Quality = 88
			c.StripMetadata = true
			c.MaxWidth = 2000
			return c
		},
	},
	"aggressive": {
		Name:        "aggressive",
		Description: "smallest files: JPEG quality 70, metadata stripped, only written when smaller",
		Apply: func(c Config) Config {
			c.JPEG.Quality = 70
			c.StripMetadata = true
			c.OnlyIfSmaller = true
			return c
		},
	},
	"webp": {
		Name:        "webp",
		Description: "convert everything to WebP at quality 80, metadata stripped",
		Apply: func(c Config) Config {
			c.Format = FormatWebP
			c.WebP.Quality = 80
			c.StripMetadata = true
			return c
		},
	},
}

// ApplyPreset returns base with the named preset's overrides applied.
func ApplyPreset(name string, base Config) (Config, error) {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return base, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p.Apply(base), nil
}

// Presets returns the built-in presets sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
