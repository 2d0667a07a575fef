package config

import (
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Format selects the output image format.
type Format string

const (
	// FormatKeep keeps the format implied by the source extension.
	FormatKeep Format = "keep"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// RGB is a flatten background color.
type RGB [3]uint8

// Config holds all user-configurable knobs for one batch run.
// It is a pure data object with value semantics: functions that adjust it
// (Normalized, ApplyPreset) return a new value and never mutate a shared one.
type Config struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`

	Format    Format `mapstructure:"format" yaml:"format" json:"format" default:"keep" validate:"oneof=keep jpeg png webp"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite" json:"overwrite"`

	// OnlyIfSmaller discards a re-encoded result unless it is byte-smaller
	// than the source.
	OnlyIfSmaller bool `mapstructure:"only_if_smaller" yaml:"only_if_smaller" json:"only_if_smaller" default:"true"`

	// WriteEvenIfBiggerWhenStripping keeps the output despite the size gate
	// when metadata stripping is active, so stripping is guaranteed to happen
	// regardless of the size outcome.
	WriteEvenIfBiggerWhenStripping bool `mapstructure:"write_even_if_bigger_when_stripping" yaml:"write_even_if_bigger_when_stripping" json:"write_even_if_bigger_when_stripping"`

	// Suffix is appended to the source stem: photo.jpg -> photo_optimized.jpg.
	Suffix string `mapstructure:"suffix" yaml:"suffix" json:"suffix" default:"_optimized"`

	StripMetadata bool `mapstructure:"strip_metadata" yaml:"strip_metadata" json:"strip_metadata" default:"true"`
	AutoOrient    bool `mapstructure:"auto_orient" yaml:"auto_orient" json:"auto_orient" default:"true"`

	// Resize controls. Zero values mean "unset". ScalePercent takes
	// precedence over the max bounds.
	MaxWidth     int     `mapstructure:"max_width" yaml:"max_width" json:"max_width" validate:"min=0"`
	MaxHeight    int     `mapstructure:"max_height" yaml:"max_height" json:"max_height" validate:"min=0"`
	ScalePercent float64 `mapstructure:"scale_percent" yaml:"scale_percent" json:"scale_percent" validate:"min=0"`
	AllowUpscale bool    `mapstructure:"allow_upscale" yaml:"allow_upscale" json:"allow_upscale"`

	// CropRatio is a width/height target for center cropping.
	// Values <= 0 disable cropping.
	CropRatio float64 `mapstructure:"crop_ratio" yaml:"crop_ratio" json:"crop_ratio"`

	JPEG JPEGOptions `mapstructure:"jpeg" yaml:"jpeg" json:"jpeg"`
	PNG  PNGOptions  `mapstructure:"png" yaml:"png" json:"png"`
	WebP WebPOptions `mapstructure:"webp" yaml:"webp" json:"webp"`

	// Background is the flatten color used when an image with alpha is
	// encoded to JPEG.
	Background RGB `mapstructure:"background" yaml:"background" json:"background"`

	DryRun              bool `mapstructure:"dry_run" yaml:"dry_run" json:"dry_run"`
	SkipAlreadySuffixed bool `mapstructure:"skip_already_suffixed" yaml:"skip_already_suffixed" json:"skip_already_suffixed"`
}

// JPEGOptions are the JPEG encoder parameters.
type JPEGOptions struct {
	Quality     int  `mapstructure:"quality" yaml:"quality" json:"quality" default:"82" validate:"min=1,max=100"`
	Progressive bool `mapstructure:"progressive" yaml:"progressive" json:"progressive" default:"true"`
	Optimize    bool `mapstructure:"optimize" yaml:"optimize" json:"optimize" default:"true"`
}

// PNGOptions are the PNG encoder parameters.
type PNGOptions struct {
	CompressLevel int  `mapstructure:"compress_level" yaml:"compress_level" json:"compress_level" default:"9" validate:"min=0,max=9"`
	Optimize      bool `mapstructure:"optimize" yaml:"optimize" json:"optimize" default:"true"`
}

// WebPOptions are the WebP encoder parameters.
type WebPOptions struct {
	Quality  int  `mapstructure:"quality" yaml:"quality" json:"quality" default:"80" validate:"min=1,max=100"`
	Lossless bool `mapstructure:"lossless" yaml:"lossless" json:"lossless"`
	Method   int  `mapstructure:"method" yaml:"method" json:"method" default:"4" validate:"min=0,max=6"`
}

// Default returns the baseline configuration.
func Default() Config {
	var c Config
	defaults.MustSet(&c)
	c.Background = RGB{255, 255, 255}
	return c
}

// Normalized returns a copy with derived corrections applied: stripping
// metadata forces auto-orient on, because without the orientation tag the
// pixels must already be rotated for display.
func (c Config) Normalized() Config {
	if c.StripMetadata {
		c.AutoOrient = true
	}
	return c
}

var validate = validator.New()

// Validate reports configuration errors. It is meant to run before any file
// is processed so bad settings fail the run eagerly.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
