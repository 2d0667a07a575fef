package config

import "errors"

var (
	// ErrOutputDirRequired is returned when no output directory is set.
	ErrOutputDirRequired = errors.New("output directory is required")

	// ErrInvalidConfig is returned when a knob is out of its allowed range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidRatio is returned for crop ratio strings that do not parse.
	ErrInvalidRatio = errors.New("invalid crop ratio")

	// ErrZeroDenominator is returned for "W:0" style crop ratios.
	ErrZeroDenominator = errors.New("crop ratio denominator is zero")

	// ErrInvalidBackground is returned for background colors that are not
	// three 0-255 components.
	ErrInvalidBackground = errors.New("invalid background color")

	// ErrUnknownPreset is returned when a preset name is not built in.
	ErrUnknownPreset = errors.New("unknown preset")
)
