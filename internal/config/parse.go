package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRatio parses a crop ratio given either as "W:H" (e.g. "16:9") or as a
// decimal number (e.g. "1.5"). An empty string means no cropping and parses
// to zero.
func ParseRatio(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
		}
		if h == 0 {
			return 0, fmt.Errorf("%w: %q", ErrZeroDenominator, s)
		}
		return w / h, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	return v, nil
}

// ParseBackground parses an "R,G,B" color string with 0-255 components.
func ParseBackground(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidBackground, s)
	}
	var rgb RGB
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidBackground, s)
		}
		rgb[i] = uint8(v)
	}
	return rgb, nil
}
