package batch

import (
	"strings"

	"github.com/pkg/errors"
)

// FloatWidth selects the floating point type of the masks. It must match the
// precision the training graph is built with.
type FloatWidth string

const (
	Float32 FloatWidth = "float32"
	Float64 FloatWidth = "float64"
)

// ErrUnsupportedFloatWidth is returned for a FloatWidth other than Float32 or Float64.
var ErrUnsupportedFloatWidth = errors.New("unsupported float width")

// Config holds the batch preparation settings.
type Config struct {
	// FloatWidth of the masks. Empty means Float32.
	FloatWidth FloatWidth
}

// DefaultConfig returns a Config producing float32 masks.
func DefaultConfig() Config {
	return Config{FloatWidth: Float32}
}

// ParseFloatWidth accepts "float32"/"f32"/"32" and "float64"/"f64"/"64".
func ParseFloatWidth(s string) (FloatWidth, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32", "f32", "32":
		return Float32, nil
	case "float64", "f64", "64":
		return Float64, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFloatWidth, "%q", s)
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.FloatWidth {
	case Float32, Float64:
		return nil
	}
	return errors.Wrapf(ErrUnsupportedFloatWidth, "%q", string(c.FloatWidth))
}
