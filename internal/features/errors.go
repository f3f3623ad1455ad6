package features

import (
	"errors"
	"fmt"
)

// Error kinds returned by feature generators.
var (
	// ErrInvalidConfig is returned for empty or invalid arguments, missing
	// required columns, or a volume column listed as a price column.
	ErrInvalidConfig = errors.New("invalid feature configuration")

	// ErrDataQuality is returned when input values make a transform undefined,
	// e.g. a null or zero price under a log-return.
	ErrDataQuality = errors.New("data quality")
)

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func dataErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataQuality, fmt.Sprintf(format, args...))
}
