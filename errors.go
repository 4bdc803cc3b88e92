package doctext

import "errors"

var (
	// ErrUnsupportedFormat is returned when no extractor handles a file's
	// extension.
	ErrUnsupportedFormat = errors.New("doctext: unsupported document format")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("doctext: invalid configuration")
)
