package sector

import "github.com/pkg/errors"

var (
	ErrOutOfRange      = errors.New("sector out of range")
	ErrShortRead       = errors.New("short sector read")
	ErrInvalidGeometry = errors.New("invalid media geometry")
	ErrZeroCount       = errors.New("sector count must be positive")
)
