package model

import (
	"errors"
	"fmt"
)

// Error taxonomy for scenario generation. Producers wrap one of these
// sentinels; callers match with errors.Is.
var (
	// ErrConfig marks missing or zero configuration that leaves normalization
	// or sampling ill-defined.
	ErrConfig = errors.New("config error")
	// ErrDataShape marks raw table dimensions that disagree with the
	// configured horizon or cluster size.
	ErrDataShape = errors.New("data shape error")
	// ErrMissingProfile marks a referenced bus without a cached profile or
	// load multiplier.
	ErrMissingProfile = errors.New("missing profile")
)

func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

func DataShapeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataShape, fmt.Sprintf(format, args...))
}

func MissingProfileErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMissingProfile, fmt.Sprintf(format, args...))
}
