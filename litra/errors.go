package litra

import (
	"errors"

	commonerrors "github.com/gruntwork-io/go-commons/errors"
)

var (
	// ErrLightNotFound is returned when no connected light has the requested serial number.
	ErrLightNotFound = errors.New("light not found")

	// ErrBrightnessOutOfRange is returned when a brightness falls outside the model's range.
	ErrBrightnessOutOfRange = errors.New("brightness out of range")
)

// IsLightNotFound reports whether err, possibly wrapped with a stack trace, is ErrLightNotFound.
func IsLightNotFound(err error) bool {
	return errors.Is(commonerrors.Unwrap(err), ErrLightNotFound)
}
