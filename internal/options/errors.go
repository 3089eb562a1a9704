package options

import "errors"

var (
	// ErrMissingDirectory indicates the required project directory option was not supplied
	ErrMissingDirectory = errors.New("missing required option: directory")
	// ErrInvalidOption indicates an option value could not be coerced to its type
	ErrInvalidOption = errors.New("invalid option value")
)
