package plan

import "errors"

var (
	// ErrLocaleNotFound indicates a requested locale has no dictionary file
	ErrLocaleNotFound = errors.New("locale dictionary not found")
	// ErrInvalidLocale indicates a locale identifier or dictionary could not be used
	ErrInvalidLocale = errors.New("invalid locale")
	// ErrInvalidOverride indicates the override script produced unusable output
	ErrInvalidOverride = errors.New("invalid override output")
)
