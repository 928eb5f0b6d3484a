package document

import "fmt"

type ErrorKind string

const (
	ErrShape           ErrorKind = "invalid_shape"
	ErrUnknownTemplate ErrorKind = "unknown_template"
	ErrTitle           ErrorKind = "invalid_title"
	ErrSubtitle        ErrorKind = "subtitle_too_long"
	ErrMomentsShape    ErrorKind = "moments_not_list"
	ErrMomentsCount    ErrorKind = "too_many_moments"
	ErrPhotosShape     ErrorKind = "photos_not_list"
	ErrPhotosCount     ErrorKind = "too_many_photos"
)

// ValidationError is returned for input that must be corrected by the client.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func invalid(kind ErrorKind, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}
