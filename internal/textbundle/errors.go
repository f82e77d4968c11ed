package textbundle

import "errors"

// ErrInvalidBundle is matched by every structural parse failure.
var ErrInvalidBundle = errors.New("invalid textbundle")

// ErrTextEncoding is matched when DecodeStrict rejects a text file that is
// not valid UTF-8.
var ErrTextEncoding = errors.New("text is not valid UTF-8")

// InvalidBundleError describes why a tree was rejected. Err, when set, is a
// more specific cause.
type InvalidBundleError struct {
	Reason string
	Err    error
}

func (e *InvalidBundleError) Error() string {
	return "invalid textbundle: " + e.Reason
}

// Unwrap lets errors.Is match ErrInvalidBundle and the specific cause.
func (e *InvalidBundleError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidBundle}
	}
	return []error{ErrInvalidBundle, e.Err}
}

func invalid(reason string) error {
	return &InvalidBundleError{Reason: reason}
}
