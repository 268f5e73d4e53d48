package artifact

import "errors"

// notFoundError signals that no artifact exists at the resolved path.
type notFoundError struct{ path string }

func (e notFoundError) Error() string { return "model artifact not found: " + e.path }

// IsNotFound reports whether err indicates a missing artifact file.
func IsNotFound(err error) bool {
	var e notFoundError
	return errors.As(err, &e)
}

// corruptError signals that the artifact exists but cannot be used.
type corruptError struct {
	path string
	err  error
}

func (e corruptError) Error() string {
	return "model artifact corrupt: " + e.path + ": " + e.err.Error()
}

func (e corruptError) Unwrap() error { return e.err }

// IsCorrupt reports whether err indicates an unreadable or malformed artifact.
func IsCorrupt(err error) bool {
	var e corruptError
	return errors.As(err, &e)
}
