package playback

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an unknown sample source reference
var ErrNotFound = errors.New("unknown sample source")

// DecodeError indicates a source that resolved but could not be decoded
// into samples
type DecodeError struct {
	Ref string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode sample source %s: %v", e.Ref, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
