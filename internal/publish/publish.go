package publish

import (
	"context"
	"fmt"
)

// Channel is a connected publish channel. Send hands one frame to the
// transport; completion of Send confirms the frame was accepted. Close
// releases the channel and must be called exactly once per session.
type Channel interface {
	Send(ctx context.Context, frame []byte) error
	Close() error
}

// Opener opens a publish channel to the configured transport endpoint
type Opener interface {
	Open(ctx context.Context) (Channel, error)
}

// TransportError indicates a failure to open the publish channel or to
// hand a frame to it
type TransportError struct {
	Op  string // "open" or "send"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("publish transport %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
