package playback

// State represents the playback state machine:
// Idle --start--> Playing --(stop | finish | error)--> Idle.
// Stopping is transient and only ever observed by a status read racing a
// teardown; it covers the window between a stop or replace request and
// confirmed resource release.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateStopping
)

// String returns the human-readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Status is a point-in-time snapshot of the current session
type Status struct {
	State       State
	Playing     bool
	CurrentFile string
	BytesSent   uint64
	SessionID   uint64
}
