package notify

// Event type discriminators carried in the "type" field of every payload
const (
	TypeStatus       = "status"
	TypeWelcome      = "welcome"
	TypeFilesUpdated = "files-updated"
)

// StatusEvent carries the full current-visible playback state, never a
// delta the observer must reconcile
type StatusEvent struct {
	Type        string `json:"type"`
	Playing     bool   `json:"playing"`
	CurrentFile string `json:"currentFile,omitempty"`
}

// NewStatusEvent builds a status event snapshot
func NewStatusEvent(playing bool, currentFile string) StatusEvent {
	e := StatusEvent{
		Type:    TypeStatus,
		Playing: playing,
	}
	if playing {
		e.CurrentFile = currentFile
	}
	return e
}

// WelcomeEvent is sent once to each freshly connected observer
type WelcomeEvent struct {
	Type    string `json:"type"`
	Version string `json:"version"`
}

// NewWelcomeEvent builds a welcome event
func NewWelcomeEvent(version string) WelcomeEvent {
	return WelcomeEvent{
		Type:    TypeWelcome,
		Version: version,
	}
}

// FilesUpdatedEvent signals that the sample library contents changed
type FilesUpdatedEvent struct {
	Type string `json:"type"`
}

// NewFilesUpdatedEvent builds a files-updated event
func NewFilesUpdatedEvent() FilesUpdatedEvent {
	return FilesUpdatedEvent{Type: TypeFilesUpdated}
}
