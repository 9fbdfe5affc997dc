package core

// State is the recorder/player lifecycle state.
type State int

const (
	StateIdle State = iota
	StateError
	StateRecording
	StatePlayback
	StateFinishedPlayback
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateError:
		return "ERROR"
	case StateRecording:
		return "RECORDING"
	case StatePlayback:
		return "PLAYBACK"
	case StateFinishedPlayback:
		return "FINISHED_PLAYBACK"
	default:
		return "UNKNOWN"
	}
}
