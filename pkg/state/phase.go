package state

// Phase is the notification state of a Store.
type Phase uint8

const (
	// PhaseUninitialized means Ready has not been called; mutations merge
	// without notifying.
	PhaseUninitialized Phase = iota
	// PhaseIdle means no notification is running or pending.
	PhaseIdle
	// PhaseMutating means a notification pass is running.
	PhaseMutating
	// PhaseFlushPending means a coalesced notification waits for the next frame.
	PhaseFlushPending
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "Uninitialized"
	case PhaseIdle:
		return "Idle"
	case PhaseMutating:
		return "Mutating"
	case PhaseFlushPending:
		return "FlushPending"
	default:
		return "Unknown"
	}
}
