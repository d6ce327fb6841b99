package panel

import "fmt"

// TransportError is a failed write or read on the transport.
type TransportError struct {
	Op   string
	Data []byte
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("panel: %s % x: %v", e.Op, e.Data, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// CommandWriteError is returned when a command table entry failed on every
// attempt of the retry budget. Entries after Index were not attempted.
type CommandWriteError struct {
	Index    int
	Op       RegisterOp
	Attempts int
	Err      error
}

func (e *CommandWriteError) Error() string {
	return fmt.Sprintf("panel: command %d (%s) failed after %d attempts: %v", e.Index, e.Op, e.Attempts, e.Err)
}

func (e *CommandWriteError) Unwrap() error { return e.Err }

// Transition is a lifecycle transition.
type Transition uint8

// Transitions.
const (
	TransitionPrepare Transition = iota
	TransitionEnable
	TransitionDisable
	TransitionUnprepare
)

func (t Transition) String() string {
	switch t {
	case TransitionPrepare:
		return "prepare"
	case TransitionEnable:
		return "enable"
	case TransitionDisable:
		return "disable"
	case TransitionUnprepare:
		return "unprepare"
	default:
		return "unknown"
	}
}

// TransitionError wraps the cause of a failed lifecycle transition.
type TransitionError struct {
	Transition Transition
	Err        error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("panel: %s failed: %v", e.Transition, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }
