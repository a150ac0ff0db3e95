package registry

import "fmt"

// Status is the closed set of lifecycle states for a tracked file.
type Status int

const (
	StatusUnknown Status = iota
	StatusProcessing
	StatusOK
	StatusError
	StatusFixed
)

var statusNames = map[Status]string{
	StatusUnknown:    "unknown",
	StatusProcessing: "processing",
	StatusOK:         "ok",
	StatusError:      "error",
	StatusFixed:      "fixed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether the status is a resting state for a record.
func (s Status) Terminal() bool {
	return s == StatusOK || s == StatusError || s == StatusFixed
}

// validTransitions enumerates the state machine. Every terminal state can
// re-enter processing (re-detection, fix attempt); processing resolves to
// one of the terminal states.
var validTransitions = map[Status][]Status{
	StatusUnknown:    {StatusProcessing},
	StatusProcessing: {StatusOK, StatusError, StatusFixed},
	StatusOK:         {StatusProcessing},
	StatusError:      {StatusProcessing},
	StatusFixed:      {StatusProcessing},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
