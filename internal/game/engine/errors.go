package engine

import (
	"errors"
	"fmt"
)

// ErrNoHandler indicates dispatch found no handler for the game's state and
// the submitted action kind. The registry wiring makes this unreachable for
// permitted actions, so it surfaces as a server fault, not a client error.
var ErrNoHandler = errors.New("no handler for state and action")

// IllegalActionError reports an action that is permitted in the current
// state but carries an invalid payload, such as a wrong die count.
type IllegalActionError struct {
	Reason string
}

func (e *IllegalActionError) Error() string {
	return "illegal action: " + e.Reason
}

func illegalActionf(format string, args ...any) error {
	return &IllegalActionError{Reason: fmt.Sprintf(format, args...)}
}

// IsIllegalAction reports whether err is a handler rejection that should be
// surfaced to the client rather than treated as a server fault.
func IsIllegalAction(err error) bool {
	var target *IllegalActionError
	return errors.As(err, &target)
}
