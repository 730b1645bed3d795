package allocation

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBaseURL    = errors.New("allocation base url cannot be empty")
	ErrEmptyAppID      = errors.New("allocation app id cannot be empty")
	ErrNoBoardProvided = errors.New("no board provisioned for room")
)

// StatusError carries the service's business code so callers can tell
// "no group configured" apart from transport failures.
type StatusError struct {
	Code int
	Msg  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("allocation service rejected request: code %d: %s", e.Code, e.Msg)
}

// StatusCode returns the service business code.
func (e *StatusError) StatusCode() int { return e.Code }
