package coordinator

import (
	"errors"
	"fmt"
)

var (
	ErrNotJoined       = errors.New("classroom not joined")
	ErrAlreadyJoined   = errors.New("classroom already joined")
	ErrJoinCanceled    = errors.New("join canceled by leave")
	ErrChatRateLimited = errors.New("chat rate limit exceeded")

	// Join-sequence stage sentinels. AllocationFailed rolls the MAIN
	// join back; SubJoinFailed leaves MAIN joined.
	ErrMainJoinFailed   = errors.New("main session join failed")
	ErrAllocationFailed = errors.New("breakout allocation failed")
	ErrSubJoinFailed    = errors.New("breakout session join failed")
)

// Failure is the single aggregated error surfaced for a failed join
// sequence. It matches both its stage sentinel and the underlying
// cause through errors.Is/As.
type Failure struct {
	Stage  error
	Code   int
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	if f.Code != 0 {
		return fmt.Sprintf("%s: code %d: %s", f.Stage.Error(), f.Code, f.Reason)
	}
	return fmt.Sprintf("%s: %s", f.Stage.Error(), f.Reason)
}

func (f *Failure) Unwrap() []error {
	if f.Err != nil {
		return []error{f.Stage, f.Err}
	}
	return []error{f.Stage}
}

// statusCoder is implemented by errors that carry a service status
// code (the allocation client's status errors do).
type statusCoder interface {
	StatusCode() int
}

func newFailure(stage error, err error) *Failure {
	f := &Failure{Stage: stage, Reason: err.Error(), Err: err}
	var sc statusCoder
	if errors.As(err, &sc) {
		f.Code = sc.StatusCode()
	}
	return f
}
