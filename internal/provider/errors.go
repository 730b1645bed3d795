package provider

import (
	"errors"
	"fmt"
)

var (
	ErrConnectionClosed = errors.New("connection is closed")
	ErrWriteTimeout     = errors.New("write timed out")
	ErrUnexpectedFrame  = errors.New("unexpected frame before welcome")
)

// ServiceError is a rejection sent by the realtime service, typically
// in response to a join.
type ServiceError struct {
	Code int
	Msg  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("realtime service error: code %d: %s", e.Code, e.Msg)
}

// StatusCode returns the service business code.
func (e *ServiceError) StatusCode() int { return e.Code }
