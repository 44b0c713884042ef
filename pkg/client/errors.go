package client

import (
	"errors"
	"fmt"
)

// ErrNoFile is returned when a submission is attempted without a selected file.
var ErrNoFile = errors.New("no image selected")

// StatusError reports a non-2xx response from the prediction endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Server error: %d", e.Code)
}

// AppError is a well-formed response that carries an error field.
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Error kinds reported by Kind
const (
	KindNone         = "success"
	KindMissingInput = "missing_input"
	KindStatus       = "status"
	KindApplication  = "application"
	KindTransport    = "transport"
)

// Kind classifies err for logs and metrics. The form renders every kind the same way.
func Kind(err error) string {
	if err == nil {
		return KindNone
	}

	var statusErr *StatusError
	var appErr *AppError

	switch {
	case errors.Is(err, ErrNoFile):
		return KindMissingInput
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &appErr):
		return KindApplication
	default:
		return KindTransport
	}
}
