package bq

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrInvalidArgument is wrapped by every rejection of caller input.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUnavailable is wrapped by failures to reach BigQuery.
var ErrUnavailable = errors.New("bigquery unavailable")

// Error is a rejection whose message is returned to callers as-is.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return ErrInvalidArgument }

func invalidf(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// UnavailableError keeps the message of the underlying failure and matches
// both it and ErrUnavailable.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string { return e.Err.Error() }

func (e *UnavailableError) Unwrap() []error { return []error{ErrUnavailable, e.Err} }

// classify marks transport failures and 502/503/504 API responses as
// ErrUnavailable. Context cancellation and deadlines pass through unchanged.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return &UnavailableError{Err: err}
		}
		return err
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return &UnavailableError{Err: err}
	}
	return err
}
