package yql

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidArgument is returned when a caller passes arguments that can
	// never produce a valid query, such as an empty ticker list or a malformed date.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoResults is the cause of a RequestError when the service answered
	// but returned no rows.
	ErrNoResults = errors.New("no results")
)

// RequestError reports a request the service could not satisfy.
type RequestError struct {
	Message string
	// Ticker is set when the failure is tied to a single ticker.
	Ticker string
	Err    error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	b.WriteString("unable to process the request")
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil && !errors.Is(e.Err, ErrNoResults) {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RequestError) Unwrap() error { return e.Err }

// AsRequestError extracts *RequestError.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
