package constants

import (
	"errors"
	"net/http"
)

// CodedError is an error that knows which HTTP status it maps to.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrNotFound          = NewCodedError("not found", http.StatusNotFound)
	ErrDuplicateResult   = NewCodedError("draw result already exists", http.StatusConflict)
	ErrSourceUnavailable = NewCodedError("upstream source unavailable", http.StatusBadGateway)
	ErrMalformedSource   = NewCodedError("malformed upstream source", http.StatusInternalServerError)
	ErrUnknownGame       = NewCodedError("unknown game", http.StatusBadRequest)
	ErrBadRequest        = NewCodedError("bad request", http.StatusBadRequest)
	ErrUnauthorized      = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrMissingAuthCookie = NewCodedError("missing auth cookie", http.StatusUnauthorized)
)

// ErrDBNotFound is kept as the store-facing name of ErrNotFound.
var ErrDBNotFound = ErrNotFound

// CodeOf returns the status of the first CodedError in the chain, or 500.
func CodeOf(err error) int {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return http.StatusInternalServerError
}
