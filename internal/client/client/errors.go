package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// ServerError is an error response from the server. Message is meant for
// the user as is.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
