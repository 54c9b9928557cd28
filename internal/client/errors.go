package client

import (
	"errors"
	"fmt"
)

// ErrNetwork wraps every failed call to the game server: transport errors,
// non-2xx statuses and unreadable bodies.
var ErrNetwork = errors.New("client: game server unreachable")

// StatusError is a non-2xx response from the game server.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: HTTP %d: %s", e.StatusCode, e.Body)
}

// Unwrap makes every status error match ErrNetwork.
func (e *StatusError) Unwrap() error {
	return ErrNetwork
}

// IsClientError reports a 4xx status.
func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

func networkErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrNetwork, op, err)
}
