package engine

import "fmt"

// TransportError means no usable response reached the client: connection
// refused, DNS failure, timeout. The request may or may not have been seen
// by the engine, but no state change was observed; retrying is safe.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("engine unreachable during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError means the engine was reachable but declined the request,
// e.g. an illegal action or an unknown session. Detail carries the engine's
// own explanation when one was supplied.
type RejectedError struct {
	Op     string
	Status int
	Detail string
}

func (e *RejectedError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("engine rejected %s (HTTP %d): %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("engine rejected %s (HTTP %d)", e.Op, e.Status)
}

// MalformedError means a response arrived but does not satisfy the domain
// contract. This is a defect on one side of the wire, not a retryable
// user-facing condition.
type MalformedError struct {
	Op  string
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed engine response for %s: %v", e.Op, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }
