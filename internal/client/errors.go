package client

import "fmt"

// TransportError wraps network-level failures: connection refused,
// DNS errors, timeouts before a response arrived.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError reports a 5xx response from the control plane.
type ServerError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: server error %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: server error %d", e.Op, e.StatusCode)
}

// ValidationError reports a 4xx response, carrying the server's
// detail message when it sent one.
type ValidationError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("%s: request rejected with status %d", e.Op, e.StatusCode)
}

// EmptyResultError reports a 2xx response whose body carried
// success=false.
type EmptyResultError struct {
	Op      string
	Message string
}

func (e *EmptyResultError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: operation reported failure", e.Op)
}
