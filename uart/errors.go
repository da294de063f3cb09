package uart

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by Send and TryReceive when no port is
// open. It is a recoverable condition, not a fault.
var ErrNotConnected = errors.New("port not opened")

// ReceiveErrorKind classifies a failed receive attempt.
type ReceiveErrorKind int

const (
	// ReceiveIO is an underlying read failure on the port.
	ReceiveIO ReceiveErrorKind = iota
	// ReceiveInvalidJSON covers lines that are not one well-formed
	// JSON object with a known tag.
	ReceiveInvalidJSON
	// ReceiveInvalidEncoding covers lines that are not valid UTF-8.
	ReceiveInvalidEncoding
)

func (k ReceiveErrorKind) String() string {
	switch k {
	case ReceiveIO:
		return "io"
	case ReceiveInvalidJSON:
		return "invalid_json"
	case ReceiveInvalidEncoding:
		return "invalid_encoding"
	default:
		return "unknown"
	}
}

// ReceiveError reports a failed TryReceive. Every kind is recoverable:
// the caller logs it and keeps polling.
type ReceiveError struct {
	Kind ReceiveErrorKind
	Raw  string // offending line, when one was read
	Err  error  // underlying cause, when any
}

func (e *ReceiveError) Error() string {
	switch e.Kind {
	case ReceiveInvalidJSON:
		if e.Err != nil {
			return fmt.Sprintf("invalid JSON received: %v", e.Err)
		}
		return "invalid JSON received"
	case ReceiveInvalidEncoding:
		return "invalid encoding received: not valid UTF-8"
	default:
		return fmt.Sprintf("read failed: %v", e.Err)
	}
}

func (e *ReceiveError) Unwrap() error {
	return e.Err
}
