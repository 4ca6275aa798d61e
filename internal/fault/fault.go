// Package fault classifies failures from outbound dependencies so the
// resilience layer and HTTP handlers can act on the outcome kind instead of
// transport detail.
package fault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind is the failure classification.
type Kind string

const (
	// KindTransient failures are likely recoverable and eligible for
	// retry: network-level errors, 5xx responses, and statuses configured
	// as transient for a target.
	KindTransient Kind = "transient"
	// KindTerminal failures will not improve on retry: client errors,
	// malformed responses, rejected credentials.
	KindTerminal Kind = "terminal"
	// KindCircuitOpen means the call was refused without a network
	// attempt because the target's circuit is open.
	KindCircuitOpen Kind = "circuit_open"
	// KindCancelled means the caller abandoned the call.
	KindCancelled Kind = "cancelled"
)

// Error is a classified failure from an outbound call.
type Error struct {
	Kind    Kind
	Op      string // target and operation, e.g. "bankdata.account"
	Status  int    // HTTP status when one was observed, else 0
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Transient wraps err as a retryable failure.
func Transient(op, message string, err error) *Error {
	return &Error{Kind: KindTransient, Op: op, Message: message, Err: err}
}

// Terminal wraps err as a non-retryable failure.
func Terminal(op, message string, err error) *Error {
	return &Error{Kind: KindTerminal, Op: op, Message: message, Err: err}
}

// CircuitOpen reports a call refused because the target's circuit is open.
func CircuitOpen(op string) *Error {
	return &Error{Kind: KindCircuitOpen, Op: op, Message: "circuit open"}
}

// Cancelled wraps a caller-initiated abort.
func Cancelled(op string, err error) *Error {
	return &Error{Kind: KindCancelled, Op: op, Message: "cancelled", Err: err}
}

// FromStatus classifies a non-2xx HTTP response. 5xx is transient, 404 is
// transient when the target is configured that way, and the rest of the 4xx
// range is terminal.
func FromStatus(op string, status int, notFoundTransient bool) *Error {
	e := &Error{
		Op:      op,
		Status:  status,
		Message: fmt.Sprintf("unexpected status %d %s", status, http.StatusText(status)),
	}
	switch {
	case status >= 500:
		e.Kind = KindTransient
	case status == http.StatusNotFound && notFoundTransient:
		e.Kind = KindTransient
	default:
		e.Kind = KindTerminal
	}
	return e
}

// Classify maps any error to a Kind. Context cancellation wins over
// wrapped classifications; unclassified errors are treated as
// network-level transient failures.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransient
}

// IsTransient reports whether err classifies as retryable.
func IsTransient(err error) bool { return Classify(err) == KindTransient }

// IsTerminal reports whether err classifies as non-retryable.
func IsTerminal(err error) bool { return Classify(err) == KindTerminal }

// IsCircuitOpen reports whether err was a breaker fast-fail.
func IsCircuitOpen(err error) bool { return Classify(err) == KindCircuitOpen }

// IsCancelled reports whether err was a caller abort.
func IsCancelled(err error) bool { return Classify(err) == KindCancelled }

// StatusOf returns the HTTP status recorded on a classified error, or 0.
func StatusOf(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}
