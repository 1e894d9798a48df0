package settlement

import (
	"errors"
	"fmt"
)

// Kind classifies settlement failures for the transport layer.
type Kind string

const (
	KindInvalidRequest Kind = "InvalidRequest"
	KindUnauthorized   Kind = "Unauthorized"
	KindNotFound       Kind = "NotFound"
	KindConflict       Kind = "Conflict"
	KindInternal       Kind = "Internal"
)

// SettlementError is returned by every SettlementService operation.
type SettlementError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *SettlementError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SettlementError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) error {
	return &SettlementError{Kind: kind, Message: message, Err: err}
}

func invalid(message string) error {
	return newError(KindInvalidRequest, message, nil)
}

// KindOf returns the kind of err, Internal for anything unclassified.
func KindOf(err error) Kind {
	var se *SettlementError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message of err.
func MessageOf(err error) string {
	var se *SettlementError
	if errors.As(err, &se) && se.Kind != KindInternal {
		return se.Message
	}
	return "internal error"
}
