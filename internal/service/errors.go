package service

import (
	"errors"
	"fmt"
)

// Kind classifies a business-rule failure so the API layer can pick a
// status code without matching on message strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindDuplicate
	KindConflict
	KindNotFound
	KindQuota
)

// Error is a business-rule failure surfaced to the caller. The message
// is shown to the client as-is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func validationErr(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func duplicateErr(format string, args ...interface{}) error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf(format, args...)}
}

func conflictErr(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func notFoundErr(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func quotaErr(format string, args ...interface{}) error {
	return &Error{Kind: KindQuota, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a service error, or KindUnknown for
// anything else (including wrapped storage errors).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
