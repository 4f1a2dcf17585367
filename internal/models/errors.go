package models

import (
	"errors"
	"net/http"
)

// Kind classifies a domain failure so handlers can pick a status code
// without string-matching messages.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindInvalidState
	KindConflict
	KindForbidden
)

type DomainError struct {
	Kind Kind
	Msg  string
}

func (e *DomainError) Error() string { return e.Msg }

func NotFound(msg string) error     { return &DomainError{Kind: KindNotFound, Msg: msg} }
func Validation(msg string) error   { return &DomainError{Kind: KindValidation, Msg: msg} }
func InvalidState(msg string) error { return &DomainError{Kind: KindInvalidState, Msg: msg} }
func Conflict(msg string) error     { return &DomainError{Kind: KindConflict, Msg: msg} }
func Forbidden(msg string) error    { return &DomainError{Kind: KindForbidden, Msg: msg} }
func Internal(msg string) error     { return &DomainError{Kind: KindInternal, Msg: msg} }

// KindOf returns the Kind for err, or KindInternal for unknown errors.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// HTTPStatus maps a domain error to its wire status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
