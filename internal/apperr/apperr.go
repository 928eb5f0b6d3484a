// Package apperr defines the error vocabulary returned to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	InvalidBody          Kind = "invalid_body"
	InvalidDocument      Kind = "invalid_doc"
	InvalidTemplate      Kind = "invalid_template"
	InvalidPlan          Kind = "invalid_plan"
	PaymentRequired      Kind = "payment_required"
	UpgradeRequired      Kind = "upgrade_required"
	TemplateNotPermitted Kind = "template_not_permitted"
	PublishLimitReached  Kind = "publish_limit_reached"
	RateLimited          Kind = "rate_limited"
	PublishFailed        Kind = "publish_failed"
	CheckoutFailed       Kind = "checkout_failed"
	InvalidSignature     Kind = "invalid_signature"
	NotFound             Kind = "not_found"
	Internal             Kind = "internal"
)

// Status is the HTTP status a kind is reported with.
func (k Kind) Status() int {
	switch k {
	case InvalidBody, InvalidDocument, InvalidTemplate, InvalidPlan, InvalidSignature:
		return http.StatusBadRequest
	case PaymentRequired, UpgradeRequired, TemplateNotPermitted:
		return http.StatusPaymentRequired
	case PublishLimitReached, RateLimited:
		return http.StatusTooManyRequests
	case NotFound:
		return http.StatusNotFound
	case CheckoutFailed:
		return http.StatusBadGateway
	case PublishFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the client may safely repeat the whole call.
func (k Kind) Retryable() bool {
	return k == PublishFailed || k == CheckoutFailed || k == RateLimited || k == Internal
}

type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind carried by err, or Internal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
