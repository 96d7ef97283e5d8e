package relay

import (
	"errors"
	"net/http"
)

// Kind classifies why a translation failed.
type Kind string

const (
	// KindValidation means the caller sent an incomplete request.
	KindValidation Kind = "validation"
	// KindConfiguration means the service itself is misconfigured.
	KindConfiguration Kind = "configuration"
	// KindProvider means the upstream API rejected or failed the call.
	KindProvider Kind = "provider"
	// KindEmptyResult means the upstream answered without usable text.
	KindEmptyResult Kind = "empty_result"
)

// Error is the only error type Translate returns.
type Error struct {
	Kind    Kind
	Message string
	// UpstreamStatus is the provider's HTTP status, 0 when no response arrived.
	UpstreamStatus int
	Timeout        bool
	Cause          error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind so callers can write errors.Is(err, &relay.Error{Kind: relay.KindProvider}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// HTTPStatus maps the failure to the status the relay answers with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConfiguration:
		return http.StatusInternalServerError
	case KindProvider:
		if e.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case KindEmptyResult:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the same request may succeed later unchanged.
func (e *Error) Retryable() bool {
	return e.Kind == KindProvider || e.Kind == KindEmptyResult
}

// KindOf returns the Kind of err, or "" when err is not a relay error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
