package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrViewNotFound       = errors.New("view not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNotConfigured      = errors.New("backend api base url is not configured")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Live channel decode failures. Both are dropped by consumers.
var (
	ErrUnknownMessage   = errors.New("unknown message type")
	ErrMalformedMessage = errors.New("malformed message")
)
