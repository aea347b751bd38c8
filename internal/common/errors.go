// Package common defines shared constants and sentinel errors used across
// the SecureDrop client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level classification of backend responses.
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrServerFault       = errors.New("server fault")
	ErrConnectionFailure = errors.New("connection failure")

	// Session lifecycle errors.
	ErrNoSession      = errors.New("no active session")
	ErrSessionExpired = errors.New("session expired")

	// Transfer slot errors.
	ErrTransferBusy = errors.New("transfer already in progress")
)
