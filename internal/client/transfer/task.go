// Package transfer tracks the lifecycle of individual upload and download
// attempts. Each attempt is a Task owned by a Slot; the slot admits at most
// one active task, delivers its terminal outcome exactly once, and drops
// results that arrive after a reset.
package transfer

import (
	"github.com/google/uuid"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
)

// Kind distinguishes the two transfer directions.
type Kind string

const (
	KindUpload   Kind = "upload"
	KindDownload Kind = "download"
)

// State is the user-facing lifecycle of a task.
type State string

const (
	StateIdle      State = "idle"
	StateSelecting State = "selecting"
	StateActive    State = "active"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Terminal reports whether the state admits no transition except a reset.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Task is the ephemeral record of one transfer attempt. Copies returned by
// the slot are snapshots; the slot keeps the authoritative version.
type Task struct {
	ID       uuid.UUID
	Kind     Kind
	Mode     models.StorageMode
	State    State
	Progress int

	// Terminal outcome: exactly one of the two is set.
	Record *models.FileRecord
	Err    error
}

// DefaultMode picks the upload tier for a fresh selection: the private
// vault if and only if a session is established at that moment.
func DefaultMode(authenticated bool) models.StorageMode {
	if authenticated {
		return models.ModePrivateVault
	}
	return models.ModePublicPool
}
