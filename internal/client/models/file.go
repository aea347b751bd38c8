// Package models defines the wire-level data structures exchanged with the
// SecureDrop backend. JSON field names follow the backend contract.
package models

import "time"

// StorageMode is the tier a file record lives in.
type StorageMode string

const (
	// ModePublicPool is the anonymous short-lived tier.
	ModePublicPool StorageMode = "PUBLIC_POOL"
	// ModePrivateVault is the authenticated tier with owner-scoped listing.
	ModePrivateVault StorageMode = "PRIVATE_VAULT"
)

// FileRecord describes one stored file, identified by its access code.
// The server is authoritative for every field: the client observes
// CurrentDownloads and ExpiresAt, it never enforces them locally, and it
// never assumes a record still exists after ExpiresAt.
type FileRecord struct {
	AccessCode       string      `json:"accessCode"`
	FileName         string      `json:"fileName"`
	FileSize         int64       `json:"fileSize"`
	MimeType         string      `json:"mimeType"`
	Mode             StorageMode `json:"mode"`
	ShareURL         string      `json:"shareUrl"`
	ExpiresAt        time.Time   `json:"expiresAt"`
	MaxDownloads     int         `json:"maxDownloads"`
	CurrentDownloads int         `json:"currentDownloads"`
	OwnerID          string      `json:"ownerId,omitempty"`
}

// UpdateFileSettings carries the mutable settings of a vault record.
// Nil fields are left unchanged by the server.
type UpdateFileSettings struct {
	Mode           *StorageMode `json:"mode,omitempty"`
	ExpiresInHours *int         `json:"expiresInHours,omitempty"`
	MaxDownloads   *int         `json:"maxDownloads,omitempty"`
}
