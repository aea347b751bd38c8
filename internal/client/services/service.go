// Package services contains the request/response operations of the
// SecureDrop client: the auth lifecycle and the two file-transfer variants.
// Services hold no session state; the transport attaches the bearer token
// and classifies failures, and every error is propagated to the caller.
package services

import (
	"context"
	"io"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/client/transport"
)

// UploadRequest describes one file to send.
type UploadRequest struct {
	FileName string
	Body     io.Reader
	// DurationHours is the record's lifetime. Must be positive.
	DurationHours int
	// MaxDownloads is the vault download cap. Required (>= 1) by the vault
	// variant, ignored by the anonymous pool.
	MaxDownloads int
}

// DownloadResult is an opaque payload plus the server-suggested file name
// (may be empty).
type DownloadResult struct {
	Data     []byte
	FileName string
}

// FileService is the contract shared by the anonymous pool and the private
// vault. Callers pick the variant once per operation based on session
// state; capabilities beyond these three exist only on VaultService.
type FileService interface {
	Upload(ctx context.Context, req UploadRequest, onProgress transport.ProgressFunc) (*models.FileRecord, error)
	GetMetadata(ctx context.Context, accessCode string) (*models.FileRecord, error)
	Download(ctx context.Context, accessCode string) (*DownloadResult, error)
}

// VaultService adds the owner-scoped operations of the private vault.
type VaultService interface {
	FileService
	List(ctx context.Context, page, size int, sort []string) (*models.Page[models.FileRecord], error)
	UpdateSettings(ctx context.Context, accessCode string, settings models.UpdateFileSettings) (*models.FileRecord, error)
	Publish(ctx context.Context, accessCode string) (*models.FileRecord, error)
	Delete(ctx context.Context, accessCode string) error
}
