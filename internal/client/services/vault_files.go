package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/client/transport"
	"github.com/dmitrijs2005/securedrop/internal/common"
	"github.com/dmitrijs2005/securedrop/internal/logging"
)

// VaultFileService is the authenticated variant: owner-scoped records with
// configurable expiry and download caps. Every call relies on the bearer
// token the session store armed on the transport.
type VaultFileService struct {
	tc  *transport.Client
	log logging.Logger
}

var _ VaultService = (*VaultFileService)(nil)

func NewVaultFileService(tc *transport.Client, log logging.Logger) *VaultFileService {
	return &VaultFileService{tc: tc, log: log.With("component", "vaultfiles")}
}

// Upload pushes a file into the caller's vault.
func (s *VaultFileService) Upload(ctx context.Context, req UploadRequest, onProgress transport.ProgressFunc) (*models.FileRecord, error) {
	if req.DurationHours <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", common.ErrInvalidInput, req.DurationHours)
	}
	if req.MaxDownloads < 1 {
		return nil, fmt.Errorf("%w: max downloads must be at least 1, got %d", common.ErrInvalidInput, req.MaxDownloads)
	}

	q := url.Values{}
	q.Set("hours", strconv.Itoa(req.DurationHours))
	q.Set("maxDownloads", strconv.Itoa(req.MaxDownloads))

	var rec models.FileRecord
	if err := s.tc.UploadMultipart(ctx, "/files/upload", q, req.FileName, req.Body, onProgress, &rec); err != nil {
		return nil, fmt.Errorf("vault upload: %w", err)
	}

	s.log.Info(ctx, "uploaded to vault", "code", rec.AccessCode, "size", rec.FileSize, "maxDownloads", rec.MaxDownloads)
	return &rec, nil
}

func (s *VaultFileService) GetMetadata(ctx context.Context, accessCode string) (*models.FileRecord, error) {
	// Vault records resolve through the same public lookup; ownership only
	// matters for mutation.
	var rec models.FileRecord
	path := fmt.Sprintf("/public/files/%s/meta", url.PathEscape(accessCode))
	if err := s.tc.DoJSON(ctx, http.MethodGet, path, nil, nil, &rec); err != nil {
		return nil, fmt.Errorf("vault meta: %w", err)
	}
	return &rec, nil
}

func (s *VaultFileService) Download(ctx context.Context, accessCode string) (*DownloadResult, error) {
	path := fmt.Sprintf("/public/files/%s/download", url.PathEscape(accessCode))
	data, name, err := s.tc.DownloadBinary(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("vault download: %w", err)
	}
	return &DownloadResult{Data: data, FileName: name}, nil
}

// List returns one page of the caller's records. sort entries are passed
// through opaquely (e.g. "expiresAt,desc").
func (s *VaultFileService) List(ctx context.Context, page, size int, sort []string) (*models.Page[models.FileRecord], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	for _, key := range sort {
		q.Add("sort", key)
	}

	var result models.Page[models.FileRecord]
	if err := s.tc.DoJSON(ctx, http.MethodGet, "/files/", q, nil, &result); err != nil {
		return nil, fmt.Errorf("vault list: %w", err)
	}
	return &result, nil
}

// UpdateSettings patches mode, expiry or download cap of an owned record.
func (s *VaultFileService) UpdateSettings(ctx context.Context, accessCode string, settings models.UpdateFileSettings) (*models.FileRecord, error) {
	var rec models.FileRecord
	path := fmt.Sprintf("/files/%s/settings", url.PathEscape(accessCode))
	if err := s.tc.DoJSON(ctx, http.MethodPatch, path, nil, settings, &rec); err != nil {
		return nil, fmt.Errorf("vault settings: %w", err)
	}
	return &rec, nil
}

// Publish moves an owned record from the private vault to the public pool.
// Mode never changes implicitly; this is the explicit transition.
func (s *VaultFileService) Publish(ctx context.Context, accessCode string) (*models.FileRecord, error) {
	var rec models.FileRecord
	path := fmt.Sprintf("/files/%s/publish", url.PathEscape(accessCode))
	if err := s.tc.DoJSON(ctx, http.MethodPost, path, nil, nil, &rec); err != nil {
		return nil, fmt.Errorf("vault publish: %w", err)
	}

	s.log.Info(ctx, "published to public pool", "code", accessCode)
	return &rec, nil
}

// Delete removes an owned record.
func (s *VaultFileService) Delete(ctx context.Context, accessCode string) error {
	path := fmt.Sprintf("/files/%s", url.PathEscape(accessCode))
	if err := s.tc.DoJSON(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("vault delete: %w", err)
	}

	s.log.Info(ctx, "deleted", "code", accessCode)
	return nil
}
