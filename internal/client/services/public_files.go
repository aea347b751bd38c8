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

// PublicFileService is the anonymous-pool variant: no identity, short
// lifetimes, upload/meta/download only.
type PublicFileService struct {
	tc  *transport.Client
	log logging.Logger
}

var _ FileService = (*PublicFileService)(nil)

func NewPublicFileService(tc *transport.Client, log logging.Logger) *PublicFileService {
	return &PublicFileService{tc: tc, log: log.With("component", "publicfiles")}
}

// Upload drops a file into the public pool. MaxDownloads is ignored; the
// pool has no per-record cap.
func (s *PublicFileService) Upload(ctx context.Context, req UploadRequest, onProgress transport.ProgressFunc) (*models.FileRecord, error) {
	if req.DurationHours <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", common.ErrInvalidInput, req.DurationHours)
	}

	q := url.Values{}
	q.Set("hours", strconv.Itoa(req.DurationHours))

	var rec models.FileRecord
	if err := s.tc.UploadMultipart(ctx, "/public/files/upload", q, req.FileName, req.Body, onProgress, &rec); err != nil {
		return nil, fmt.Errorf("public upload: %w", err)
	}

	s.log.Info(ctx, "uploaded to public pool", "code", rec.AccessCode, "size", rec.FileSize)
	return &rec, nil
}

// GetMetadata looks a record up by access code. The code is opaque to the
// client; an unknown or expired code comes back as common.ErrNotFound.
func (s *PublicFileService) GetMetadata(ctx context.Context, accessCode string) (*models.FileRecord, error) {
	var rec models.FileRecord
	path := fmt.Sprintf("/public/files/%s/meta", url.PathEscape(accessCode))
	if err := s.tc.DoJSON(ctx, http.MethodGet, path, nil, nil, &rec); err != nil {
		return nil, fmt.Errorf("public meta: %w", err)
	}
	return &rec, nil
}

// Download fetches the file body as an opaque byte sequence.
func (s *PublicFileService) Download(ctx context.Context, accessCode string) (*DownloadResult, error) {
	path := fmt.Sprintf("/public/files/%s/download", url.PathEscape(accessCode))
	data, name, err := s.tc.DownloadBinary(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("public download: %w", err)
	}
	return &DownloadResult{Data: data, FileName: name}, nil
}
