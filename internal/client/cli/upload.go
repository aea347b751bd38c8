package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/client/services"
	"github.com/dmitrijs2005/securedrop/internal/client/transfer"
)

// Upload sends a local file. The tier is chosen by the session state at the
// moment of selection: the private vault when logged in, the public pool
// otherwise.
//
// Usage: upload <path> [hours] [maxDownloads]
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: upload <path> [hours] [maxDownloads]")
		return nil
	}
	path := args[0]

	hours := a.config.DefaultExpiryHours
	if len(args) > 1 {
		h, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(a.out, "Invalid hours:", args[1])
			return nil
		}
		hours = h
	}

	maxDownloads := a.config.DefaultMaxDownloads
	if len(args) > 2 {
		m, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintln(a.out, "Invalid maxDownloads:", args[2])
			return nil
		}
		maxDownloads = m
	}

	mode := transfer.DefaultMode(a.store.IsAuthenticated())

	_, err := a.uploadSlot.Select(mode)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		a.uploadSlot.Reset()
		fmt.Fprintln(a.out, "Cannot open file:", err)
		return err
	}
	defer file.Close()

	id, err := a.uploadSlot.Start()
	if err != nil {
		a.uploadSlot.Reset()
		return err
	}

	req := services.UploadRequest{
		FileName:      filepath.Base(path),
		Body:          file,
		DurationHours: hours,
	}
	svc := a.fileService(mode)
	if mode == models.ModePrivateVault {
		req.MaxDownloads = maxDownloads
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	rec, err := svc.Upload(opCtx, req, func(percent int) {
		a.uploadSlot.ReportProgress(id, percent)
		fmt.Fprintf(a.out, "\rUploading... %3d%%", percent)
	})
	fmt.Fprintln(a.out)

	if err != nil {
		a.uploadSlot.Fail(id, err)
		a.uploadSlot.Reset()
		fmt.Fprintln(a.out, "Upload failed:", userMessage(err))
		return err
	}

	a.uploadSlot.Complete(id, rec)
	fmt.Fprintf(a.out, "Transfer complete (%s).\n", rec.Mode)
	fmt.Fprintln(a.out, "  Access code:", rec.AccessCode)
	fmt.Fprintln(a.out, "  Share URL:  ", rec.ShareURL)
	fmt.Fprintln(a.out, "  Expires at: ", rec.ExpiresAt.Local().Format("2006-01-02 15:04"))

	// The result has been shown; free the slot for the next attempt.
	a.uploadSlot.Reset()
	return nil
}
