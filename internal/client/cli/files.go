package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/client/transfer"
)

// Meta shows the server-side details of a record: sizes, tier, expiry and
// the download counter as the server reports it.
//
// Usage: meta <code>
func (a *App) Meta(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: meta <code>")
		return nil
	}
	code := transfer.NormalizeCode(args[0])
	if !transfer.CodeComplete(code) {
		fmt.Fprintf(a.out, "Incomplete access code %q; expected the full XXX-NNN form.\n", code)
		return nil
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	rec, err := a.public.GetMetadata(opCtx, code)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	fmt.Fprintln(a.out, "File:      ", rec.FileName)
	fmt.Fprintln(a.out, "Size:      ", rec.FileSize, "bytes")
	fmt.Fprintln(a.out, "Type:      ", rec.MimeType)
	fmt.Fprintln(a.out, "Tier:      ", rec.Mode)
	fmt.Fprintln(a.out, "Expires at:", rec.ExpiresAt.Local().Format("2006-01-02 15:04"))
	if rec.MaxDownloads > 0 {
		fmt.Fprintf(a.out, "Downloads:  %d of %d used\n", rec.CurrentDownloads, rec.MaxDownloads)
	}
	return nil
}

// List prints one page of the vault.
//
// Usage: list [page]
func (a *App) List(ctx context.Context, args []string) error {
	if !a.store.IsAuthenticated() {
		fmt.Fprintln(a.out, "Vault session required. Please login.")
		return nil
	}

	page := 0
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(a.out, "Invalid page:", args[0])
			return nil
		}
		page = p
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	result, err := a.vault.List(opCtx, page, a.config.PageSize, []string{"expiresAt,desc"})
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	if result.Empty {
		fmt.Fprintln(a.out, "The vault is empty.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tSIZE\tTIER\tEXPIRES\tDOWNLOADS")
	for _, rec := range result.Content {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d/%d\n",
			rec.AccessCode, rec.FileName, rec.FileSize, rec.Mode,
			rec.ExpiresAt.Local().Format("2006-01-02 15:04"),
			rec.CurrentDownloads, rec.MaxDownloads)
	}
	w.Flush()

	fmt.Fprintf(a.out, "Page %d of %d (%d files total)\n", result.Number+1, result.TotalPages, result.TotalElements)
	return nil
}

// Settings updates the expiry and/or download cap of an owned record.
//
// Usage: settings <code> [hours=H] [max=N]
func (a *App) Settings(ctx context.Context, args []string) error {
	if !a.store.IsAuthenticated() {
		fmt.Fprintln(a.out, "Vault session required. Please login.")
		return nil
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: settings <code> [hours=H] [max=N]")
		return nil
	}

	code := transfer.NormalizeCode(args[0])
	var settings models.UpdateFileSettings
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Fprintln(a.out, "Expected key=value, got:", arg)
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			fmt.Fprintf(a.out, "Invalid value for %s: %s\n", key, value)
			return nil
		}
		switch key {
		case "hours":
			settings.ExpiresInHours = &n
		case "max":
			settings.MaxDownloads = &n
		default:
			fmt.Fprintln(a.out, "Unknown setting:", key)
			return nil
		}
	}
	if settings.ExpiresInHours == nil && settings.MaxDownloads == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	rec, err := a.vault.UpdateSettings(opCtx, code, settings)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Updated %s: expires %s, %d downloads max.\n",
		rec.AccessCode, rec.ExpiresAt.Local().Format("2006-01-02 15:04"), rec.MaxDownloads)
	return nil
}

// Publish moves an owned record to the public pool. Tier changes only ever
// happen through this explicit command.
//
// Usage: publish <code>
func (a *App) Publish(ctx context.Context, args []string) error {
	if !a.store.IsAuthenticated() {
		fmt.Fprintln(a.out, "Vault session required. Please login.")
		return nil
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: publish <code>")
		return nil
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	rec, err := a.vault.Publish(opCtx, transfer.NormalizeCode(args[0]))
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "%s is now in the public pool: %s\n", rec.AccessCode, rec.ShareURL)
	return nil
}

// Delete removes an owned record.
//
// Usage: delete <code>
func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.store.IsAuthenticated() {
		fmt.Fprintln(a.out, "Vault session required. Please login.")
		return nil
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: delete <code>")
		return nil
	}

	code := transfer.NormalizeCode(args[0])

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.vault.Delete(opCtx, code); err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	fmt.Fprintln(a.out, "Deleted", code)
	return nil
}
