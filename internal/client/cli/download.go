package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/securedrop/internal/client/transfer"
)

// Download retrieves a file by access code and writes it next to the
// current directory (or into the given one). The code is normalized the
// way the input field would normalize it; the server stays authoritative
// on whether it exists.
//
// Usage: download <code> [dir]
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: download <code> [dir]")
		return nil
	}

	code := transfer.NormalizeCode(args[0])
	if !transfer.CodeComplete(code) {
		fmt.Fprintf(a.out, "Incomplete access code %q; expected the full XXX-NNN form.\n", code)
		return nil
	}

	destDir := "."
	if len(args) > 1 {
		destDir = args[1]
	}

	mode := transfer.DefaultMode(a.store.IsAuthenticated())
	if _, err := a.downloadSlot.Select(mode); err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}
	id, err := a.downloadSlot.Start()
	if err != nil {
		a.downloadSlot.Reset()
		return err
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	result, err := a.fileService(mode).Download(opCtx, code)
	if err != nil {
		a.downloadSlot.Fail(id, err)
		a.downloadSlot.Reset()
		fmt.Fprintln(a.out, "Download failed:", userMessage(err))
		return err
	}

	name := result.FileName
	if name == "" {
		name = code
	}
	dest := filepath.Join(destDir, name)

	if err := os.WriteFile(dest, result.Data, 0o600); err != nil {
		a.downloadSlot.Fail(id, err)
		a.downloadSlot.Reset()
		fmt.Fprintln(a.out, "Cannot save file:", err)
		return err
	}

	a.downloadSlot.Complete(id, nil)
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(result.Data), dest)

	a.downloadSlot.Reset()
	return nil
}
