package cli

import (
	"errors"

	"github.com/dmitrijs2005/securedrop/internal/common"
)

// userMessage renders a classified error as the single notification the
// user sees for a failed attempt.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return "File expired or does not exist."
	case errors.Is(err, common.ErrInvalidInput):
		return "Invalid code or parameters."
	case errors.Is(err, common.ErrUnauthorized):
		return "Vault session required. Please login."
	case errors.Is(err, common.ErrServerFault):
		return "Server error. Try again later."
	case errors.Is(err, common.ErrConnectionFailure):
		return "Connection failed. Check your network."
	case errors.Is(err, common.ErrTransferBusy):
		return "Another transfer is still running."
	default:
		return err.Error()
	}
}
