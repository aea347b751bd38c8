package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/common"
)

// Signup creates an account and establishes the returned session, so a
// fresh user is logged in immediately.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	resp, err := a.auth.Signup(opCtx, models.SignupRequest{
		Email:    email,
		FullName: fullName,
		Password: string(password),
	})
	if err != nil {
		fmt.Fprintln(a.out, "Signup failed:", userMessage(err))
		return err
	}

	if err := a.store.Establish(ctx, resp); err != nil {
		fmt.Fprintln(a.out, "Signup succeeded but the session could not be saved:", err)
		return err
	}

	fmt.Fprintln(a.out, "Account created. You are logged in.")
	return nil
}

// Login authenticates with email and password.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	resp, err := a.auth.Login(opCtx, models.AuthRequest{
		Identifier: email,
		Password:   string(password),
	})
	if err != nil {
		fmt.Fprintln(a.out, "Login failed:", userMessage(err))
		return err
	}

	if err := a.store.Establish(ctx, resp); err != nil {
		fmt.Fprintln(a.out, "Login succeeded but the session could not be saved:", err)
		return err
	}

	fmt.Fprintln(a.out, "Login successful.")
	return nil
}

// OtpLogin runs the passwordless flow: request a one-time code, then log in
// with it.
func (a *App) OtpLogin(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	opCtx, cancel := a.opCtx(ctx)
	err = a.auth.InitPasswordless(opCtx, models.OtpRequest{Identifier: email, Channel: "email"})
	cancel()
	if err != nil {
		fmt.Fprintln(a.out, "Could not send code:", userMessage(err))
		return err
	}

	code, err := getSimpleText(a.reader, "Enter the code you received", a.out)
	if err != nil {
		return err
	}

	opCtx, cancel = a.opCtx(ctx)
	defer cancel()
	resp, err := a.auth.Login(opCtx, models.AuthRequest{Identifier: email, OtpCode: code})
	if err != nil {
		fmt.Fprintln(a.out, "Login failed:", userMessage(err))
		return err
	}

	if err := a.store.Establish(ctx, resp); err != nil {
		fmt.Fprintln(a.out, "Login succeeded but the session could not be saved:", err)
		return err
	}

	fmt.Fprintln(a.out, "Login successful.")
	return nil
}

// RegisterPasskey fetches the WebAuthn creation options for an email and
// submits the authenticator's attestation pasted by the user.
func (a *App) RegisterPasskey(ctx context.Context, args []string) error {
	var email string
	var err error
	if len(args) > 0 {
		email = args[0]
	} else {
		email, err = getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
	}

	opCtx, cancel := a.opCtx(ctx)
	options, err := a.auth.PasskeyRegistrationOptions(opCtx, email)
	cancel()
	if err != nil {
		fmt.Fprintln(a.out, "Could not fetch passkey options:", userMessage(err))
		return err
	}

	fmt.Fprintln(a.out, "Registration options:")
	fmt.Fprintln(a.out, options)

	attestation, err := getMultiline(a.reader, "Paste the authenticator response JSON", a.out)
	if err != nil {
		return err
	}
	if attestation == "" {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	opCtx, cancel = a.opCtx(ctx)
	defer cancel()
	if err := a.auth.VerifyPasskeyRegistration(opCtx, attestation); err != nil {
		fmt.Fprintln(a.out, "Passkey registration failed:", userMessage(err))
		return err
	}

	fmt.Fprintln(a.out, "Passkey registered.")
	return nil
}

// Logout terminates the session. Local state is cleared even when the
// server call fails.
func (a *App) Logout(ctx context.Context) error {
	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.store.Terminate(opCtx); err != nil {
		fmt.Fprintln(a.out, "Logout finished with a local error:", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// RefreshSession exchanges the refresh token for a new pair. An
// unauthorized refresh means the session is gone for good, so it is torn
// down.
func (a *App) RefreshSession(ctx context.Context) error {
	refreshToken := a.store.RefreshToken()
	if refreshToken == "" {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	resp, err := a.auth.Refresh(opCtx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Session expired. Please login again.")
			return a.store.Terminate(ctx)
		}
		fmt.Fprintln(a.out, "Refresh failed:", userMessage(err))
		return err
	}

	if resp.User == nil {
		// The refresh endpoint may omit the user; keep the one we have.
		resp.User = a.store.CurrentUser()
	}
	if err := a.store.Establish(ctx, resp); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Session refreshed.")
	return nil
}

// WhoAmI prints the current user.
func (a *App) WhoAmI() {
	user := a.store.CurrentUser()
	if user == nil {
		fmt.Fprintln(a.out, "Anonymous.")
		return
	}
	fmt.Fprintf(a.out, "User: %s <%s>\n", user.Username, user.Email)
	if len(user.Roles) > 0 {
		fmt.Fprintln(a.out, "Roles:", user.Roles)
	}
	if a.store.NeedsRefresh() {
		fmt.Fprintln(a.out, "Access token is stale; run 'refresh'.")
	}
}
