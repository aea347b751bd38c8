package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/client/transport"
	"github.com/dmitrijs2005/securedrop/internal/logging"
)

// AuthService exposes the backend's auth lifecycle as discrete operations.
// It never touches the session store: callers feed successful responses
// into session.Store.Establish themselves.
type AuthService struct {
	tc  *transport.Client
	log logging.Logger
}

func NewAuthService(tc *transport.Client, log logging.Logger) *AuthService {
	return &AuthService{tc: tc, log: log.With("component", "auth")}
}

// Signup creates a new account. The backend logs the new user in as part of
// signup, so the response carries a full token pair.
func (a *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.tc.DoJSON(ctx, http.MethodPost, "/auth/signup", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return &resp, nil
}

// Login authenticates with one of the supported credential kinds.
func (a *AuthService) Login(ctx context.Context, req models.AuthRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.tc.DoJSON(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a fresh token pair.
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	q := url.Values{}
	q.Set("refreshToken", refreshToken)

	var resp models.AuthResponse
	if err := a.tc.DoJSON(ctx, http.MethodPost, "/auth/refresh", q, nil, &resp); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return &resp, nil
}

// Logout invalidates the server-side session. The session store calls this
// best-effort during Terminate.
func (a *AuthService) Logout(ctx context.Context) error {
	if err := a.tc.DoJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// InitPasswordless asks the backend to send a one-time code over the given
// channel.
func (a *AuthService) InitPasswordless(ctx context.Context, req models.OtpRequest) error {
	if err := a.tc.DoJSON(ctx, http.MethodPost, "/auth/passwordless/init", nil, req, nil); err != nil {
		return fmt.Errorf("passwordless init: %w", err)
	}
	return nil
}

// PasskeyRegistrationOptions fetches the WebAuthn creation options for the
// given email as an opaque JSON document.
func (a *AuthService) PasskeyRegistrationOptions(ctx context.Context, email string) (string, error) {
	q := url.Values{}
	q.Set("email", email)

	var raw json.RawMessage
	if err := a.tc.DoJSON(ctx, http.MethodGet, "/auth/passkey/register/options", q, nil, &raw); err != nil {
		return "", fmt.Errorf("passkey options: %w", err)
	}
	return string(raw), nil
}

// VerifyPasskeyRegistration submits the authenticator's attestation
// response. passkeyJSON is passed through verbatim.
func (a *AuthService) VerifyPasskeyRegistration(ctx context.Context, passkeyJSON string) error {
	if err := a.tc.DoJSON(ctx, http.MethodPost, "/auth/passkey/register/verify", nil, json.RawMessage(passkeyJSON), nil); err != nil {
		return fmt.Errorf("passkey verify: %w", err)
	}
	return nil
}
