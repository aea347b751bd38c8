package models

import "time"

// UserSummary is the public shape of the authenticated user.
type UserSummary struct {
	Username  string   `json:"username,omitempty"`
	Email     string   `json:"email,omitempty"`
	PublicKey string   `json:"publicKey,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// AuthResponse is returned by signup, login and refresh.
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	TokenType    string       `json:"tokenType"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	User         *UserSummary `json:"user,omitempty"`
}

// SignupRequest creates a new account.
type SignupRequest struct {
	FullName  string `json:"fullName,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
}

// AuthRequest carries one of several credential kinds: password, OTP code,
// passkey assertion or an OAuth provider token.
type AuthRequest struct {
	Identifier    string          `json:"identifier,omitempty"`
	Password      string          `json:"password,omitempty"`
	OtpCode       string          `json:"otpCode,omitempty"`
	PasskeyData   *PasskeyAuthData `json:"passkeyData,omitempty"`
	OauthProvider string          `json:"oauthProvider,omitempty"`
	ProviderToken string          `json:"providerToken,omitempty"`
}

// PasskeyAuthData is a WebAuthn assertion, passed through opaquely.
type PasskeyAuthData struct {
	ID                string `json:"id,omitempty"`
	RawID             string `json:"rawId,omitempty"`
	ClientDataJSON    string `json:"clientDataJSON,omitempty"`
	AuthenticatorData string `json:"authenticatorData,omitempty"`
	Signature         string `json:"signature,omitempty"`
	UserHandle        string `json:"userHandle,omitempty"`
}

// OtpRequest initiates a passwordless login.
type OtpRequest struct {
	Identifier string `json:"identifier,omitempty"`
	Channel    string `json:"channel,omitempty"`
}
