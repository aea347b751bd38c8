// Package session holds the single authoritative copy of the client's
// authentication state: the token pair plus the user summary, mirrored to a
// local sqlite database so a restarted process resumes authenticated.
//
// The store is the only component permitted to mutate the transport's
// Authorization header. Establish, Restore and Terminate serialize through
// one mutex and never leave a torn state visible: the three durable entries
// (access token, refresh token, user) are written together in a transaction
// and cleared together.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/client/transport"
	"github.com/dmitrijs2005/securedrop/internal/dbx"
	"github.com/dmitrijs2005/securedrop/internal/logging"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
)

// refreshLeeway is how close to expiry a token may get before NeedsRefresh
// starts reporting true.
const refreshLeeway = 30 * time.Second

// ErrIncompleteAuthResponse is returned by Establish when the backend's
// response lacks a token or the user summary. A session is either fully
// populated or absent; nothing partial is persisted.
var ErrIncompleteAuthResponse = errors.New("incomplete auth response")

// RemoteLogout is the server-side logout call invoked best-effort during
// Terminate. Wired by the application to avoid a dependency cycle with the
// auth service.
type RemoteLogout interface {
	Logout(ctx context.Context) error
}

type current struct {
	accessToken  string
	refreshToken string
	tokenType    string
	expiresAt    time.Time
	user         models.UserSummary
}

// Store is the process-wide session holder. Exactly one instance exists per
// running client.
type Store struct {
	db        *sql.DB
	transport *transport.Client
	remote    RemoteLogout
	log       logging.Logger

	mu  sync.Mutex
	cur *current
	now func() time.Time
}

// NewStore creates a Store over an initialized session database.
func NewStore(db *sql.DB, tc *transport.Client, log logging.Logger) *Store {
	return &Store{db: db, transport: tc, log: log, now: time.Now}
}

// SetRemoteLogout wires the server-side logout used by Terminate.
func (s *Store) SetRemoteLogout(r RemoteLogout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = r
}

// Establish persists the token pair and user from a successful login or
// signup, arms the transport's Authorization header and updates in-memory
// state. The three durable entries are written in one transaction; on any
// failure nothing changes.
func (s *Store) Establish(ctx context.Context, resp *models.AuthResponse) error {
	if resp == nil || resp.AccessToken == "" || resp.RefreshToken == "" || resp.User == nil {
		return ErrIncompleteAuthResponse
	}

	userData, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := newRepository(tx)
		if err := repo.set(ctx, keyAccessToken, []byte(resp.AccessToken)); err != nil {
			return err
		}
		if err := repo.set(ctx, keyRefreshToken, []byte(resp.RefreshToken)); err != nil {
			return err
		}
		return repo.set(ctx, keyUser, userData)
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.cur = &current{
		accessToken:  resp.AccessToken,
		refreshToken: resp.RefreshToken,
		tokenType:    resp.TokenType,
		expiresAt:    resp.ExpiresAt,
		user:         *resp.User,
	}
	s.transport.SetToken(resp.AccessToken)

	s.log.Info(ctx, "session established", "user", resp.User.Email)
	return nil
}

// Restore rehydrates the session from durable storage. It is called once at
// process start, before any auth-gated decision. If either the access token
// or the user is missing the client stays anonymous and any partial
// leftovers are cleared.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := newRepository(s.db)

	accessToken, err := repo.get(ctx, keyAccessToken)
	if err != nil {
		return err
	}
	refreshToken, err := repo.get(ctx, keyRefreshToken)
	if err != nil {
		return err
	}
	userData, err := repo.get(ctx, keyUser)
	if err != nil {
		return err
	}

	if len(accessToken) == 0 || len(refreshToken) == 0 || len(userData) == 0 {
		if len(accessToken) > 0 || len(refreshToken) > 0 || len(userData) > 0 {
			s.log.Warn(ctx, "clearing partial session state")
			if err := repo.clear(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	var user models.UserSummary
	if err := json.Unmarshal(userData, &user); err != nil {
		s.log.Warn(ctx, "clearing unreadable session state", "error", err)
		return repo.clear(ctx)
	}

	s.cur = &current{
		accessToken:  string(accessToken),
		refreshToken: string(refreshToken),
		expiresAt:    tokenExpiry(string(accessToken)),
		user:         user,
	}
	s.transport.SetToken(s.cur.accessToken)

	s.log.Info(ctx, "session restored", "user", user.Email)
	return nil
}

// Terminate attempts the server-side logout best-effort, then
// unconditionally clears durable storage, in-memory state and the
// transport's Authorization header. A failing network call never blocks
// local cleanup.
func (s *Store) Terminate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != nil && s.remote != nil {
		if err := s.remote.Logout(ctx); err != nil {
			s.log.Warn(ctx, "remote logout failed, clearing local session anyway", "error", err)
		}
	}

	repo := newRepository(s.db)
	if err := repo.clear(ctx); err != nil {
		// Memory and header are still cleared below; report the storage
		// failure to the caller.
		s.cur = nil
		s.transport.ClearToken()
		return err
	}

	s.cur = nil
	s.transport.ClearToken()
	s.log.Info(ctx, "session terminated")
	return nil
}

// IsAuthenticated reports whether a session is currently established.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur != nil
}

// CurrentUser returns a copy of the authenticated user, or nil when
// anonymous.
func (s *Store) CurrentUser() *models.UserSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return nil
	}
	u := s.cur.user
	return &u
}

// RefreshToken returns the current refresh token, or "" when anonymous.
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return ""
	}
	return s.cur.refreshToken
}

// NeedsRefresh reports whether the access token has expired or is about to.
// Refresh itself is left to the caller; nothing here runs on a timer.
func (s *Store) NeedsRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return false
	}
	exp := s.cur.expiresAt
	if exp.IsZero() {
		exp = tokenExpiry(s.cur.accessToken)
	}
	if exp.IsZero() {
		return false
	}
	return s.now().After(exp.Add(-refreshLeeway))
}

// tokenExpiry extracts the exp claim from a JWT access token without
// verifying the signature. Validity is the server's concern; the claim is
// used purely to decide when a lazy refresh is worthwhile. Returns the zero
// time when the token is not a parseable JWT.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
