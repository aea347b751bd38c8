package session

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/client/transport"
	"github.com/dmitrijs2005/securedrop/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestStore(t *testing.T) (*Store, *sql.DB, *transport.Client) {
	t.Helper()
	db, err := InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tc := transport.New("http://127.0.0.1:0")
	return NewStore(db, tc, testLogger()), db, tc
}

func authResponse() *models.AuthResponse {
	return &models.AuthResponse{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         &models.UserSummary{Username: "alice", Email: "alice@example.org"},
	}
}

type fakeRemote struct {
	called bool
	err    error
}

func (f *fakeRemote) Logout(ctx context.Context) error {
	f.called = true
	return f.err
}

func TestEstablishSetsStateAndHeader(t *testing.T) {
	s, _, tc := newTestStore(t)
	ctx := context.Background()

	require.False(t, s.IsAuthenticated())
	require.NoError(t, s.Establish(ctx, authResponse()))

	require.True(t, s.IsAuthenticated())
	require.True(t, tc.HasToken())
	require.Equal(t, "alice", s.CurrentUser().Username)
	require.Equal(t, "refresh-1", s.RefreshToken())
}

func TestEstablishRejectsIncompleteResponse(t *testing.T) {
	s, _, tc := newTestStore(t)
	ctx := context.Background()

	resp := authResponse()
	resp.User = nil
	require.ErrorIs(t, s.Establish(ctx, resp), ErrIncompleteAuthResponse)

	resp = authResponse()
	resp.AccessToken = ""
	require.ErrorIs(t, s.Establish(ctx, resp), ErrIncompleteAuthResponse)

	require.False(t, s.IsAuthenticated())
	require.False(t, tc.HasToken())
}

func TestRestoreWithNoPriorSession(t *testing.T) {
	s, _, tc := newTestStore(t)

	require.NoError(t, s.Restore(context.Background()))
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.CurrentUser())
	require.False(t, tc.HasToken())
}

func TestRestoreAfterEstablish(t *testing.T) {
	// Simulated reload: a second store over the same database must
	// reproduce the authenticated state without any network call.
	db, err := InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	tc1 := transport.New("http://127.0.0.1:0")
	s1 := NewStore(db, tc1, testLogger())
	require.NoError(t, s1.Establish(ctx, authResponse()))

	tc2 := transport.New("http://127.0.0.1:0")
	s2 := NewStore(db, tc2, testLogger())
	require.NoError(t, s2.Restore(ctx))

	require.True(t, s2.IsAuthenticated())
	require.True(t, tc2.HasToken())
	require.Equal(t, "alice@example.org", s2.CurrentUser().Email)
	require.Equal(t, "refresh-1", s2.RefreshToken())
}

func TestRestoreClearsPartialState(t *testing.T) {
	s, db, tc := newTestStore(t)
	ctx := context.Background()

	// Token without a user must not survive a reload.
	_, err := db.Exec(`INSERT INTO session_state (key, value) VALUES (?, ?)`, keyAccessToken, []byte("orphan"))
	require.NoError(t, err)

	require.NoError(t, s.Restore(ctx))
	require.False(t, s.IsAuthenticated())
	require.False(t, tc.HasToken())

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM session_state`).Scan(&n))
	require.Equal(t, 0, n)
}

func TestTerminateClearsEverything(t *testing.T) {
	s, db, tc := newTestStore(t)
	ctx := context.Background()

	remote := &fakeRemote{}
	s.SetRemoteLogout(remote)

	require.NoError(t, s.Establish(ctx, authResponse()))
	require.NoError(t, s.Terminate(ctx))

	require.True(t, remote.called)
	require.False(t, s.IsAuthenticated())
	require.False(t, tc.HasToken())

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM session_state`).Scan(&n))
	require.Equal(t, 0, n)
}

func TestTerminateSurvivesRemoteFailure(t *testing.T) {
	s, db, tc := newTestStore(t)
	ctx := context.Background()

	remote := &fakeRemote{err: errors.New("network down")}
	s.SetRemoteLogout(remote)

	require.NoError(t, s.Establish(ctx, authResponse()))
	require.NoError(t, s.Terminate(ctx))

	require.True(t, remote.called)
	require.False(t, s.IsAuthenticated())
	require.False(t, tc.HasToken())

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM session_state`).Scan(&n))
	require.Equal(t, 0, n)
}

// unsignedJWT builds a syntactically valid JWT with the given expiry and an
// empty signature. Good enough for the unverified exp parse.
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	enc := func(v any) string {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(b)
	}
	header := enc(map[string]string{"alg": "none", "typ": "JWT"})
	claims := enc(map[string]any{"exp": exp.Unix(), "sub": "alice"})
	return fmt.Sprintf("%s.%s.", header, claims)
}

func TestNeedsRefresh(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	require.False(t, s.NeedsRefresh(), "anonymous session never needs refresh")

	resp := authResponse()
	resp.AccessToken = unsignedJWT(t, time.Now().Add(time.Hour))
	resp.ExpiresAt = time.Time{} // force the JWT claim path
	require.NoError(t, s.Establish(ctx, resp))
	require.False(t, s.NeedsRefresh())

	resp.AccessToken = unsignedJWT(t, time.Now().Add(-time.Minute))
	require.NoError(t, s.Establish(ctx, resp))
	require.True(t, s.NeedsRefresh())
}

func TestNeedsRefreshOpaqueToken(t *testing.T) {
	s, _, _ := newTestStore(t)

	resp := authResponse()
	resp.ExpiresAt = time.Time{}
	resp.AccessToken = "not-a-jwt"
	require.NoError(t, s.Establish(context.Background(), resp))

	// No expiry information at all: refresh stays caller-triggered.
	require.False(t, s.NeedsRefresh())
}
