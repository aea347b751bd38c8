package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/securedrop/internal/common"
)

func TestDoJSONAttachesBearerToken(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")

	require.NoError(t, c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil))
	require.Equal(t, "Bearer tok-123", gotAuth)
	require.Equal(t, "application/json", gotContentType)

	c.ClearToken()
	require.NoError(t, c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil))
	require.Empty(t, gotAuth)
	require.False(t, c.HasToken())
}

func TestDoJSONStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, common.ErrNotFound},
		{http.StatusBadRequest, common.ErrInvalidInput},
		{http.StatusUnauthorized, common.ErrUnauthorized},
		{http.StatusForbidden, common.ErrUnauthorized},
		{http.StatusInternalServerError, common.ErrServerFault},
		{http.StatusBadGateway, common.ErrServerFault},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"message":"nope"}`))
		}))

		c := New(srv.URL)
		err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil)
		require.ErrorIs(t, err, tt.want, "status %d", tt.status)

		var se *StatusError
		require.ErrorAs(t, err, &se)
		require.Equal(t, tt.status, se.Code)
		require.Equal(t, "nope", se.Message)

		srv.Close()
	}
}

func TestDoJSONConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := New(srv.URL)
	err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.ErrorIs(t, err, common.ErrConnectionFailure)
}

func TestDoJSONQueryAndBody(t *testing.T) {
	type in struct {
		Name string `json:"name"`
	}
	type outT struct {
		Echo string `json:"echo"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "7", r.URL.Query().Get("hours"))
		var body in
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(outT{Echo: body.Name})
	}))
	defer srv.Close()

	c := New(srv.URL)
	q := url.Values{}
	q.Set("hours", "7")

	var got outT
	require.NoError(t, c.DoJSON(context.Background(), http.MethodPost, "/x", q, in{Name: "a"}, &got))
	require.Equal(t, "a", got.Echo)
}

func TestUploadMultipartProgress(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 64*1024)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()

		require.Equal(t, "blob.bin", hdr.Filename)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		require.Equal(t, payload, data)

		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL)

	var reports []int
	err := c.UploadMultipart(context.Background(), "/up", nil, "blob.bin", bytes.NewReader(payload), func(p int) {
		reports = append(reports, p)
	}, nil)
	require.NoError(t, err)

	require.NotEmpty(t, reports)
	prev := -1
	for _, p := range reports {
		require.GreaterOrEqual(t, p, 0)
		require.LessOrEqual(t, p, 100)
		require.Greater(t, p, prev)
		prev = p
	}
}

func TestDownloadBinaryRoundTrip(t *testing.T) {
	// Non-text content must survive byte for byte.
	payload := []byte{0x00, 0xFF, 0x10, 0x89, 'P', 'N', 'G', 0x0D, 0x0A}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="image.png"`)
		w.Write(payload)
	}))
	defer srv.Close()

	c := New(srv.URL)
	data, name, err := c.DownloadBinary(context.Background(), "/d")
	require.NoError(t, err)
	require.Equal(t, payload, data)
	require.Equal(t, "image.png", name)
}

func TestDownloadBinaryNoDisposition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, name, err := c.DownloadBinary(context.Background(), "/d")
	require.NoError(t, err)
	require.Empty(t, name)
}

func TestDownloadBinaryNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, _, err := c.DownloadBinary(context.Background(), "/d")
	require.ErrorIs(t, err, common.ErrNotFound)
}
