// Package transport is the single point of HTTP egress for the SecureDrop
// client. It owns the base endpoint, the default JSON content type and the
// mutable Authorization header, and it classifies transport-level failures
// into the sentinel errors of the common package. It carries no business
// logic: services pass requests through and receive classified results.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/securedrop/internal/common"
)

// Client is a configured HTTP client for one backend endpoint.
// The Authorization header is mutable and guarded; only the session store
// is supposed to call SetToken/ClearToken.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a Client for the given base endpoint URL. A trailing slash
// on baseURL is tolerated.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// SetToken arms the default Authorization header with a bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the default Authorization header.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// HasToken reports whether a bearer token is currently attached.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends the request with the default headers attached and returns the
// raw response. A failure to obtain any response at all is reported as
// common.ErrConnectionFailure; HTTP error statuses are left to the callers,
// which know whether a body is expected.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConnectionFailure, err)
	}
	return resp, nil
}

// readError drains the response body and builds a classified StatusError.
// The backend reports failures as {"message": "..."}; a non-JSON body is
// used verbatim.
func readError(resp *http.Response) error {
	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	return newStatusError(resp.StatusCode, msg)
}

// DoJSON performs a request with an optional JSON body and decodes an
// optional JSON response. body and out may each be nil.
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readError(resp)
	}

	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// UploadMultipart posts r as the "file" part of a multipart body and decodes
// the JSON response into out. Progress is reported through fn as whole
// percentages of the full multipart body, non-decreasing, with no guaranteed
// final 100.
func (c *Client) UploadMultipart(ctx context.Context, path string, query url.Values, fileName string, r io.Reader, fn ProgressFunc, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("create multipart: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finish multipart: %w", err)
	}

	total := int64(buf.Len())
	body := newProgressReader(&buf, total, fn)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path, query), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.ContentLength = total

	resp, err := c.do(req)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readError(resp)
	}

	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// DownloadBinary fetches path as an opaque byte sequence. The payload is
// returned exactly as received, no text decoding is applied. The second
// return value is the file name recovered from Content-Disposition, or ""
// when the header is absent or unparseable.
func (c *Client) DownloadBinary(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path, nil), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.do(req)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", readError(resp)
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrConnectionFailure, err)
	}

	return data, fileNameFromHeader(resp.Header.Get("Content-Disposition")), nil
}

// fileNameFromHeader extracts filename from a Content-Disposition value
// like `attachment; filename="image.png"`.
func fileNameFromHeader(v string) string {
	if v == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(v)
	if err != nil {
		return ""
	}
	return params["filename"]
}
