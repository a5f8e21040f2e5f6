// Package remote implements the authenticated HTTP client through which all
// backend reads and writes flow. It normalizes the configured base URL,
// attaches the current bearer credential per request, and maps response
// statuses onto sentinel errors the rest of the client can test with
// errors.Is.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var ErrUnauthenticated = errors.New("remote: not authenticated")
var ErrForbidden = errors.New("remote: access forbidden")
var ErrNotFound = errors.New("remote: not found")
var ErrConflict = errors.New("remote: conflict")
var ErrUpstream = errors.New("remote: upstream failure")

const defaultTimeout = 15 * time.Second

// TokenSource supplies the current bearer credential. An empty token means
// the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-credential TokenSource, used in tests and tooling.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client issues JSON requests against a single backend base URL.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
	log    zerolog.Logger
}

// New validates and normalizes baseURL (scheme and host required, trailing
// slashes dropped) and returns a ready Client.
func New(baseURL string, tokens TokenSource, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote: base url %q must include scheme and host", baseURL)
	}
	return &Client{
		base:   u.String(),
		http:   &http.Client{Timeout: defaultTimeout},
		tokens: tokens,
		log:    log,
	}, nil
}

// GetJSON issues GET path and decodes the 2xx body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// PostJSON issues POST path with in as the JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// PutJSON issues PUT path with in as the JSON body.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

// PatchJSON issues PATCH path with in as the JSON body.
func (c *Client) PatchJSON(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, in, out)
}

// DeleteJSON issues DELETE path.
func (c *Client) DeleteJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// PostMultipart uploads a single file field and decodes the response into out.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("remote: multipart: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return fmt.Errorf("remote: multipart copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("remote: multipart close: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, &body)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: encode body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}

// statusError maps a non-2xx response onto a sentinel error, carrying the
// backend's error message when it sent the canonical {"error": "..."} envelope.
func (c *Client) statusError(resp *http.Response) error {
	msg := http.StatusText(resp.StatusCode)
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope); err == nil && envelope.Error != "" {
		msg = envelope.Error
	}

	var kind error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = ErrUnauthenticated
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusConflict:
		kind = ErrConflict
	default:
		kind = ErrUpstream
	}
	return fmt.Errorf("%w: %s %s: %s", kind, resp.Request.Method, resp.Request.URL.Path, msg)
}
