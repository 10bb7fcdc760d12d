package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Client talks to the VodHunter service. The base URL is fixed at
// construction; there is no runtime reconfiguration.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests and by
// callers that need custom timeouts or transports).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpc = h
	}
}

// NewClient creates a client for the service at baseURL, e.g.
// "http://localhost:8000/api".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health pings GET /health and reports whether the service answered ok.
func (c *Client) Health(ctx context.Context) error {
	var out healthResponse
	if err := c.getJSON(ctx, "/health", &out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("service reported not ok")
	}
	return nil
}

// LiveStatus fetches the current monitor snapshot.
func (c *Client) LiveStatus(ctx context.Context) (LiveStatus, error) {
	var out LiveStatus
	if err := c.getJSON(ctx, "/live/status", &out); err != nil {
		return LiveStatus{}, err
	}
	return out, nil
}

// StartMonitor asks the service to begin watching a streamer and returns the
// status snapshot the service reports after accepting the command.
func (c *Client) StartMonitor(ctx context.Context, streamer string) (LiveStatus, error) {
	var out startResponse
	if err := c.postJSON(ctx, "/live/start", startRequest{Streamer: streamer}, &out); err != nil {
		return LiveStatus{}, err
	}
	return out.Status, nil
}

// StopMonitor asks the service to stop the running monitor. The returned
// bool reports whether anything was actually stopped.
func (c *Client) StopMonitor(ctx context.Context) (bool, LiveStatus, error) {
	var out stopResponse
	if err := c.postJSON(ctx, "/live/stop", nil, &out); err != nil {
		return false, LiveStatus{}, err
	}
	return out.Stopped, out.Status, nil
}

// LiveSessions fetches a page of past and in-progress monitoring sessions.
func (c *Client) LiveSessions(ctx context.Context, limit, offset int) ([]SessionItem, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var out []SessionItem
	if err := c.getJSON(ctx, "/live/sessions?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchClip uploads a clip file as multipart form data (field "file") and
// returns the structured search result.
func (c *Client) SearchClip(ctx context.Context, filename string, clip io.Reader) (SearchResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return SearchResponse{}, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, clip); err != nil {
		return SearchResponse{}, fmt.Errorf("failed to read clip: %w", err)
	}
	if err := mw.Close(); err != nil {
		return SearchResponse{}, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search/clip", &buf)
	if err != nil {
		return SearchResponse{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out SearchResponse
	if err := c.do(req, &out); err != nil {
		return SearchResponse{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-Request-ID", uuid.New().String())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
