package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	workshop "github.com/sammoha1198-bit/alsami-workshop-hosting"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 1024

	defaultExportFilename = "alsami.xlsx"
)

// ErrBaseURLRequired is returned when New is called with an empty base URL.
var ErrBaseURLRequired = errors.New("workshop httpapi: base URL is required")

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("workshop httpapi: %s: server returned %d: %s", e.Op, e.Code, e.Body)
}

// Config defines client behavior.
type Config struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}

	return c
}

// Option configures the Client.
type Option func(*Config)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Client talks to the central workshop server.
type Client struct {
	baseURL string
	cfg     Config
}

var _ workshop.BatchSender = (*Client)(nil)

// New constructs a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cfg:     cfg.withDefaults(),
	}, nil
}

// SendBatch delivers queued entries to the server in one request. The server
// upserts by id, so redelivering an already accepted entry is harmless.
func (c *Client) SendBatch(ctx context.Context, entries []workshop.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	items := make([]SyncItem, len(entries))
	for i, e := range entries {
		items[i] = SyncItem{ID: e.ID, Store: e.Collection, Payload: e.Payload, TS: e.TS}
	}

	var result SyncResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/sync/batch", SyncBatch{Items: items}, &result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("workshop httpapi: sync batch: server rejected batch")
	}
	c.cfg.Logger.Debug("batch accepted", "count", result.Count)

	return nil
}

// Ping checks server liveness and returns its per-collection counts.
func (c *Client) Ping(ctx context.Context) (PingResponse, error) {
	var result PingResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/ping", nil, &result); err != nil {
		return PingResponse{}, err
	}

	return result, nil
}

// ExportXLSX asks the server to render the rows as a workbook. It returns
// the workbook bytes and the filename the server chose.
func (c *Client) ExportXLSX(ctx context.Context, req ExportRequest) (string, []byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", nil, fmt.Errorf("workshop httpapi: encode export request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/export/xlsx", bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("workshop httpapi: build export request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return "", nil, fmt.Errorf("workshop httpapi: export request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, statusError("export", resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("workshop httpapi: read workbook: %w", err)
	}

	return exportFilename(resp.Header.Get("Content-Disposition")), data, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("workshop httpapi: encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("workshop httpapi: build %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("workshop httpapi: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(path, resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("workshop httpapi: decode %s response: %w", path, err)
		}
	}

	return nil
}

func statusError(op string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// exportFilename pulls the filename out of a Content-Disposition header,
// handling the RFC 5987 filename* form the server sends for Arabic names.
func exportFilename(disposition string) string {
	if disposition == "" {
		return defaultExportFilename
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return defaultExportFilename
	}
	if name := params["filename"]; name != "" {
		return name
	}

	return defaultExportFilename
}
