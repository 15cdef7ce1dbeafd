// Package syncer propagates local expense writes to the remote API on a
// best-effort basis and reconciles the local cache with the remote's
// authoritative copies.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/expenseflow/expenseflow/internal/common"
	"github.com/expenseflow/expenseflow/internal/model"
)

// Client talks to the expense REST API. Transport errors and unexpected
// statuses map to common.ErrRemoteUnavailable so callers can fall back to
// local data; a 404 maps to common.ErrNotFound, since a record the remote
// does not hold is not a transient failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Health checks whether the remote API is reachable.
func (c *Client) Health(ctx context.Context) error {
	var body struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, &body); err != nil {
		return err
	}
	if !body.OK {
		return fmt.Errorf("%w: health check not ok", common.ErrRemoteUnavailable)
	}
	return nil
}

// FetchAll lists every remote expense, most recently submitted first.
func (c *Client) FetchAll(ctx context.Context) ([]model.Expense, error) {
	var records []model.Expense
	if err := c.do(ctx, http.MethodGet, "/expenses", nil, http.StatusOK, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Expense{}
	}
	return records, nil
}

// Create stores a record remotely and returns the server's copy, which may
// carry a server-assigned ID and normalized fields.
func (c *Client) Create(ctx context.Context, record model.Expense) (*model.Expense, error) {
	var created model.Expense
	if err := c.do(ctx, http.MethodPost, "/expenses", record, http.StatusCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a merge-patch to the remote record and returns the updated copy.
func (c *Client) Update(ctx context.Context, id string, patch model.Patch) (*model.Expense, error) {
	var updated model.Expense
	path := "/expenses/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, patch, http.StatusOK, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, wantStatus int, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// A 404 is an answer, not an outage: the record does not exist remotely.
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", common.ErrNotFound, method, path)
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%w: %s %s returned status %d",
			common.ErrRemoteUnavailable, method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: undecodable response: %v", common.ErrRemoteUnavailable, err)
		}
	}

	return nil
}
