package corrections

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paddockvision/paddock-backend/internal/domain"
)

// APIError is a non-2xx response from the corrections API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// SubmitResponse is the accepted-submission body.
type SubmitResponse struct {
	Message          string `json:"message"`
	ReprocessingURL  string `json:"reprocessing_url"`
	CorrectionsCount int    `json:"corrections_count"`
	ChunkID          string `json:"chunk_id"`
}

// CancelResponse reports how many pending corrections were removed.
type CancelResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

type historyResponse struct {
	Corrections []domain.Correction `json:"corrections"`
	Count       int                 `json:"count"`
}

type submitRequest struct {
	Corrections []domain.CorrectionPayload `json:"corrections"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client is a typed HTTP client for the corrections API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sends a bearer token with every request.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// NewClient creates a Client for the given API base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) correctionsURL(streamID, chunkID string) string {
	return fmt.Sprintf("%s/streams/%s/chunks/%s/corrections", c.baseURL, streamID, chunkID)
}

// Submit sends a correction batch for a chunk and returns the accepted
// submission summary.
func (c *Client) Submit(ctx context.Context, streamID, chunkID string, corrections []domain.CorrectionPayload) (*SubmitResponse, error) {
	var out SubmitResponse
	err := c.do(ctx, http.MethodPost, c.correctionsURL(streamID, chunkID),
		submitRequest{Corrections: corrections}, &out)
	if err != nil {
		return nil, fmt.Errorf("submit corrections: %w", err)
	}
	return &out, nil
}

// Status returns the current re-processing status view for a chunk.
func (c *Client) Status(ctx context.Context, streamID, chunkID string) (domain.ReprocessingProgress, error) {
	var out domain.ReprocessingProgress
	err := c.do(ctx, http.MethodGet, c.correctionsURL(streamID, chunkID)+"/status", nil, &out)
	if err != nil {
		return domain.ReprocessingProgress{}, fmt.Errorf("get status: %w", err)
	}
	return out, nil
}

// History returns the persisted corrections for a chunk, oldest first.
func (c *Client) History(ctx context.Context, streamID, chunkID string) ([]domain.Correction, error) {
	var out historyResponse
	err := c.do(ctx, http.MethodGet, c.correctionsURL(streamID, chunkID), nil, &out)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return out.Corrections, nil
}

// CancelPending deletes the pending corrections for a chunk and returns the
// deleted count.
func (c *Client) CancelPending(ctx context.Context, streamID, chunkID string) (int, error) {
	var out CancelResponse
	err := c.do(ctx, http.MethodDelete, c.correctionsURL(streamID, chunkID), nil, &out)
	if err != nil {
		return 0, fmt.Errorf("cancel pending: %w", err)
	}
	return out.DeletedCount, nil
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError extracts the error message from a non-2xx body, falling back to
// the HTTP status text when the body is not the expected JSON shape.
func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}

	return apiErr
}
