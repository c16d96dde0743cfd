// Package mlservice is the outbound client for the re-processing engine.
// The engine is an opaque HTTP service: it accepts a trigger per chunk and
// reports progress through the shared cache, not through this client.
package mlservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paddockvision/paddock-backend/internal/config"
	"github.com/paddockvision/paddock-backend/internal/domain"
)

// TriggerError reports a failed trigger call with the detail extracted from
// the engine's error body (or the HTTP status text).
type TriggerError struct {
	Detail string
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("failed to trigger re-processing: %s", e.Detail)
}

// Client triggers re-processing jobs on the external ML service.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.MLServiceConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.TriggerTimeout,
		httpClient: &http.Client{},
		log:        logger.With("adapter", "mlservice"),
	}
}

// triggerRequest is the wire body for the reprocess endpoint.
type triggerRequest struct {
	ChunkID     string                     `json:"chunk_id"`
	Corrections []domain.CorrectionPayload `json:"corrections"`
}

// errorBody is the engine's JSON error envelope; Message may be absent.
type errorBody struct {
	Message string `json:"message"`
}

// TriggerReprocess asks the engine to re-run identity resolution for a chunk
// with the given corrections applied. The call is bounded by the configured
// timeout (5s by default); a timeout is reported like any transport error.
func (c *Client) TriggerReprocess(ctx context.Context, chunkID string, corrections []domain.CorrectionPayload) error {
	reqURL := fmt.Sprintf("%s/api/v1/reprocess/chunk/%s", c.baseURL, url.PathEscape(chunkID))

	body, err := json.Marshal(triggerRequest{ChunkID: chunkID, Corrections: corrections})
	if err != nil {
		return &TriggerError{Detail: fmt.Sprintf("encode request: %v", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return &TriggerError{Detail: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.DebugContext(ctx, "reprocess trigger",
		slog.String("chunk_id", chunkID),
		slog.Int("corrections", len(corrections)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		detail := "ML service unavailable"
		if errors.Is(err, context.DeadlineExceeded) {
			detail = "ML service timed out"
		}
		c.log.ErrorContext(ctx, "reprocess trigger failed",
			slog.String("chunk_id", chunkID),
			slog.String("error", err.Error()),
		)
		return &TriggerError{Detail: detail}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.log.InfoContext(ctx, "reprocess triggered",
			slog.String("chunk_id", chunkID),
			slog.Int("status", resp.StatusCode),
			slog.Int("corrections", len(corrections)),
		)
		return nil
	}

	return &TriggerError{Detail: extractDetail(resp)}
}

// extractDetail pulls the error message from the engine's JSON body, falling
// back to the HTTP status text.
func extractDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(raw) > 0 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Message != "" {
			return eb.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}
