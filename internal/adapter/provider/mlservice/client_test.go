package mlservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paddockvision/paddock-backend/internal/config"
	"github.com/paddockvision/paddock-backend/internal/domain"
)

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	return NewClient(config.MLServiceConfig{
		BaseURL:        baseURL,
		TriggerTimeout: timeout,
	}, slog.Default())
}

func samplePayloads() []domain.CorrectionPayload {
	return []domain.CorrectionPayload{
		{
			DetectionIndex:   0,
			FrameIndex:       3,
			CorrectionType:   domain.CorrectionTypeReassign,
			OriginalHorseID:  "horse_007",
			CorrectedHorseID: "horse_042",
		},
	}
}

func TestTriggerReprocess_Success(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody triggerRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 5*time.Second)

	err := c.TriggerReprocess(context.Background(), "chunk_001", samplePayloads())
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/reprocess/chunk/chunk_001", gotPath)
	assert.Equal(t, "chunk_001", gotBody.ChunkID)
	require.Len(t, gotBody.Corrections, 1)
	assert.Equal(t, domain.CorrectionTypeReassign, gotBody.Corrections[0].CorrectionType)
}

func TestTriggerReprocess_ErrorBodyMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "model is reloading"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 5*time.Second)

	err := c.TriggerReprocess(context.Background(), "chunk_001", samplePayloads())
	require.Error(t, err)

	var trigErr *TriggerError
	require.True(t, errors.As(err, &trigErr))
	assert.Equal(t, "model is reloading", trigErr.Detail)
	assert.Contains(t, err.Error(), "failed to trigger re-processing")
}

func TestTriggerReprocess_FallsBackToStatusText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain text error", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 5*time.Second)

	err := c.TriggerReprocess(context.Background(), "chunk_001", samplePayloads())
	require.Error(t, err)

	var trigErr *TriggerError
	require.True(t, errors.As(err, &trigErr))
	assert.Equal(t, http.StatusText(http.StatusBadGateway), trigErr.Detail)
}

func TestTriggerReprocess_Timeout(t *testing.T) {
	t.Parallel()

	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	c := newTestClient(t, srv.URL, 50*time.Millisecond)

	err := c.TriggerReprocess(context.Background(), "chunk_001", samplePayloads())
	require.Error(t, err)

	var trigErr *TriggerError
	require.True(t, errors.As(err, &trigErr))
	assert.Equal(t, "ML service timed out", trigErr.Detail)
}

func TestTriggerReprocess_ConnectionRefused(t *testing.T) {
	t.Parallel()

	// Server started and immediately closed: the port refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(t, srv.URL, time.Second)

	err := c.TriggerReprocess(context.Background(), "chunk_001", samplePayloads())
	require.Error(t, err)

	var trigErr *TriggerError
	require.True(t, errors.As(err, &trigErr))
	assert.Equal(t, "ML service unavailable", trigErr.Detail)
}
