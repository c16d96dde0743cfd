package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paddockvision/paddock-backend/internal/domain"
	"github.com/paddockvision/paddock-backend/internal/service/correction"
	"github.com/paddockvision/paddock-backend/pkg/ctxutil"
)

// CorrectionService is the application-service surface the handlers need.
type CorrectionService interface {
	Submit(ctx context.Context, input correction.SubmitInput) (*correction.SubmitResult, error)
	GetStatus(ctx context.Context, chunkID string) (domain.ReprocessingProgress, error)
	ListCorrections(ctx context.Context, chunkID string) ([]domain.Correction, error)
	CancelPendingCorrections(ctx context.Context, chunkID string) (int, error)
}

// CorrectionHandler serves the corrections API for a stream chunk.
type CorrectionHandler struct {
	svc CorrectionService
	log *slog.Logger
}

// NewCorrectionHandler creates a CorrectionHandler.
func NewCorrectionHandler(svc CorrectionService, log *slog.Logger) *CorrectionHandler {
	return &CorrectionHandler{svc: svc, log: log}
}

type submitRequest struct {
	Corrections []domain.CorrectionPayload `json:"corrections"`
}

type historyResponse struct {
	Corrections []domain.Correction `json:"corrections"`
	Count       int                 `json:"count"`
}

type cancelResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

// Submit accepts a correction batch for a chunk and triggers re-processing.
// Responds 202: the work happens asynchronously in the ML service.
func (h *CorrectionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	userID, _ := ctxutil.UserIDFromCtx(r.Context())

	result, err := h.svc.Submit(r.Context(), correction.SubmitInput{
		StreamID:    chi.URLParam(r, "streamID"),
		ChunkID:     chi.URLParam(r, "chunkID"),
		UserID:      userID,
		Corrections: req.Corrections,
	})
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusAccepted, result)
}

// Status returns the re-processing status view for a chunk.
func (h *CorrectionHandler) Status(w http.ResponseWriter, r *http.Request) {
	progress, err := h.svc.GetStatus(r.Context(), chi.URLParam(r, "chunkID"))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// History returns the persisted corrections for a chunk, oldest first.
func (h *CorrectionHandler) History(w http.ResponseWriter, r *http.Request) {
	corrections, err := h.svc.ListCorrections(r.Context(), chi.URLParam(r, "chunkID"))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Corrections: corrections,
		Count:       len(corrections),
	})
}

// Cancel deletes the pending corrections for a chunk.
func (h *CorrectionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.CancelPendingCorrections(r.Context(), chi.URLParam(r, "chunkID"))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, cancelResponse{
		Message:      "Pending corrections cancelled",
		DeletedCount: deleted,
	})
}
