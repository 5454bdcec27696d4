package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agritrust/batchcert/internal/extraction"
	"github.com/agritrust/batchcert/internal/queue"
)

type ExtractionHandler struct {
	store        extraction.Store
	orchestrator *extraction.Orchestrator
	queue        *queue.Client
}

func NewExtractionHandler(store extraction.Store, orch *extraction.Orchestrator, qc *queue.Client) *ExtractionHandler {
	return &ExtractionHandler{store: store, orchestrator: orch, queue: qc}
}

// Get returns the most recent extraction record for an attachment.
func (h *ExtractionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "attachmentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid attachment ID"})
		return
	}

	rec, err := h.store.LatestForAttachment(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "no extraction data found for this attachment",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": rec})
}

// Batch lists extraction records for every attachment of a batch.
func (h *ExtractionHandler) Batch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid batch ID"})
		return
	}

	recs, err := h.store.ListForBatch(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    recs,
		"count":   len(recs),
	})
}

// Stats aggregates extraction outcomes grouped by document type.
func (h *ExtractionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": stats})
}

// Retry reruns the pipeline for an attachment synchronously and appends a new
// extraction record. Earlier records are kept.
func (h *ExtractionHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "attachmentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid attachment ID"})
		return
	}

	att, err := h.store.GetAttachment(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if att == nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "attachment not found",
		})
		return
	}

	result, err := h.orchestrator.Retry(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": result.Success,
		"message": "extraction retried",
		"data":    result,
	})
}

// Process enqueues a background extraction job for an attachment.
func (h *ExtractionHandler) Process(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "attachmentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid attachment ID"})
		return
	}

	att, err := h.store.GetAttachment(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if att == nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "attachment not found",
		})
		return
	}

	err = h.queue.EnqueueExtractionProcess(queue.ExtractionProcessPayload{
		AttachmentID: att.ID.String(),
		BatchID:      att.BatchID.String(),
		FileName:     att.FileName,
		OriginalName: att.OriginalName,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"message": "extraction queued",
	})
}
