package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/agritrust/batchcert/internal/auth"
	"github.com/agritrust/batchcert/internal/extraction"
	"github.com/agritrust/batchcert/internal/models"
	"github.com/agritrust/batchcert/internal/queue"
	"github.com/agritrust/batchcert/internal/storage"
)

type BatchHandler struct {
	store extraction.Store
	files storage.FileStore
	queue *queue.Client
}

func NewBatchHandler(store extraction.Store, files storage.FileStore, qc *queue.Client) *BatchHandler {
	return &BatchHandler{store: store, files: files, queue: qc}
}

// Create registers a product batch, stores its uploaded documents and queues
// one extraction job per document.
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	productType := strings.TrimSpace(r.FormValue("product_type"))
	quantityStr := strings.TrimSpace(r.FormValue("quantity"))
	if productType == "" || quantityStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_type and quantity are required"})
		return
	}
	quantity, err := strconv.ParseFloat(quantityStr, 64)
	if err != nil || quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be a positive number"})
		return
	}

	unit := r.FormValue("unit")
	if unit == "" {
		unit = "kg"
	}

	exporterID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no user in context"})
		return
	}

	batch, err := h.store.CreateBatch(r.Context(), &models.Batch{
		ExporterID:  exporterID,
		ProductType: productType,
		Quantity:    quantity,
		Unit:        unit,
		Destination: r.FormValue("destination"),
		Description: r.FormValue("description"),
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	attachments := []*models.Attachment{}
	queued := 0
	for _, header := range r.MultipartForm.File["attachments"] {
		att, err := h.saveAttachment(r, batch.ID, exporterID, header)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		attachments = append(attachments, att)

		err = h.queue.EnqueueExtractionProcess(queue.ExtractionProcessPayload{
			AttachmentID: att.ID.String(),
			BatchID:      batch.ID.String(),
			FileName:     att.FileName,
			OriginalName: att.OriginalName,
		})
		if err != nil {
			// The batch and file are already persisted; extraction can be
			// requested again through the process endpoint.
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		queued++
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"batch":             batch,
			"attachments":       attachments,
			"extraction_queued": queued,
		},
	})
}

func (h *BatchHandler) saveAttachment(r *http.Request, batchID, uploadedBy uuid.UUID, header *multipart.FileHeader) (*models.Attachment, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	// Stored name is a fresh UUID so uploads cannot collide or traverse paths.
	name := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	path, err := h.files.Save(r.Context(), name, file)
	if err != nil {
		return nil, fmt.Errorf("save upload %s: %w", header.Filename, err)
	}

	att, err := h.store.CreateAttachment(r.Context(), &models.Attachment{
		BatchID:      batchID,
		FileName:     name,
		FileURL:      path,
		FileType:     header.Header.Get("Content-Type"),
		FileSize:     header.Size,
		OriginalName: header.Filename,
		UploadedBy:   uploadedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("record upload %s: %w", header.Filename, err)
	}
	return att, nil
}
