package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/agritrust/batchcert/internal/extraction"
	"github.com/agritrust/batchcert/internal/queue"
	"github.com/agritrust/batchcert/internal/storage"
)

// ExtractionWorker runs the document pipeline for queued attachments.
type ExtractionWorker struct {
	orchestrator *extraction.Orchestrator
	files        storage.FileStore
	logger       *slog.Logger
}

func NewExtractionWorker(o *extraction.Orchestrator, files storage.FileStore, logger *slog.Logger) *ExtractionWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionWorker{orchestrator: o, files: files, logger: logger}
}

func (w *ExtractionWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.ExtractionProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	attachmentID, err := uuid.Parse(payload.AttachmentID)
	if err != nil {
		return fmt.Errorf("parse attachment ID: %w", err)
	}
	batchID, err := uuid.Parse(payload.BatchID)
	if err != nil {
		return fmt.Errorf("parse batch ID: %w", err)
	}

	w.logger.Info("processing attachment", "attachment_id", attachmentID, "file", payload.OriginalName)

	result, err := w.orchestrator.ProcessFile(ctx, w.files.Path(payload.FileName), payload.OriginalName, attachmentID, batchID)
	if err != nil {
		// Persistence failure: the run left no record, so let asynq see
		// the error.
		return fmt.Errorf("process attachment %s: %w", attachmentID, err)
	}

	if !result.Success {
		// The failure is already persisted; the task itself is done.
		w.logger.Warn("extraction failed", "attachment_id", attachmentID, "error", result.Error)
		return nil
	}

	w.logger.Info("attachment processed",
		"attachment_id", attachmentID,
		"document_type", result.DocumentType,
		"confidence", result.Confidence,
	)
	return nil
}
