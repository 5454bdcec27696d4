// Package extraction sequences the document pipeline: classification, text
// recovery, re-classification, type-specific extraction, persistence. Each
// attachment's run is independent; results are written as append-only
// records so retries produce a new record instead of mutating history.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/agritrust/batchcert/internal/classifier"
	"github.com/agritrust/batchcert/internal/extractors"
	"github.com/agritrust/batchcert/internal/models"
	"github.com/agritrust/batchcert/internal/textrecovery"
)

// Raw recovered text is capped before persistence; the full text never
// matters past extraction and unbounded rows do.
const rawTextLimit = 10000

// Hard ceiling on the blended confidence: extraction is never certain.
const confidenceCeiling = 0.99

// Recoverer is the text-recovery collaborator; *textrecovery.Engine in
// production, a fake in tests.
type Recoverer interface {
	Recover(ctx context.Context, path string) (textrecovery.Result, error)
}

// PathResolver maps a stored file name to a local path the recovery engine
// can read.
type PathResolver interface {
	Path(name string) string
}

// Result summarizes one pipeline run for the caller that triggered it.
// Failures during recovery are reported here, not returned as errors; only
// persistence failures propagate as errors.
type Result struct {
	Success      bool                     `json:"success"`
	DocumentType models.DocumentType      `json:"document_type,omitempty"`
	Confidence   float64                  `json:"confidence,omitempty"`
	Record       *models.ExtractionRecord `json:"data,omitempty"`
	Error        string                   `json:"error,omitempty"`
}

// Orchestrator owns the pipeline sequence and its error-isolation policy.
type Orchestrator struct {
	classifier *classifier.Classifier
	engine     Recoverer
	registry   *extractors.Registry
	store      Store
	files      PathResolver
	logger     *slog.Logger

	confidenceThreshold float64
}

func NewOrchestrator(
	cls *classifier.Classifier,
	engine Recoverer,
	registry *extractors.Registry,
	store Store,
	files PathResolver,
	confidenceThreshold float64,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if confidenceThreshold <= 0 {
		confidenceThreshold = 0.7
	}
	return &Orchestrator{
		classifier:          cls,
		engine:              engine,
		registry:            registry,
		store:               store,
		files:               files,
		logger:              logger,
		confidenceThreshold: confidenceThreshold,
	}
}

// ProcessFile runs the full pipeline for one attachment. Recovery failures
// (including unsupported file types) are persisted as a failed record and
// reported in the Result; the returned error is reserved for persistence
// failures, which have no fallback.
func (o *Orchestrator) ProcessFile(ctx context.Context, filePath, originalName string, attachmentID, batchID uuid.UUID) (*Result, error) {
	log := o.logger.With("attachment_id", attachmentID, "batch_id", batchID)

	quick := o.classifier.QuickClassify(originalName)
	log.Info("starting extraction",
		"file", originalName,
		"quick_type", quick.Type,
		"quick_confidence", quick.Confidence,
	)

	recovered, err := o.engine.Recover(ctx, filePath)
	if err != nil {
		log.Error("text recovery failed", "error", err)
		return o.persistFailure(ctx, attachmentID, batchID, err)
	}

	cls := o.classifier.Classify(originalName, recovered.Text)
	log.Info("document classified",
		"type", cls.Type,
		"confidence", cls.Confidence,
		"method", cls.Method,
	)

	structured := o.registry.ForType(cls.Type).Extract(recovered.Text)

	finalConfidence := (structured.ConfidenceScore() + cls.Confidence) / 2
	if finalConfidence > confidenceCeiling {
		finalConfidence = confidenceCeiling
	}

	entities, err := entitiesEnvelope(structured, recovered)
	if err != nil {
		return nil, fmt.Errorf("encode entities: %w", err)
	}

	rec := &models.ExtractionRecord{
		AttachmentID:     attachmentID,
		BatchID:          batchID,
		DocumentType:     cls.Type,
		Columns:          structured.Columns(),
		RawText:          truncate(recovered.Text, rawTextLimit),
		Entities:         entities,
		ConfidenceScore:  finalConfidence,
		ExtractionMethod: recovered.Method,
		Status:           models.ExtractionStatusCompleted,
	}

	inserted, err := o.store.InsertExtraction(ctx, rec)
	if err != nil {
		return nil, err
	}

	if finalConfidence < o.confidenceThreshold {
		log.Warn("extraction completed below confidence threshold",
			"confidence", finalConfidence,
			"threshold", o.confidenceThreshold,
		)
	} else {
		log.Info("extraction completed", "type", cls.Type, "confidence", finalConfidence)
	}

	return &Result{
		Success:      true,
		DocumentType: cls.Type,
		Confidence:   finalConfidence,
		Record:       inserted,
	}, nil
}

// Retry reruns the pipeline for an attachment, appending a fresh record.
func (o *Orchestrator) Retry(ctx context.Context, attachmentID uuid.UUID) (*Result, error) {
	att, err := o.store.GetAttachment(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, fmt.Errorf("attachment %s not found", attachmentID)
	}

	return o.ProcessFile(ctx, o.files.Path(att.FileName), att.OriginalName, att.ID, att.BatchID)
}

// persistFailure records a failed run. Storage errors here still propagate:
// a failure that cannot be persisted is invisible, which is worse than a
// loud error.
func (o *Orchestrator) persistFailure(ctx context.Context, attachmentID, batchID uuid.UUID, cause error) (*Result, error) {
	msg := cause.Error()
	rec := &models.ExtractionRecord{
		AttachmentID:    attachmentID,
		BatchID:         batchID,
		DocumentType:    models.DocTypeUnknown,
		ConfidenceScore: 0,
		Status:          models.ExtractionStatusFailed,
		ErrorMessage:    &msg,
	}

	inserted, err := o.store.InsertExtraction(ctx, rec)
	if err != nil {
		return nil, err
	}

	return &Result{Success: false, Error: msg, Record: inserted}, nil
}

// entitiesEnvelope flattens the structured record into the audit JSON and
// annotates it with the recovery metadata.
func entitiesEnvelope(structured extractors.StructuredRecord, recovered textrecovery.Result) (json.RawMessage, error) {
	raw, err := json.Marshal(structured)
	if err != nil {
		return nil, err
	}

	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	envelope["ocr_confidence"] = recovered.Confidence
	envelope["ocr_method"] = recovered.Method

	return json.Marshal(envelope)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
