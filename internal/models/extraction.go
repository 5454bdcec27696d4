package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ExtractionStatusCompleted = "completed"
	ExtractionStatusFailed    = "failed"
)

// DateValue is a date field extracted from document text. ISO holds the
// normalized yyyy-mm-dd form when parsing succeeded; Raw always keeps the
// matched substring so reviewers can see what the extractor found even when
// normalization failed.
type DateValue struct {
	ISO string `json:"iso,omitempty"`
	Raw string `json:"raw,omitempty"`
}

// Attachment is one uploaded file belonging to a batch.
type Attachment struct {
	ID           uuid.UUID `json:"id" db:"id"`
	BatchID      uuid.UUID `json:"batch_id" db:"batch_id"`
	FileName     string    `json:"file_name" db:"file_name"`
	FileURL      string    `json:"file_url,omitempty" db:"file_url"`
	FileType     string    `json:"file_type" db:"file_type"`
	FileSize     int64     `json:"file_size" db:"file_size"`
	OriginalName string    `json:"original_name" db:"original_name"`
	UploadedBy   uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// RecordColumns holds the flattened, nullable type-specific fields that map
// onto the extracted_data table. Not every field applies to every document
// type.
type RecordColumns struct {
	MoistureLevel     *float64
	PesticideContent  *float64
	PesticideUnit     *string
	OrganicStatus     *bool
	ISOCodes          []string
	LabName           *string
	TestDate          *string
	BatchNumber       *string
	CertificateNumber *string
	ExpiryDate        *string
}

// ExtractionRecord is the persisted, append-only result of one pipeline run
// for one attachment. A retry inserts a new record, never mutates an old one.
type ExtractionRecord struct {
	ID               int64           `json:"id" db:"id"`
	AttachmentID     uuid.UUID       `json:"attachment_id" db:"attachment_id"`
	BatchID          uuid.UUID       `json:"batch_id" db:"batch_id"`
	DocumentType     DocumentType    `json:"document_type" db:"document_type"`
	Columns          RecordColumns   `json:"-"`
	RawText          string          `json:"raw_extracted_text,omitempty" db:"raw_extracted_text"`
	Entities         json.RawMessage `json:"extracted_entities,omitempty" db:"extracted_entities"`
	ConfidenceScore  float64         `json:"confidence_score" db:"confidence_score"`
	ExtractionMethod string          `json:"extraction_method,omitempty" db:"extraction_method"`
	Status           string          `json:"status" db:"status"`
	ErrorMessage     *string         `json:"error_message,omitempty" db:"error_message"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// BatchExtraction is an extraction record joined with its attachment's file
// details, as returned by the per-batch listing.
type BatchExtraction struct {
	ExtractionRecord
	FileName     string `json:"file_name"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

// TypeStats aggregates extraction outcomes for one document type.
type TypeStats struct {
	DocumentType  DocumentType `json:"document_type"`
	Total         int64        `json:"total"`
	AvgConfidence float64      `json:"avg_confidence"`
	Successful    int64        `json:"successful"`
	Failed        int64        `json:"failed"`
}
