package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agritrust/batchcert/internal/models"
)

// Store is the persistence collaborator for the pipeline and its read API.
// Extraction records are append-only: inserts only, no updates.
type Store interface {
	CreateBatch(ctx context.Context, batch *models.Batch) (*models.Batch, error)
	CreateAttachment(ctx context.Context, att *models.Attachment) (*models.Attachment, error)
	GetAttachment(ctx context.Context, id uuid.UUID) (*models.Attachment, error)
	InsertExtraction(ctx context.Context, rec *models.ExtractionRecord) (*models.ExtractionRecord, error)
	LatestForAttachment(ctx context.Context, attachmentID uuid.UUID) (*models.ExtractionRecord, error)
	ListForBatch(ctx context.Context, batchID uuid.UUID) ([]models.BatchExtraction, error)
	Stats(ctx context.Context) ([]models.TypeStats, error)
}

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) CreateBatch(ctx context.Context, batch *models.Batch) (*models.Batch, error) {
	var out models.Batch
	err := s.db.QueryRow(ctx,
		`INSERT INTO batches (exporter_id, product_type, quantity, unit, destination, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, exporter_id, product_type, quantity, unit, destination, description, created_at`,
		batch.ExporterID, batch.ProductType, batch.Quantity, batch.Unit, batch.Destination, batch.Description,
	).Scan(&out.ID, &out.ExporterID, &out.ProductType, &out.Quantity, &out.Unit, &out.Destination, &out.Description, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}
	return &out, nil
}

func (s *PGStore) CreateAttachment(ctx context.Context, att *models.Attachment) (*models.Attachment, error) {
	var out models.Attachment
	err := s.db.QueryRow(ctx,
		`INSERT INTO batch_attachments (batch_id, file_name, file_url, file_type, file_size, original_name, uploaded_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, batch_id, file_name, file_url, file_type, file_size, original_name, uploaded_by, uploaded_at`,
		att.BatchID, att.FileName, att.FileURL, att.FileType, att.FileSize, att.OriginalName, att.UploadedBy,
	).Scan(&out.ID, &out.BatchID, &out.FileName, &out.FileURL, &out.FileType, &out.FileSize, &out.OriginalName, &out.UploadedBy, &out.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("insert attachment: %w", err)
	}
	return &out, nil
}

func (s *PGStore) GetAttachment(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	var att models.Attachment
	err := s.db.QueryRow(ctx,
		`SELECT id, batch_id, file_name, file_url, file_type, file_size, original_name, uploaded_by, uploaded_at
		 FROM batch_attachments WHERE id = $1`,
		id,
	).Scan(&att.ID, &att.BatchID, &att.FileName, &att.FileURL, &att.FileType, &att.FileSize, &att.OriginalName, &att.UploadedBy, &att.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	return &att, nil
}

const extractionColumns = `id, attachment_id, batch_id, document_type,
	moisture_level, pesticide_content, pesticide_unit, organic_status, iso_codes,
	lab_name, test_date, batch_number, certificate_number, expiry_date,
	raw_extracted_text, extracted_entities, confidence_score, extraction_method,
	status, error_message, created_at`

func (s *PGStore) InsertExtraction(ctx context.Context, rec *models.ExtractionRecord) (*models.ExtractionRecord, error) {
	cols := rec.Columns
	row := s.db.QueryRow(ctx,
		`INSERT INTO extracted_data (
			attachment_id, batch_id, document_type,
			moisture_level, pesticide_content, pesticide_unit, organic_status, iso_codes,
			lab_name, test_date, batch_number, certificate_number, expiry_date,
			raw_extracted_text, extracted_entities, confidence_score, extraction_method,
			status, error_message
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING `+extractionColumns,
		rec.AttachmentID, rec.BatchID, rec.DocumentType,
		cols.MoistureLevel, cols.PesticideContent, cols.PesticideUnit, cols.OrganicStatus, cols.ISOCodes,
		cols.LabName, cols.TestDate, cols.BatchNumber, cols.CertificateNumber, cols.ExpiryDate,
		rec.RawText, rec.Entities, rec.ConfidenceScore, rec.ExtractionMethod,
		rec.Status, rec.ErrorMessage,
	)
	out, err := scanExtraction(row)
	if err != nil {
		return nil, fmt.Errorf("insert extraction: %w", err)
	}
	return out, nil
}

// LatestForAttachment returns the newest record for an attachment, or nil
// when the attachment has never been processed.
func (s *PGStore) LatestForAttachment(ctx context.Context, attachmentID uuid.UUID) (*models.ExtractionRecord, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+extractionColumns+`
		 FROM extracted_data
		 WHERE attachment_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		attachmentID,
	)
	rec, err := scanExtraction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest extraction: %w", err)
	}
	return rec, nil
}

func (s *PGStore) ListForBatch(ctx context.Context, batchID uuid.UUID) ([]models.BatchExtraction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT ed.id, ed.attachment_id, ed.batch_id, ed.document_type,
			ed.moisture_level, ed.pesticide_content, ed.pesticide_unit, ed.organic_status, ed.iso_codes,
			ed.lab_name, ed.test_date, ed.batch_number, ed.certificate_number, ed.expiry_date,
			ed.raw_extracted_text, ed.extracted_entities, ed.confidence_score, ed.extraction_method,
			ed.status, ed.error_message, ed.created_at,
			COALESCE(ba.file_name, ''), COALESCE(ba.original_name, ''), COALESCE(ba.file_type, '')
		 FROM extracted_data ed
		 LEFT JOIN batch_attachments ba ON ed.attachment_id = ba.id
		 WHERE ed.batch_id = $1
		 ORDER BY ed.created_at DESC`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list batch extractions: %w", err)
	}
	defer rows.Close()

	var results []models.BatchExtraction
	for rows.Next() {
		var be models.BatchExtraction
		if err := rows.Scan(
			&be.ID, &be.AttachmentID, &be.BatchID, &be.DocumentType,
			&be.Columns.MoistureLevel, &be.Columns.PesticideContent, &be.Columns.PesticideUnit, &be.Columns.OrganicStatus, &be.Columns.ISOCodes,
			&be.Columns.LabName, &be.Columns.TestDate, &be.Columns.BatchNumber, &be.Columns.CertificateNumber, &be.Columns.ExpiryDate,
			&be.RawText, &be.Entities, &be.ConfidenceScore, &be.ExtractionMethod,
			&be.Status, &be.ErrorMessage, &be.CreatedAt,
			&be.FileName, &be.OriginalName, &be.FileType,
		); err != nil {
			return nil, fmt.Errorf("scan batch extraction: %w", err)
		}
		results = append(results, be)
	}
	return results, rows.Err()
}

func (s *PGStore) Stats(ctx context.Context) ([]models.TypeStats, error) {
	rows, err := s.db.Query(ctx,
		`SELECT document_type,
			COUNT(*) AS total,
			COALESCE(AVG(confidence_score), 0) AS avg_confidence,
			COUNT(*) FILTER (WHERE status = 'completed') AS successful,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed
		 FROM extracted_data
		 GROUP BY document_type`,
	)
	if err != nil {
		return nil, fmt.Errorf("extraction stats: %w", err)
	}
	defer rows.Close()

	var stats []models.TypeStats
	for rows.Next() {
		var st models.TypeStats
		if err := rows.Scan(&st.DocumentType, &st.Total, &st.AvgConfidence, &st.Successful, &st.Failed); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func scanExtraction(row pgx.Row) (*models.ExtractionRecord, error) {
	var rec models.ExtractionRecord
	err := row.Scan(
		&rec.ID, &rec.AttachmentID, &rec.BatchID, &rec.DocumentType,
		&rec.Columns.MoistureLevel, &rec.Columns.PesticideContent, &rec.Columns.PesticideUnit, &rec.Columns.OrganicStatus, &rec.Columns.ISOCodes,
		&rec.Columns.LabName, &rec.Columns.TestDate, &rec.Columns.BatchNumber, &rec.Columns.CertificateNumber, &rec.Columns.ExpiryDate,
		&rec.RawText, &rec.Entities, &rec.ConfidenceScore, &rec.ExtractionMethod,
		&rec.Status, &rec.ErrorMessage, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
