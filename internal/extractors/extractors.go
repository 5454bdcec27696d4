// Package extractors maps the generic entity bag plus raw text into
// structured records appropriate to each document type.
package extractors

import (
	"github.com/agritrust/batchcert/internal/entity"
	"github.com/agritrust/batchcert/internal/models"
)

// StructuredRecord is the per-type extraction result consumed by the
// orchestrator. Concrete types (LabReport, Packaging, Certificate) carry the
// full field set; Columns flattens the subset that maps onto the persisted
// table.
type StructuredRecord interface {
	DocumentType() models.DocumentType
	ConfidenceScore() float64
	Columns() models.RecordColumns
}

// Extractor turns raw text into a structured record. Implementations are
// pure functions of their input and safe for concurrent use.
type Extractor interface {
	Extract(text string) StructuredRecord
}

// Quantity is a secondary panel value (heavy metal, microbial count, pH,
// aflatoxin, net weight).
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Registry is the closed dispatch table from document type to extractor.
type Registry struct {
	byType map[models.DocumentType]Extractor
}

// NewRegistry builds the dispatch table. farming_data and unknown are
// explicit aliases of the lab-report extractor: no specialized extractor
// exists for them yet, and keeping the alias in the table makes future
// specialization a one-line edit.
func NewRegistry(entities *entity.Extractor) *Registry {
	lab := NewLabReport(entities)
	return &Registry{byType: map[models.DocumentType]Extractor{
		models.DocTypeLabReport:   lab,
		models.DocTypePackaging:   NewPackaging(entities),
		models.DocTypeCertificate: NewCertificate(entities),
		models.DocTypeFarmingData: lab,
		models.DocTypeUnknown:     lab,
	}}
}

// ForType returns the extractor for a document type, falling back to the
// unknown entry for any unrecognized value.
func (r *Registry) ForType(t models.DocumentType) Extractor {
	if ex, ok := r.byType[t]; ok {
		return ex
	}
	return r.byType[models.DocTypeUnknown]
}
