package models

import (
	"time"

	"github.com/google/uuid"
)

// Batch is one product consignment awaiting certification. Attachments and
// extraction records hang off it.
type Batch struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ExporterID  uuid.UUID `json:"exporter_id" db:"exporter_id"`
	ProductType string    `json:"product_type" db:"product_type"`
	Quantity    float64   `json:"quantity" db:"quantity"`
	Unit        string    `json:"unit" db:"unit"`
	Destination string    `json:"destination,omitempty" db:"destination"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
