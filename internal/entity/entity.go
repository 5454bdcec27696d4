// Package entity scans raw document text with a fixed catalog of
// pattern-based recognizers. Each recognizer is an independent, stateless
// scan; the extractor output is just the union of their results. A
// recognizer that finds nothing contributes nil, never an error.
package entity

// Measurement is a numeric fact with a unit, e.g. a moisture percentage or a
// pesticide residue level.
type Measurement struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit,omitempty"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source,omitempty"`
}

// BoolSignal is a yes/no fact such as organic status.
type BoolSignal struct {
	Value      bool    `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source,omitempty"`
}

// ISOCode is a normalized ISO standard reference ("ISO 22000").
type ISOCode struct {
	Code       string  `json:"code"`
	FullMatch  string  `json:"full_match,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Date mention types for label-directed matches. An empty Type means the
// date was found positionally, with no label to anchor it.
const (
	DateTypeTest   = "test_date"
	DateTypeExpiry = "expiry_date"
)

// DateMention is a date-looking substring. Raw is kept verbatim; parsing to
// a calendar date is the downstream extractor's concern.
type DateMention struct {
	Type       string  `json:"type,omitempty"`
	Raw        string  `json:"raw"`
	Confidence float64 `json:"confidence"`
}

// NameMatch is an organization or lab name candidate.
type NameMatch struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source,omitempty"`
}

// IDMatch is an identifier such as a batch or certificate number.
type IDMatch struct {
	Number     string  `json:"number"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source,omitempty"`
}

// NumberUnit is a generic number-with-unit pair, the catch-all recognizer
// output used by type extractors as a fallback.
type NumberUnit struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Raw   string  `json:"raw,omitempty"`
}

// Entities is the full bag of typed facts found in one text. Multiple
// entities of the same kind may coexist (several dates, several
// organizations); type-specific extractors choose among them.
type Entities struct {
	MoistureLevel     *Measurement  `json:"moisture_level,omitempty"`
	PesticideContent  *Measurement  `json:"pesticide_content,omitempty"`
	OrganicStatus     *BoolSignal   `json:"organic_status,omitempty"`
	ISOCodes          []ISOCode     `json:"iso_codes,omitempty"`
	Dates             []DateMention `json:"dates,omitempty"`
	LabName           *NameMatch    `json:"lab_name,omitempty"`
	BatchNumber       *IDMatch      `json:"batch_number,omitempty"`
	CertificateNumber *IDMatch      `json:"certificate_number,omitempty"`
	Organizations     []NameMatch   `json:"organizations,omitempty"`
	NumbersWithUnits  []NumberUnit  `json:"numbers_with_units,omitempty"`
}
