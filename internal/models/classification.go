package models

// DocumentType labels a supporting document attached to a product batch.
type DocumentType string

const (
	DocTypeLabReport   DocumentType = "lab_report"
	DocTypePackaging   DocumentType = "packaging"
	DocTypeCertificate DocumentType = "certificate"
	DocTypeFarmingData DocumentType = "farming_data"
	DocTypeUnknown     DocumentType = "unknown"
)

// ClassificationMethod records which signal produced a classification.
type ClassificationMethod string

const (
	MethodFilename ClassificationMethod = "filename"
	MethodContent  ClassificationMethod = "content"
)

// Classification is the (type, confidence, method) triple assigned to a
// document. It is produced fresh on every call and only ever persisted as
// part of an extraction record's metadata.
type Classification struct {
	Type           DocumentType             `json:"type"`
	Confidence     float64                  `json:"confidence"`
	Method         ClassificationMethod     `json:"method"`
	MatchedPattern string                   `json:"matched_pattern,omitempty"`
	Scores         map[DocumentType]float64 `json:"scores,omitempty"`
}
