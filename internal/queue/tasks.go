package queue

const TypeExtractionProcess = "extraction:process"

// ExtractionProcessPayload carries everything the worker needs to run one
// attachment through the pipeline without a second lookup.
type ExtractionProcessPayload struct {
	AttachmentID string `json:"attachment_id"`
	BatchID      string `json:"batch_id"`
	FileName     string `json:"file_name"`
	OriginalName string `json:"original_name"`
}
