package textrecovery

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Embedded PDF text does not go through OCR, so there is no measured
// confidence; layout-based extraction is assumed reliable at a fixed score.
const pdfTextConfidence = 85

func recoverPDFText(path string) (Result, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return Result{}, &RecoveryError{Stage: "pdf", Err: fmt.Errorf("open PDF: %w", err)}
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return Result{
		Text:       strings.TrimSpace(buf.String()),
		Confidence: pdfTextConfidence,
		Method:     MethodPDFText,
		Pages:      numPages,
	}, nil
}
