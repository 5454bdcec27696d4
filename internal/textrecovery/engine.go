// Package textrecovery turns uploaded documents into raw text. Raster images
// are preprocessed and run through OCR (or a vision model); PDFs use direct
// embedded-text extraction. The engine is the single point of method
// selection for the pipeline.
package textrecovery

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Recovery method recorded on results and persisted extraction records.
const (
	MethodTesseract = "tesseract"
	MethodPDFText   = "pdf-text"
	MethodVision    = "vision"
)

// Image-path selection modes (EXTRACTION_METHOD). Hybrid tries the vision
// backend first and falls back to tesseract when the call fails.
const (
	ModeTesseract = "tesseract"
	ModeVision    = "vision"
	ModeHybrid    = "hybrid"
)

// Result is the transient outcome of one recovery run.
type Result struct {
	Text       string
	Confidence float64 // 0-100
	Method     string
	Pages      int // PDFs only
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".tiff": true,
	".bmp":  true,
}

// Engine dispatches recovery by file extension.
type Engine struct {
	mode   string
	ocr    *Tesseract
	vision *VisionClient
	logger *slog.Logger
}

// NewEngine wires the backends. vision may be nil, in which case the vision
// and hybrid modes degrade to tesseract.
func NewEngine(mode string, ocr *Tesseract, vision *VisionClient, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if mode == "" {
		mode = ModeTesseract
	}
	return &Engine{mode: mode, ocr: ocr, vision: vision, logger: logger}
}

// Recover extracts text from the file at path. Unrecognized extensions fail
// with UnsupportedFileTypeError; backend failures surface as RecoveryError.
func (e *Engine) Recover(ctx context.Context, path string) (Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return recoverPDFText(path)
	case imageExts[ext]:
		return e.recoverImage(ctx, path)
	default:
		return Result{}, &UnsupportedFileTypeError{Ext: ext}
	}
}

func (e *Engine) recoverImage(ctx context.Context, path string) (Result, error) {
	if e.vision != nil && (e.mode == ModeVision || e.mode == ModeHybrid) {
		res, err := e.vision.Recover(ctx, path)
		if err == nil {
			return res, nil
		}
		if e.mode == ModeVision {
			return Result{}, &RecoveryError{Stage: "vision", Err: err}
		}
		e.logger.Warn("vision recovery failed, falling back to tesseract", "path", path, "error", err)
	}

	// The binarized derivative exists only for the duration of this run.
	ocrPath := path
	if derived, err := PreprocessImage(path); err != nil {
		e.logger.Warn("image preprocessing failed, using original", "path", path, "error", err)
	} else {
		ocrPath = derived
		defer os.Remove(derived)
	}

	text, conf, err := e.ocr.Recognize(ctx, ocrPath)
	if err != nil {
		return Result{}, &RecoveryError{Stage: "ocr", Err: err}
	}
	return Result{Text: text, Confidence: conf, Method: MethodTesseract}, nil
}
