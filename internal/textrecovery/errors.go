package textrecovery

import "fmt"

// UnsupportedFileTypeError is returned for extensions no recovery backend
// handles. The orchestrator persists it as a failed record; it never crosses
// the pipeline boundary as a panic or silent skip.
type UnsupportedFileTypeError struct {
	Ext string
}

func (e *UnsupportedFileTypeError) Error() string {
	return "unsupported file type: " + e.Ext
}

// RecoveryError wraps a backend failure (OCR engine, PDF parser, vision
// call) with the stage that produced it.
type RecoveryError struct {
	Stage string
	Err   error
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("text recovery (%s): %v", e.Stage, e.Err)
}

func (e *RecoveryError) Unwrap() error { return e.Err }
