package textrecovery

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// TesseractConfig selects the binary and language pack.
type TesseractConfig struct {
	Binary   string // if empty -> "tesseract", resolved via PATH
	Language string // if empty -> "eng"
}

// Tesseract wraps the tesseract CLI. A single instance may be shared across
// pipeline runs; recognize calls are serialized with a mutex because the
// engine is not safe for concurrent invocation.
type Tesseract struct {
	bin    string
	lang   string
	runner Runner
	logger *slog.Logger

	mu sync.Mutex
}

func NewTesseract(cfg TesseractConfig, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	bin := cfg.Binary
	if bin == "" {
		bin = "tesseract"
		if path, err := exec.LookPath("tesseract"); err == nil {
			bin = path
		}
	}
	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	return &Tesseract{bin: bin, lang: lang, runner: execRunner{logger: logger}, logger: logger}
}

// Available reports whether the binary can be executed at all.
func (t *Tesseract) Available() bool {
	_, _, err := t.runner.Run(context.Background(), t.bin, "--version")
	return err == nil
}

// Recognize OCRs one image and returns the text plus the mean word
// confidence on the 0-100 scale. A failed confidence pass degrades to 0
// rather than failing the recognition.
func (t *Tesseract) Recognize(ctx context.Context, path string) (string, float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	out, _, err := t.runner.Run(ctx, t.bin, path, "stdout", "-l", t.lang)
	if err != nil {
		return "", 0, fmt.Errorf("tesseract: %w", err)
	}
	text := strings.TrimSpace(string(out))

	conf, err := t.meanWordConfidence(ctx, path)
	if err != nil {
		t.logger.Warn("tesseract confidence pass failed", "path", path, "error", err)
		conf = 0
	}

	return text, conf, nil
}

// meanWordConfidence reruns tesseract in TSV mode and averages the per-word
// conf column (0-100). -1 marks non-word rows and is skipped.
func (t *Tesseract) meanWordConfidence(ctx context.Context, path string) (float64, error) {
	out, _, err := t.runner.Run(ctx, t.bin, path, "stdout", "-l", t.lang, "tsv")
	if err != nil {
		return 0, fmt.Errorf("tesseract tsv: %w", err)
	}

	var sum float64
	var n int
	for i, line := range strings.Split(string(out), "\n") {
		if i == 0 || line == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if strings.TrimSpace(cols[11]) == "" {
			continue
		}
		v, err := strconv.ParseFloat(confStr, 64)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}
