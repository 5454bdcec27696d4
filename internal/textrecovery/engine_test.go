package textrecovery

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// stubRunner serves canned tesseract output; the TSV pass is recognized by
// its trailing "tsv" argument.
type stubRunner struct {
	text    string
	tsv     string
	textErr error
	tsvErr  error
	calls   int
}

func (r *stubRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	r.calls++
	if len(args) > 0 && args[len(args)-1] == "tsv" {
		return []byte(r.tsv), nil, r.tsvErr
	}
	return []byte(r.text), nil, r.textErr
}

func tsvRow(conf, word string) string {
	return fmt.Sprintf("5\t1\t1\t1\t1\t1\t10\t10\t50\t20\t%s\t%s", conf, word)
}

const tsvHeader = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext"

func newStubTesseract(r Runner) *Tesseract {
	t := NewTesseract(TesseractConfig{Binary: "tesseract"}, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	t.runner = r
	return t
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(40)
			if x > 3 {
				v = 200
			}
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "doc.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save test image: %v", err)
	}
	return path
}

func TestEngineUnsupportedExtension(t *testing.T) {
	engine := NewEngine(ModeTesseract, newStubTesseract(&stubRunner{}), nil, nil)

	_, err := engine.Recover(context.Background(), "/tmp/report.docx")
	var unsupported *UnsupportedFileTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedFileTypeError", err)
	}
	if unsupported.Ext != ".docx" {
		t.Errorf("ext = %q, want .docx", unsupported.Ext)
	}
	if err.Error() != "unsupported file type: .docx" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestEngineImageRecovery(t *testing.T) {
	path := writeTestImage(t)
	runner := &stubRunner{
		text: "Moisture Level: 12.5%\n",
		tsv:  tsvHeader + "\n" + tsvRow("80", "Moisture") + "\n" + tsvRow("90", "12.5%") + "\n",
	}
	engine := NewEngine(ModeTesseract, newStubTesseract(runner), nil, nil)

	res, err := engine.Recover(context.Background(), path)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if res.Text != "Moisture Level: 12.5%" {
		t.Errorf("text = %q, want trimmed stdout", res.Text)
	}
	if res.Confidence != 85 {
		t.Errorf("confidence = %v, want mean 85", res.Confidence)
	}
	if res.Method != MethodTesseract {
		t.Errorf("method = %q", res.Method)
	}
	if _, statErr := os.Stat(path + ProcessedSuffix); !os.IsNotExist(statErr) {
		t.Error("derived file should be removed after a successful run")
	}
}

func TestEngineCleansUpDerivedFileOnOCRFailure(t *testing.T) {
	path := writeTestImage(t)
	runner := &stubRunner{textErr: errors.New("tesseract crashed")}
	engine := NewEngine(ModeTesseract, newStubTesseract(runner), nil, nil)

	_, err := engine.Recover(context.Background(), path)
	var recovery *RecoveryError
	if !errors.As(err, &recovery) {
		t.Fatalf("err = %v, want RecoveryError", err)
	}
	if recovery.Stage != "ocr" {
		t.Errorf("stage = %q, want ocr", recovery.Stage)
	}
	if _, statErr := os.Stat(path + ProcessedSuffix); !os.IsNotExist(statErr) {
		t.Error("derived file should be removed even when OCR fails")
	}
}

func TestTesseractTSVConfidence(t *testing.T) {
	tsv := tsvHeader + "\n" +
		tsvRow("75", "Hello") + "\n" +
		tsvRow("95", "World") + "\n" +
		tsvRow("-1", "") + "\n" + // block row, skipped
		tsvRow("88", " ") + "\n" + // whitespace word, skipped
		"short\trow\n" // malformed, skipped
	ocr := newStubTesseract(&stubRunner{text: "Hello World", tsv: tsv})

	_, conf, err := ocr.Recognize(context.Background(), "x.png")
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if conf != 85 {
		t.Errorf("confidence = %v, want mean of 75 and 95", conf)
	}
}

func TestTesseractConfidenceDegradesToZero(t *testing.T) {
	ocr := newStubTesseract(&stubRunner{text: "Some text", tsvErr: errors.New("tsv mode broken")})

	text, conf, err := ocr.Recognize(context.Background(), "x.png")
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if text != "Some text" {
		t.Errorf("text = %q", text)
	}
	if conf != 0 {
		t.Errorf("confidence = %v, want 0 when the TSV pass fails", conf)
	}
}

func TestPreprocessImageBinarizes(t *testing.T) {
	path := writeTestImage(t)

	out, err := PreprocessImage(path)
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	defer os.Remove(out)

	if out != path+ProcessedSuffix {
		t.Errorf("out = %q, want %q", out, path+ProcessedSuffix)
	}
	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("open processed: %v", err)
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			v := uint8(r >> 8)
			if v != 0 && v != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want pure black or white", x, y, v)
			}
			if uint8(g>>8) != v || uint8(b>>8) != v {
				t.Fatalf("pixel (%d,%d) not grayscale", x, y)
			}
		}
	}
}

func TestPreprocessFallbackToOriginal(t *testing.T) {
	// Not a decodable image: the engine logs and OCRs the original file.
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := &stubRunner{text: "recovered anyway"}
	engine := NewEngine(ModeTesseract, newStubTesseract(runner), nil, nil)

	res, err := engine.Recover(context.Background(), path)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if res.Text != "recovered anyway" {
		t.Errorf("text = %q", res.Text)
	}
}
