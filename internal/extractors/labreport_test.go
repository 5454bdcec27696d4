package extractors

import (
	"testing"

	"github.com/agritrust/batchcert/internal/entity"
	"github.com/agritrust/batchcert/internal/models"
)

func TestLabReportRoundTrip(t *testing.T) {
	x := NewLabReport(entity.NewExtractor())
	rec := x.Extract("Moisture Level: 12.5%\nPesticide Residue: 0.8 ppm").(*LabReport)

	if rec.MoistureLevel == nil {
		t.Fatal("expected moisture level")
	}
	if rec.MoistureLevel.Value != 12.5 || rec.MoistureLevel.Unit != "%" {
		t.Errorf("moisture = %v %s, want 12.5 %%", rec.MoistureLevel.Value, rec.MoistureLevel.Unit)
	}
	if rec.PesticideContent == nil {
		t.Fatal("expected pesticide content")
	}
	if rec.PesticideContent.Value != 0.8 || rec.PesticideContent.Unit != "ppm" {
		t.Errorf("pesticide = %v %s, want 0.8 ppm", rec.PesticideContent.Value, rec.PesticideContent.Unit)
	}
}

func TestLabReportFullPanel(t *testing.T) {
	text := `Laboratory: Greenfield Testing
Test Date: 2025-03-14
Batch No: B-2201
Moisture: 11.2%
Pesticide residue: 0.5 ppm
Organic Certified
Lead: 0.02 ppm
Mercury: 0.001 ppm
Total plate count: 1200 cfu/g
pH: 6.4
Aflatoxin B1: 2.1 ppb`

	rec := NewLabReport(entity.NewExtractor()).Extract(text).(*LabReport)

	if rec.TestDate == nil || rec.TestDate.ISO != "2025-03-14" {
		t.Errorf("test date = %+v, want 2025-03-14", rec.TestDate)
	}
	if rec.BatchNumber != "B-2201" {
		t.Errorf("batch = %q, want B-2201", rec.BatchNumber)
	}
	if rec.OrganicStatus == nil || !rec.OrganicStatus.Value {
		t.Errorf("organic = %+v, want true", rec.OrganicStatus)
	}
	if got := rec.HeavyMetals["lead"]; got.Value != 0.02 || got.Unit != "ppm" {
		t.Errorf("lead = %+v, want 0.02 ppm", got)
	}
	if _, ok := rec.HeavyMetals["cadmium"]; ok {
		t.Error("cadmium should be absent")
	}
	if rec.MicrobialCount == nil || rec.MicrobialCount.Value != 1200 {
		t.Errorf("microbial count = %+v, want 1200", rec.MicrobialCount)
	}
	if rec.PHLevel == nil || rec.PHLevel.Value != 6.4 {
		t.Errorf("pH = %+v, want 6.4", rec.PHLevel)
	}
	if rec.Aflatoxin == nil || rec.Aflatoxin.Value != 2.1 || rec.Aflatoxin.Unit != "ppb" {
		t.Errorf("aflatoxin = %+v, want 2.1 ppb", rec.Aflatoxin)
	}
	if rec.Confidence < 0.7 {
		t.Errorf("confidence = %v, want >= 0.7 for a dense report", rec.Confidence)
	}
}

func TestLabReportPHOutOfRange(t *testing.T) {
	rec := NewLabReport(entity.NewExtractor()).Extract("pH: 15.2").(*LabReport)
	if rec.PHLevel != nil {
		t.Errorf("pH = %+v, want nil for out-of-range value", rec.PHLevel)
	}
}

func TestLabReportPesticideFallbackToNumberBag(t *testing.T) {
	// No "pesticide"/"residue" label, but a ppm quantity exists in the
	// generic bag; fallback confidence is lower.
	rec := NewLabReport(entity.NewExtractor()).Extract("Analysis shows 0.3 ppm detected in sample.").(*LabReport)
	if rec.PesticideContent == nil {
		t.Fatal("expected fallback pesticide content")
	}
	if rec.PesticideContent.Value != 0.3 || rec.PesticideContent.Confidence != 0.6 {
		t.Errorf("got %+v, want 0.3 at confidence 0.6", rec.PesticideContent)
	}
}

func TestLabReportUnparsableDateKeepsRaw(t *testing.T) {
	rec := NewLabReport(entity.NewExtractor()).Extract("Test Date: next Tuesday\nMoisture: 10%").(*LabReport)
	if rec.TestDate == nil {
		t.Fatal("expected a date value carrying the raw match")
	}
	if rec.TestDate.ISO != "" {
		t.Errorf("ISO = %q, want empty for unparsable date", rec.TestDate.ISO)
	}
	if rec.TestDate.Raw != "next Tuesday" {
		t.Errorf("Raw = %q, want %q", rec.TestDate.Raw, "next Tuesday")
	}
}

func TestLabReportConfidenceEmptyText(t *testing.T) {
	rec := NewLabReport(entity.NewExtractor()).Extract("nothing useful here").(*LabReport)
	if rec.Confidence != 0 {
		t.Errorf("confidence = %v, want 0 with no fields found", rec.Confidence)
	}
}

func TestLabReportColumns(t *testing.T) {
	rec := NewLabReport(entity.NewExtractor()).Extract("Moisture: 12.5%\nPesticide Residue: 0.8 ppm\nBatch No: B-7").(*LabReport)
	cols := rec.Columns()
	if cols.MoistureLevel == nil || *cols.MoistureLevel != 12.5 {
		t.Errorf("moisture column = %v, want 12.5", cols.MoistureLevel)
	}
	if cols.PesticideUnit == nil || *cols.PesticideUnit != "ppm" {
		t.Errorf("pesticide unit column = %v, want ppm", cols.PesticideUnit)
	}
	if cols.BatchNumber == nil || *cols.BatchNumber != "B-7" {
		t.Errorf("batch column = %v, want B-7", cols.BatchNumber)
	}
	if cols.CertificateNumber != nil {
		t.Error("certificate number column should stay nil for lab reports")
	}
}

func TestRegistryAliases(t *testing.T) {
	reg := NewRegistry(entity.NewExtractor())

	lab := reg.ForType(models.DocTypeLabReport)
	if reg.ForType(models.DocTypeFarmingData) != lab {
		t.Error("farming_data should alias the lab-report extractor")
	}
	if reg.ForType(models.DocTypeUnknown) != lab {
		t.Error("unknown should alias the lab-report extractor")
	}
	if reg.ForType(models.DocTypePackaging) == lab {
		t.Error("packaging must have its own extractor")
	}
	if reg.ForType(models.DocumentType("bogus")) != lab {
		t.Error("unrecognized types fall back to the unknown entry")
	}
}
