package extractors

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agritrust/batchcert/internal/entity"
	"github.com/agritrust/batchcert/internal/models"
)

// LabReport is the structured record for laboratory test reports.
type LabReport struct {
	MoistureLevel    *entity.Measurement `json:"moisture_level,omitempty"`
	PesticideContent *entity.Measurement `json:"pesticide_content,omitempty"`
	OrganicStatus    *entity.BoolSignal  `json:"organic_status,omitempty"`
	LabName          string              `json:"lab_name,omitempty"`
	TestDate         *models.DateValue   `json:"test_date,omitempty"`
	BatchNumber      string              `json:"batch_number,omitempty"`
	HeavyMetals      map[string]Quantity `json:"heavy_metals,omitempty"`
	MicrobialCount   *Quantity           `json:"microbial_count,omitempty"`
	PHLevel          *Quantity           `json:"ph_level,omitempty"`
	Aflatoxin        *Quantity           `json:"aflatoxin,omitempty"`
	RawEntities      *entity.Entities    `json:"raw_entities,omitempty"`
	Confidence       float64             `json:"confidence"`
}

func (r *LabReport) DocumentType() models.DocumentType { return models.DocTypeLabReport }
func (r *LabReport) ConfidenceScore() float64          { return r.Confidence }

func (r *LabReport) Columns() models.RecordColumns {
	cols := models.RecordColumns{}
	if r.MoistureLevel != nil {
		cols.MoistureLevel = &r.MoistureLevel.Value
	}
	if r.PesticideContent != nil {
		cols.PesticideContent = &r.PesticideContent.Value
		cols.PesticideUnit = &r.PesticideContent.Unit
	}
	if r.OrganicStatus != nil {
		cols.OrganicStatus = &r.OrganicStatus.Value
	}
	if r.LabName != "" {
		cols.LabName = &r.LabName
	}
	cols.TestDate = columnDate(r.TestDate)
	if r.BatchNumber != "" {
		cols.BatchNumber = &r.BatchNumber
	}
	return cols
}

// LabReportExtractor builds LabReport records. It also serves farming_data
// and unknown documents as a best-effort default via the registry alias.
type LabReportExtractor struct {
	entities *entity.Extractor
}

func NewLabReport(entities *entity.Extractor) *LabReportExtractor {
	return &LabReportExtractor{entities: entities}
}

func (x *LabReportExtractor) Extract(text string) StructuredRecord {
	bag := x.entities.Extract(text)

	rec := &LabReport{
		MoistureLevel:    bag.MoistureLevel,
		PesticideContent: pesticideContent(bag),
		OrganicStatus:    bag.OrganicStatus,
		LabName:          labName(bag),
		TestDate:         testDate(bag),
		HeavyMetals:      heavyMetals(text),
		MicrobialCount:   microbialCount(text),
		PHLevel:          phLevel(text),
		Aflatoxin:        aflatoxin(text),
		RawEntities:      bag,
	}
	if bag.BatchNumber != nil {
		rec.BatchNumber = bag.BatchNumber.Number
	}
	rec.Confidence = labConfidence(rec)

	return rec
}

// pesticideContent falls back to the generic number-with-unit bag when the
// dedicated recognizer found nothing.
func pesticideContent(bag *entity.Entities) *entity.Measurement {
	if bag.PesticideContent != nil {
		return bag.PesticideContent
	}
	for _, num := range bag.NumbersWithUnits {
		switch strings.ToLower(num.Unit) {
		case "ppm", "ppb", "mg/kg":
			return &entity.Measurement{Value: num.Value, Unit: num.Unit, Confidence: 0.6, Source: num.Raw}
		}
	}
	return nil
}

func labName(bag *entity.Entities) string {
	if bag.LabName != nil {
		return bag.LabName.Name
	}
	if len(bag.Organizations) > 0 {
		return bag.Organizations[0].Name
	}
	return ""
}

// testDate prefers the label-directed test_date mention; otherwise the first
// date found positionally is assumed to be the test date.
func testDate(bag *entity.Entities) *models.DateValue {
	for _, d := range bag.Dates {
		if d.Type == entity.DateTypeTest {
			return parseDate(d.Raw)
		}
	}
	if len(bag.Dates) > 0 {
		return parseDate(bag.Dates[0].Raw)
	}
	return nil
}

var heavyMetalNames = []string{"lead", "mercury", "cadmium", "arsenic", "chromium"}

var heavyMetalPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(heavyMetalNames))
	for _, metal := range heavyMetalNames {
		patterns[metal] = regexp.MustCompile(`(?i)` + metal + `\s*:?\s*(\d+\.?\d*)\s*(ppm|ppb|mg/kg)`)
	}
	return patterns
}()

func heavyMetals(text string) map[string]Quantity {
	results := make(map[string]Quantity)
	for _, metal := range heavyMetalNames {
		m := heavyMetalPatterns[metal].FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		results[metal] = Quantity{Value: value, Unit: m[2]}
	}
	if len(results) == 0 {
		return nil
	}
	return results
}

var microbialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:total\s*)?(?:microbial|bacterial)\s*count\s*:?\s*(\d+\.?\d*(?:e[+-]?\d+)?)\s*(?:cfu/g|cfu/ml)?`),
	regexp.MustCompile(`(?i)(?:total\s*)?plate\s*count\s*:?\s*(\d+\.?\d*(?:e[+-]?\d+)?)\s*(?:cfu/g|cfu/ml)?`),
}

func microbialCount(text string) *Quantity {
	for _, p := range microbialPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return &Quantity{Value: value, Unit: "cfu/g"}
	}
	return nil
}

var phPattern = regexp.MustCompile(`(?i)ph\s*(?:level|value)?\s*:?\s*(\d+\.?\d*)`)

func phLevel(text string) *Quantity {
	m := phPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value < 0 || value > 14 {
		return nil
	}
	return &Quantity{Value: value, Unit: "pH"}
}

var aflatoxinPattern = regexp.MustCompile(`(?i)aflatoxin\s*(?:b1|total)?\s*:?\s*(\d+\.?\d*)\s*(ppb|μg/kg|ug/kg)`)

func aflatoxin(text string) *Quantity {
	m := aflatoxinPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &Quantity{Value: value, Unit: m[2]}
}

// labConfidence scores breadth over the important fields, with a boost when
// both core quality metrics were recovered.
func labConfidence(rec *LabReport) float64 {
	found := 0
	if rec.MoistureLevel != nil {
		found++
	}
	if rec.PesticideContent != nil {
		found++
	}
	if rec.OrganicStatus != nil {
		found++
	}
	if rec.LabName != "" {
		found++
	}
	if rec.TestDate != nil {
		found++
	}

	score := float64(found) / 5
	if rec.MoistureLevel != nil && rec.PesticideContent != nil {
		score += 0.10
	}
	return min(score, 0.95)
}
