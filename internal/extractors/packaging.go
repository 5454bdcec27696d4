package extractors

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agritrust/batchcert/internal/entity"
	"github.com/agritrust/batchcert/internal/models"
)

// Packaging is the structured record for product packaging photos/labels.
type Packaging struct {
	ISOCodes            []string          `json:"iso_codes,omitempty"`
	OrganicCertified    *bool             `json:"organic_certified,omitempty"`
	CertificationLogos  []string          `json:"certification_logos,omitempty"`
	BatchNumber         string            `json:"batch_number,omitempty"`
	ManufacturingDate   *models.DateValue `json:"manufacturing_date,omitempty"`
	ExpiryDate          *models.DateValue `json:"expiry_date,omitempty"`
	ProductName         string            `json:"product_name,omitempty"`
	NetWeight           *Quantity         `json:"net_weight,omitempty"`
	Ingredients         []string          `json:"ingredients,omitempty"`
	StorageInstructions string            `json:"storage_instructions,omitempty"`
	RawEntities         *entity.Entities  `json:"raw_entities,omitempty"`
	Confidence          float64           `json:"confidence"`
}

func (r *Packaging) DocumentType() models.DocumentType { return models.DocTypePackaging }
func (r *Packaging) ConfidenceScore() float64          { return r.Confidence }

func (r *Packaging) Columns() models.RecordColumns {
	cols := models.RecordColumns{ISOCodes: r.ISOCodes}
	cols.OrganicStatus = r.OrganicCertified
	if r.BatchNumber != "" {
		cols.BatchNumber = &r.BatchNumber
	}
	cols.ExpiryDate = columnDate(r.ExpiryDate)
	return cols
}

// PackagingExtractor builds Packaging records.
type PackagingExtractor struct {
	entities *entity.Extractor
}

func NewPackaging(entities *entity.Extractor) *PackagingExtractor {
	return &PackagingExtractor{entities: entities}
}

func (x *PackagingExtractor) Extract(text string) StructuredRecord {
	bag := x.entities.Extract(text)

	rec := &Packaging{
		ISOCodes:            isoCodeStrings(bag),
		OrganicCertified:    organicCertified(bag, text),
		CertificationLogos:  certificationLogos(text),
		ManufacturingDate:   manufacturingDate(bag, text),
		ExpiryDate:          packagingExpiryDate(bag, text),
		ProductName:         productName(text),
		NetWeight:           netWeight(text),
		Ingredients:         ingredients(text),
		StorageInstructions: storageInstructions(text),
		RawEntities:         bag,
	}
	if bag.BatchNumber != nil {
		rec.BatchNumber = bag.BatchNumber.Number
	}
	rec.Confidence = packagingConfidence(rec)

	return rec
}

func isoCodeStrings(bag *entity.Entities) []string {
	if len(bag.ISOCodes) == 0 {
		return nil
	}
	codes := make([]string, len(bag.ISOCodes))
	for i, iso := range bag.ISOCodes {
		codes[i] = iso.Code
	}
	return codes
}

var organicCertKeywords = []string{
	"usda organic",
	"eu organic",
	"certified organic",
	"organic certified",
	"100% organic",
}

// organicCertified prefers the entity-derived signal, then falls back to an
// explicit certification keyword. Absence of both is unknown, not false.
func organicCertified(bag *entity.Entities, text string) *bool {
	if bag.OrganicStatus != nil {
		return &bag.OrganicStatus.Value
	}
	lower := strings.ToLower(text)
	for _, kw := range organicCertKeywords {
		if strings.Contains(lower, kw) {
			v := true
			return &v
		}
	}
	return nil
}

// Fixed catalog of certification marks detectable as label text.
var knownCertificationLogos = []string{
	"USDA Organic",
	"EU Organic",
	"Fair Trade",
	"Rainforest Alliance",
	"Non-GMO",
	"Kosher",
	"Halal",
	"Vegan",
	"Gluten Free",
	"BRC",
	"HACCP",
	"GMP",
}

func certificationLogos(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, logo := range knownCertificationLogos {
		if strings.Contains(lower, strings.ToLower(logo)) {
			found = append(found, logo)
		}
	}
	return found
}

var mfgDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:mfg|manufactured|production)\s*(?:date)?\s*:?\s*([^\n]+)`),
	regexp.MustCompile(`(?i)(?:made|packed)\s*(?:on)?\s*:?\s*([^\n]+)`),
}

// manufacturingDate: label-directed extraction wins; the positional date
// list is only consulted for mentions that themselves carry a
// manufacturing marker.
func manufacturingDate(bag *entity.Entities, text string) *models.DateValue {
	for _, p := range mfgDatePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return parseDate(m[1])
		}
	}
	for _, d := range bag.Dates {
		lower := strings.ToLower(d.Raw)
		if strings.Contains(lower, "mfg") || strings.Contains(lower, "manufactured") {
			return parseDate(d.Raw)
		}
	}
	return nil
}

var expiryLabelPattern = regexp.MustCompile(`(?i)(?:exp|expiry|expiration|best\s*before|use\s*by)\s*(?:date)?\s*:?\s*([^\n]+)`)

func packagingExpiryDate(bag *entity.Entities, text string) *models.DateValue {
	if m := expiryLabelPattern.FindStringSubmatch(text); m != nil {
		return parseDate(m[1])
	}
	for _, d := range bag.Dates {
		if d.Type == entity.DateTypeExpiry {
			return parseDate(d.Raw)
		}
	}
	return nil
}

var productNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)product\s*(?:name)?\s*:?\s*([A-Z][^\n]+)`),
	regexp.MustCompile(`(?m)^([A-Z][A-Za-z ]+)$`),
}

// productName: an explicit "Product:" label wins; otherwise the first
// capitalized line is assumed to be the product name.
func productName(text string) string {
	for _, p := range productNamePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			if len(name) > 3 && len(name) < 100 {
				return name
			}
		}
	}
	return ""
}

var netWeightPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)net\s*(?:weight|wt\.?|content)\s*:?\s*(\d+\.?\d*)\s*(kg|g|lb|oz|ml|l)\b`),
	regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(kg|g|lb|oz|ml|l)\s*net`),
	regexp.MustCompile(`(?i)weight\s*:?\s*(\d+\.?\d*)\s*(kg|g|lb|oz|ml|l)\b`),
}

func netWeight(text string) *Quantity {
	for _, p := range netWeightPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return &Quantity{Value: value, Unit: m[2]}
	}
	return nil
}

var ingredientsPattern = regexp.MustCompile(`(?i)ingredients\s*:?\s*([^\n]+)`)

// ingredients splits the text after an "Ingredients:" label on comma or
// semicolon, keeping only plausibly sized tokens.
func ingredients(text string) []string {
	m := ingredientsPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var items []string
	for _, part := range strings.FieldsFunc(m[1], func(r rune) bool { return r == ',' || r == ';' }) {
		item := strings.TrimSpace(part)
		if len(item) > 0 && len(item) < 50 {
			items = append(items, item)
		}
	}
	return items
}

var storagePattern = regexp.MustCompile(`(?i)storage\s*(?:instructions|conditions)?\s*:?\s*([^\n]+)`)

func storageInstructions(text string) string {
	if m := storagePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// packagingConfidence scores breadth over the important fields; finding a
// certification signal (ISO codes or known logos) is worth a boost on its
// own.
func packagingConfidence(rec *Packaging) float64 {
	found := 0
	if len(rec.ISOCodes) > 0 {
		found++
	}
	if rec.BatchNumber != "" {
		found++
	}
	if rec.ManufacturingDate != nil {
		found++
	}
	if rec.ExpiryDate != nil {
		found++
	}
	if rec.ProductName != "" {
		found++
	}
	if rec.NetWeight != nil {
		found++
	}

	score := float64(found) / 6
	if len(rec.ISOCodes) > 0 || len(rec.CertificationLogos) > 0 {
		return min(score+0.1, 0.95)
	}
	return min(score, 0.9)
}
