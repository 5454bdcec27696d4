package entity

import (
	"regexp"
	"strconv"
	"strings"
)

// Extractor runs the recognizer catalog. It holds no state and is safe for
// concurrent use; constructing it explicitly (rather than sharing a global)
// keeps tests free to substitute their own instance.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs every recognizer over text and returns the combined bag.
func (e *Extractor) Extract(text string) *Entities {
	if strings.TrimSpace(text) == "" {
		return &Entities{}
	}

	return &Entities{
		MoistureLevel:     e.moistureLevel(text),
		PesticideContent:  e.pesticideContent(text),
		OrganicStatus:     e.organicStatus(text),
		ISOCodes:          e.isoCodes(text),
		Dates:             e.dates(text),
		LabName:           e.labName(text),
		BatchNumber:       e.batchNumber(text),
		CertificateNumber: e.certificateNumber(text),
		Organizations:     e.organizations(text),
		NumbersWithUnits:  e.numbersWithUnits(text),
	}
}

var moisturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)moisture\s*(?:level|content|%)?\s*:?\s*(-?\d+\.?\d*)\s*%`),
	regexp.MustCompile(`(?i)moisture\s*(?:level|content)?\s*:?\s*(-?\d+\.?\d*)`),
	regexp.MustCompile(`(?i)(-?\d+\.?\d*)\s*%\s*moisture`),
	regexp.MustCompile(`(?i)water\s*content\s*:?\s*(-?\d+\.?\d*)\s*%`),
}

// moistureLevel finds a moisture percentage. Values outside [0,100] are
// discarded, not errors.
func (e *Extractor) moistureLevel(text string) *Measurement {
	for _, p := range moisturePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if value >= 0 && value <= 100 {
			return &Measurement{Value: value, Unit: "%", Confidence: 0.85, Source: m[0]}
		}
	}
	return nil
}

var pesticidePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)pesticide\s*(?:residue|content|level)?\s*:?\s*(\d+\.?\d*)\s*(ppm|mg/kg|ppb)`),
	regexp.MustCompile(`(?i)residue\s*:?\s*(\d+\.?\d*)\s*(ppm|mg/kg|ppb)`),
	regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(ppm|mg/kg|ppb)\s*pesticide`),
}

func (e *Extractor) pesticideContent(text string) *Measurement {
	for _, p := range pesticidePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil || value < 0 {
				continue
			}
			return &Measurement{Value: value, Unit: m[2], Confidence: 0.8, Source: m[0]}
		}
	}
	return nil
}

var organicPositive = []string{
	"organic certified",
	"certified organic",
	"usda organic",
	"eu organic",
	"organic status: yes",
	"organic: yes",
	"organic certification",
}

var organicNegative = []string{
	"not organic",
	"non-organic",
	"conventional",
	"organic status: no",
	"organic: no",
}

func (e *Extractor) organicStatus(text string) *BoolSignal {
	lower := strings.ToLower(text)

	for _, kw := range organicPositive {
		if strings.Contains(lower, kw) {
			return &BoolSignal{Value: true, Confidence: 0.9, Source: kw}
		}
	}
	for _, kw := range organicNegative {
		if strings.Contains(lower, kw) {
			return &BoolSignal{Value: false, Confidence: 0.9, Source: kw}
		}
	}

	// A bare mention of "organic" is a weak positive.
	if strings.Contains(lower, "organic") && !strings.Contains(lower, "non-organic") {
		return &BoolSignal{Value: true, Confidence: 0.6, Source: "organic mentioned"}
	}

	return nil
}

var isoCodePattern = regexp.MustCompile(`(?i)ISO\s*(\d{4,5}(?:[-:]\d{4})?)`)

func (e *Extractor) isoCodes(text string) []ISOCode {
	var codes []ISOCode
	for _, m := range isoCodePattern.FindAllStringSubmatch(text, -1) {
		codes = append(codes, ISOCode{
			Code:       "ISO " + m[1],
			FullMatch:  m[0],
			Confidence: 0.95,
		})
	}
	return codes
}

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`),
		regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`),
		regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}`),
	}
	testDatePattern   = regexp.MustCompile(`(?i)test\s*date\s*:?\s*([^\n]+)`)
	expiryDatePattern = regexp.MustCompile(`(?i)expir(?:y|ation)\s*date\s*:?\s*([^\n]+)`)
)

// dates returns every date-looking substring, positional matches first, then
// label-directed test/expiry matches with higher confidence.
func (e *Extractor) dates(text string) []DateMention {
	var found []DateMention
	for _, p := range datePatterns {
		for _, m := range p.FindAllString(text, -1) {
			found = append(found, DateMention{Raw: m, Confidence: 0.7})
		}
	}

	if m := testDatePattern.FindStringSubmatch(text); m != nil {
		found = append(found, DateMention{Type: DateTypeTest, Raw: strings.TrimSpace(m[1]), Confidence: 0.85})
	}
	if m := expiryDatePattern.FindStringSubmatch(text); m != nil {
		found = append(found, DateMention{Type: DateTypeExpiry, Raw: strings.TrimSpace(m[1]), Confidence: 0.85})
	}

	return found
}

var labNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:laboratory|lab)\s*:?\s*([A-Z][A-Za-z\s&]+(?:Lab|Laboratory|Testing|Services))`),
	regexp.MustCompile(`(?i)tested\s*by\s*:?\s*([A-Z][A-Za-z\s&]+)`),
	regexp.MustCompile(`([A-Z][A-Za-z\s&]+(?:Lab|Laboratory|Testing|Services))`),
}

func (e *Extractor) labName(text string) *NameMatch {
	for _, p := range labNamePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return &NameMatch{Name: strings.TrimSpace(m[1]), Confidence: 0.75, Source: m[0]}
		}
	}
	return nil
}

// Identifier patterns are tried in a fixed priority order; the first match
// wins.
var batchNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)batch\s*(?:number|no\.?|#)\s*:?\s*([A-Z0-9\-]+)`),
	regexp.MustCompile(`(?i)lot\s*(?:number|no\.?|#)\s*:?\s*([A-Z0-9\-]+)`),
	regexp.MustCompile(`(?i)batch\s*:?\s*([A-Z0-9\-]{4,})`),
}

func (e *Extractor) batchNumber(text string) *IDMatch {
	for _, p := range batchNumberPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return &IDMatch{Number: strings.TrimSpace(m[1]), Confidence: 0.8, Source: m[0]}
		}
	}
	return nil
}

var certificateNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)certificate\s*(?:number|no\.?|#)\s*:?\s*([A-Z0-9\-/]+)`),
	regexp.MustCompile(`(?i)cert\.?\s*(?:number|no\.?|#)\s*:?\s*([A-Z0-9\-/]+)`),
	regexp.MustCompile(`(?i)registration\s*(?:number|no\.?|#)\s*:?\s*([A-Z0-9\-/]+)`),
}

func (e *Extractor) certificateNumber(text string) *IDMatch {
	for _, p := range certificateNumberPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return &IDMatch{Number: strings.TrimSpace(m[1]), Confidence: 0.8, Source: m[0]}
		}
	}
	return nil
}

var organizationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][A-Za-z\s&]+(?:Laboratory|Lab|Testing|Services|Inc|LLC|Ltd|Corporation|Corp))`),
	regexp.MustCompile(`(?i)(?:issued by|tested by|certified by)\s*:?\s*([A-Z][A-Za-z\s&]+)`),
}

func (e *Extractor) organizations(text string) []NameMatch {
	var orgs []NameMatch
	for _, p := range organizationPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if len(name) > 3 && len(name) < 100 {
				orgs = append(orgs, NameMatch{Name: name, Confidence: 0.7})
			}
		}
	}
	return orgs
}

var numberUnitPattern = regexp.MustCompile(`(\d+\.?\d*)\s*([a-zA-Z%/]+)`)

func (e *Extractor) numbersWithUnits(text string) []NumberUnit {
	var results []NumberUnit
	for _, m := range numberUnitPattern.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		results = append(results, NumberUnit{Value: value, Unit: m[2], Raw: m[0]})
	}
	return results
}
