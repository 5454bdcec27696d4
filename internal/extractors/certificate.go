package extractors

import (
	"regexp"
	"strings"

	"github.com/agritrust/batchcert/internal/entity"
	"github.com/agritrust/batchcert/internal/models"
)

// Certificate is the structured record for compliance certificates.
type Certificate struct {
	CertificateType   string            `json:"certificate_type,omitempty"`
	CertificateNumber string            `json:"certificate_number,omitempty"`
	ISOCodes          []string          `json:"iso_codes,omitempty"`
	IssuedTo          string            `json:"issued_to,omitempty"`
	IssuedBy          string            `json:"issued_by,omitempty"`
	IssueDate         *models.DateValue `json:"issue_date,omitempty"`
	ExpiryDate        *models.DateValue `json:"expiry_date,omitempty"`
	// Valid is tri-state: true/false from explicit validity language, nil
	// when the text says neither.
	Valid         *bool            `json:"valid"`
	Scope         string           `json:"scope,omitempty"`
	Accreditation string           `json:"accreditation,omitempty"`
	RawEntities   *entity.Entities `json:"raw_entities,omitempty"`
	Confidence    float64          `json:"confidence"`
}

func (r *Certificate) DocumentType() models.DocumentType { return models.DocTypeCertificate }
func (r *Certificate) ConfidenceScore() float64          { return r.Confidence }

func (r *Certificate) Columns() models.RecordColumns {
	cols := models.RecordColumns{ISOCodes: r.ISOCodes}
	if r.CertificateNumber != "" {
		cols.CertificateNumber = &r.CertificateNumber
	}
	cols.ExpiryDate = columnDate(r.ExpiryDate)
	return cols
}

// CertificateExtractor builds Certificate records.
type CertificateExtractor struct {
	entities *entity.Extractor
}

func NewCertificate(entities *entity.Extractor) *CertificateExtractor {
	return &CertificateExtractor{entities: entities}
}

func (x *CertificateExtractor) Extract(text string) StructuredRecord {
	bag := x.entities.Extract(text)

	rec := &Certificate{
		CertificateType: certificateType(text),
		ISOCodes:        isoCodeStrings(bag),
		IssuedTo:        issuedTo(text),
		IssuedBy:        issuedBy(bag, text),
		IssueDate:       issueDate(bag, text),
		ExpiryDate:      certExpiryDate(bag, text),
		Valid:           checkValidity(text),
		Scope:           certScope(text),
		Accreditation:   accreditation(text),
		RawEntities:     bag,
	}
	if bag.CertificateNumber != nil {
		rec.CertificateNumber = bag.CertificateNumber.Number
	}
	rec.Confidence = certConfidence(rec)

	return rec
}

// Known certification standards, checked before the generic "Certificate of
// X" fallback.
var certificateTypes = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`(?i)iso\s*22000`), "ISO 22000 - Food Safety Management"},
	{regexp.MustCompile(`(?i)iso\s*9001`), "ISO 9001 - Quality Management"},
	{regexp.MustCompile(`(?i)iso\s*14001`), "ISO 14001 - Environmental Management"},
	{regexp.MustCompile(`(?i)haccp`), "HACCP Certification"},
	{regexp.MustCompile(`(?i)organic\s*certif`), "Organic Certification"},
	{regexp.MustCompile(`(?i)gmp`), "GMP Certification"},
	{regexp.MustCompile(`(?i)brc`), "BRC Certification"},
	{regexp.MustCompile(`(?i)fssc\s*22000`), "FSSC 22000"},
	{regexp.MustCompile(`(?i)global\s*gap`), "GlobalGAP"},
}

var genericCertPattern = regexp.MustCompile(`(?i)certificate\s*of\s*([^\n]+)`)

func certificateType(text string) string {
	for _, ct := range certificateTypes {
		if ct.pattern.MatchString(text) {
			return ct.name
		}
	}
	if m := genericCertPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "Unknown Certificate"
}

var issuedToPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:issued|granted|awarded)\s*to\s*:?\s*([A-Z][^\n]+)`),
	regexp.MustCompile(`(?i)this\s*(?:is\s*to\s*)?certif(?:y|ies)\s*that\s*:?\s*([A-Z][^\n]+)`),
	regexp.MustCompile(`(?i)certificate\s*holder\s*:?\s*([A-Z][^\n]+)`),
}

var issuedToSuffixPattern = regexp.MustCompile(`(?i)\s*has\s*successfully.*`)

func issuedTo(text string) string {
	for _, p := range issuedToPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := issuedToSuffixPattern.ReplaceAllString(strings.TrimSpace(m[1]), "")
		name = strings.TrimSpace(name)
		if len(name) > 3 && len(name) < 200 {
			return name
		}
	}
	return ""
}

var issuedByPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)issued\s*by\s*:?\s*([A-Z][^\n]+)`),
	regexp.MustCompile(`(?i)certifying\s*body\s*:?\s*([A-Z][^\n]+)`),
	regexp.MustCompile(`(?i)certification\s*body\s*:?\s*([A-Z][^\n]+)`),
}

func issuedBy(bag *entity.Entities, text string) string {
	for _, p := range issuedByPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	// Fall back to any organization that looks like a certifying body.
	for _, org := range bag.Organizations {
		lower := strings.ToLower(org.Name)
		if strings.Contains(lower, "certif") || strings.Contains(lower, "accredit") || strings.Contains(lower, "bureau") {
			return org.Name
		}
	}
	return ""
}

var issueDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:issue|issued|grant|granted)\s*(?:date|on)\s*:?\s*([^\n]+)`),
	regexp.MustCompile(`(?i)date\s*of\s*issue\s*:?\s*([^\n]+)`),
}

// issueDate: an explicit label wins; otherwise the first date in the text is
// assumed to be the issue date.
func issueDate(bag *entity.Entities, text string) *models.DateValue {
	for _, p := range issueDatePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return parseDate(m[1])
		}
	}
	if len(bag.Dates) > 0 {
		return parseDate(bag.Dates[0].Raw)
	}
	return nil
}

var certExpiryPattern = regexp.MustCompile(`(?i)(?:expir(?:y|es|ation)|valid\s*until|valid\s*through)\s*(?:date)?\s*:?\s*([^\n]+)`)

// certExpiryDate: explicit labels always win over positional inference; the
// second date in the text is the positional guess.
func certExpiryDate(bag *entity.Entities, text string) *models.DateValue {
	if m := certExpiryPattern.FindStringSubmatch(text); m != nil {
		return parseDate(m[1])
	}
	if len(bag.Dates) > 1 {
		for _, d := range bag.Dates {
			if d.Type == entity.DateTypeExpiry {
				return parseDate(d.Raw)
			}
		}
		return parseDate(bag.Dates[1].Raw)
	}
	return nil
}

var revocationKeywords = []string{"revoked", "suspended", "cancelled", "expired"}

// checkValidity derives the tri-state validity flag. Revocation language
// overrides any positive "valid" wording.
func checkValidity(text string) *bool {
	lower := strings.ToLower(text)

	for _, kw := range revocationKeywords {
		if strings.Contains(lower, kw) {
			v := false
			return &v
		}
	}

	if strings.Contains(lower, "valid") && !strings.Contains(lower, "invalid") {
		v := true
		return &v
	}
	if strings.Contains(lower, "hereby certif") || strings.Contains(lower, "is certified") {
		v := true
		return &v
	}

	return nil
}

var scopePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)scope\s*(?:of\s*certification)?\s*:?\s*([^\n]+)`),
	regexp.MustCompile(`(?i)certified\s*for\s*:?\s*([^\n]+)`),
	regexp.MustCompile(`(?i)activities\s*covered\s*:?\s*([^\n]+)`),
}

func certScope(text string) string {
	for _, p := range scopePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		scope := strings.TrimSpace(m[1])
		if len(scope) > 10 && len(scope) < 500 {
			return scope
		}
	}
	return ""
}

var accreditationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)accredited\s*by\s*:?\s*([A-Z][^\n]+)`),
	regexp.MustCompile(`(?i)accreditation\s*(?:number|no\.?)?\s*:?\s*([A-Z0-9\-/]+)`),
}

func accreditation(text string) string {
	for _, p := range accreditationPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// certConfidence scores breadth over the important fields; an ISO code or a
// certificate number is a strong discriminating signal worth a larger boost.
func certConfidence(rec *Certificate) float64 {
	found := 0
	if rec.CertificateType != "" && rec.CertificateType != "Unknown Certificate" {
		found++
	}
	if rec.CertificateNumber != "" {
		found++
	}
	if rec.IssuedTo != "" {
		found++
	}
	if rec.IssuedBy != "" {
		found++
	}
	if rec.IssueDate != nil {
		found++
	}
	if len(rec.ISOCodes) > 0 {
		found++
	}

	score := float64(found) / 6
	if len(rec.ISOCodes) > 0 || rec.CertificateNumber != "" {
		return min(score+0.15, 0.95)
	}
	return min(score, 0.9)
}
