// Package classifier assigns a document-type label to a batch attachment
// from filename and content heuristics. Classification is a pure function of
// its inputs; the weights below are empirically fixed constants, not learned.
package classifier

import (
	"regexp"
	"strings"

	"github.com/agritrust/batchcert/internal/models"
)

// Confidence levels assigned by the two classification branches.
const (
	filenameMatchConfidence = 0.85
	filenameMissConfidence  = 0.3
	shortTextConfidence     = 0.2
	contentMaxConfidence    = 0.95

	// minContentLength is the minimum text length worth keyword-scoring.
	minContentLength = 50
)

type filenameFamily struct {
	docType  models.DocumentType
	patterns []*regexp.Regexp
}

// Filename families are checked in order; the first family with any match
// wins.
var filenameFamilies = []filenameFamily{
	{models.DocTypeLabReport, compileAll(
		`lab.*report`,
		`test.*report`,
		`analysis.*report`,
		`quality.*test`,
		`laboratory`,
		`assay`,
	)},
	{models.DocTypePackaging, compileAll(
		`package`,
		`packaging`,
		`label`,
		`box`,
		`container`,
	)},
	{models.DocTypeCertificate, compileAll(
		`certificate`,
		`cert`,
		`certification`,
		`iso.*\d+`,
		`compliance`,
	)},
	{models.DocTypeFarmingData, compileAll(
		`farm`,
		`harvest`,
		`crop`,
		`field.*data`,
		`agricultural`,
	)},
}

type weightedKeyword struct {
	term   string
	weight float64
}

type keywordFamily struct {
	docType  models.DocumentType
	keywords []weightedKeyword
}

// Content keyword weights per type. Per-type scores are capped at 1.0; on
// equal scores the earlier family wins.
var keywordFamilies = []keywordFamily{
	{models.DocTypeLabReport, []weightedKeyword{
		{"laboratory", 0.15},
		{"test result", 0.15},
		{"analysis", 0.1},
		{"moisture", 0.15},
		{"pesticide", 0.15},
		{"residue", 0.1},
		{"sample", 0.1},
		{"method", 0.05},
		{"tested by", 0.1},
		{"test date", 0.1},
		{"ppm", 0.1},
		{"mg/kg", 0.1},
	}},
	{models.DocTypePackaging, []weightedKeyword{
		{"ingredients", 0.2},
		{"net weight", 0.15},
		{"manufactured", 0.15},
		{"expiry", 0.15},
		{"best before", 0.15},
		{"batch", 0.1},
		{"lot", 0.1},
		{"organic", 0.1},
		{"nutrition", 0.1},
		{"storage", 0.05},
	}},
	{models.DocTypeCertificate, []weightedKeyword{
		{"certificate", 0.2},
		{"certified", 0.15},
		{"certification", 0.15},
		{"iso ", 0.2},
		{"hereby certif", 0.2},
		{"valid until", 0.15},
		{"issued by", 0.1},
		{"accredited", 0.1},
		{"compliance", 0.1},
		{"standard", 0.05},
	}},
	{models.DocTypeFarmingData, []weightedKeyword{
		{"harvest", 0.15},
		{"crop", 0.15},
		{"field", 0.1},
		{"farm", 0.15},
		{"yield", 0.15},
		{"planting", 0.1},
		{"irrigation", 0.1},
		{"fertilizer", 0.1},
		{"soil", 0.1},
		{"season", 0.05},
	}},
}

// Classifier labels documents. It holds no state; a single instance is safe
// for concurrent use.
type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify scores both the filename and the recovered text. An unambiguous
// filename (confidence > 0.8) short-circuits before content scoring; a
// confident content score (> 0.7) wins next; otherwise the higher-confidence
// candidate is returned, ties favoring the filename result.
func (c *Classifier) Classify(filename, text string) models.Classification {
	byName := c.classifyByFilename(strings.ToLower(filename))
	if byName.Confidence > 0.8 {
		return byName
	}

	byContent := c.classifyByContent(strings.ToLower(text))
	if byContent.Confidence > 0.7 {
		return byContent
	}

	if byName.Confidence >= byContent.Confidence {
		return byName
	}
	return byContent
}

// QuickClassify classifies from the filename alone, for use before text
// recovery has run.
func (c *Classifier) QuickClassify(filename string) models.Classification {
	return c.classifyByFilename(strings.ToLower(filename))
}

func (c *Classifier) classifyByFilename(filename string) models.Classification {
	for _, family := range filenameFamilies {
		for _, pattern := range family.patterns {
			if pattern.MatchString(filename) {
				return models.Classification{
					Type:           family.docType,
					Confidence:     filenameMatchConfidence,
					Method:         models.MethodFilename,
					MatchedPattern: pattern.String(),
				}
			}
		}
	}

	// Low but non-zero: "not classified" rather than an error.
	return models.Classification{
		Type:       models.DocTypeUnknown,
		Confidence: filenameMissConfidence,
		Method:     models.MethodFilename,
	}
}

func (c *Classifier) classifyByContent(text string) models.Classification {
	if len(text) < minContentLength {
		return models.Classification{
			Type:       models.DocTypeUnknown,
			Confidence: shortTextConfidence,
			Method:     models.MethodContent,
		}
	}

	scores := make(map[models.DocumentType]float64, len(keywordFamilies))
	maxType := models.DocTypeUnknown
	maxScore := 0.0
	for _, family := range keywordFamilies {
		score := scoreKeywords(text, family.keywords)
		scores[family.docType] = score
		if score > maxScore {
			maxScore = score
			maxType = family.docType
		}
	}

	return models.Classification{
		Type:       maxType,
		Confidence: min(maxScore, contentMaxConfidence),
		Method:     models.MethodContent,
		Scores:     scores,
	}
}

func scoreKeywords(text string, keywords []weightedKeyword) float64 {
	score := 0.0
	for _, kw := range keywords {
		if strings.Contains(text, kw.term) {
			score += kw.weight
		}
	}
	return min(score, 1.0)
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return patterns
}
