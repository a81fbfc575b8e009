// Package caption measures generated captions against platform and brand rules.
package caption

import (
	"strings"
	"unicode/utf8"

	"github.com/content-synth/internal/catalog"
)

// LengthStatus classifies a caption against its platform limit
type LengthStatus string

const (
	LengthGood     LengthStatus = "good"
	LengthWarning  LengthStatus = "warning"
	LengthExceeded LengthStatus = "exceeded"
)

// Alignment scoring constants
const (
	MaxScore          = 100
	MinScore          = 60
	KeywordPenalty    = 15
	TonePenalty       = 10
	MinKeywordMatches = 2
)

// ClassifyLength counts the characters (runes) of caption and compares them
// with limit and limit+tolerance.
func ClassifyLength(caption string, limit, tolerance int) (LengthStatus, int) {
	length := utf8.RuneCountInString(caption)

	switch {
	case length <= limit:
		return LengthGood, length
	case length <= limit+tolerance:
		return LengthWarning, length
	default:
		return LengthExceeded, length
	}
}

// Evaluator scores captions using the catalog's personas and tones
type Evaluator struct {
	catalog *catalog.Catalog
}

// NewEvaluator creates an evaluator over the given catalog
func NewEvaluator(c *catalog.Catalog) *Evaluator {
	return &Evaluator{catalog: c}
}

// ClassifyForPlatform classifies caption with the platform's limit and tolerance
func (e *Evaluator) ClassifyForPlatform(caption string, platform catalog.PlatformProfile) (LengthStatus, int) {
	return ClassifyLength(caption, platform.CharLimit, platform.Tolerance)
}

// ScoreAlignment estimates how well caption matches a persona and brand tone.
// The result is always within [MinScore, MaxScore].
func (e *Evaluator) ScoreAlignment(caption, persona, brandTone string) int {
	text := strings.ToLower(caption)
	score := MaxScore

	var keywords []string
	if p, err := e.catalog.LookupPersona(persona); err == nil {
		keywords = p.VisualKeywords
	}
	if countMatches(text, keywords) < MinKeywordMatches {
		score -= KeywordPenalty
	}

	// Unknown tones carry no indicators and are not penalised.
	if tone, ok := e.catalog.Tone(brandTone); ok {
		if countMatches(text, tone.Indicators) == 0 {
			score -= TonePenalty
		}
	}

	if score < MinScore {
		score = MinScore
	}
	return score
}

// countMatches counts distinct words that occur as case-insensitive substrings of text.
// text must already be lower-cased.
func countMatches(text string, words []string) int {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		if strings.Contains(text, w) {
			seen[w] = struct{}{}
		}
	}
	return len(seen)
}
