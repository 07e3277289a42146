package relevance

import "strings"

// Bonus multipliers applied once the match count crosses each threshold.
// They only amplify, so adding a matching keyword never lowers the score.
const (
	bonusThresholdLow   = 2
	bonusMultiplierLow  = 1.2
	bonusThresholdHigh  = 4
	bonusMultiplierHigh = 1.4
)

// Scorer scores text against the configured keyword vocabulary. All matching
// is case-insensitive substring membership. Stage one (TitleScore) is the
// cheap admission gate; stage two (ContentScore) is the authoritative
// ranking score.
type Scorer struct {
	keywords Keywords
	weights  map[string]float64
}

// NewScorer builds a Scorer. Empty keyword sets fall back to the defaults.
func NewScorer(keywords Keywords) *Scorer {
	if len(keywords.Categories) == 0 {
		keywords = DefaultKeywords()
	}
	weights := make(map[string]float64)
	for _, cat := range keywords.Categories {
		for _, kw := range cat.Keywords {
			weights[strings.ToLower(kw)] = cat.Weight
		}
	}
	return &Scorer{keywords: keywords, weights: weights}
}

// TitleScore counts keyword hits in the title+URL string, one point each.
// The feed resolver admits anything scoring at least 1.0.
func (s *Scorer) TitleScore(title, url string) (float64, []string) {
	combined := strings.ToLower(title + " " + url)
	var found []string
	for kw := range keywordsInOrder(s.keywords) {
		if strings.Contains(combined, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return float64(len(found)), found
}

// ContentScore weights each distinct matched keyword by its category weight
// and applies the escalating bonus multipliers. This is the score selection
// ranks on.
func (s *Scorer) ContentScore(title, content string) (float64, []string) {
	combined := strings.ToLower(title + " " + content)
	var (
		score float64
		found []string
	)
	for kw := range keywordsInOrder(s.keywords) {
		lower := strings.ToLower(kw)
		if !strings.Contains(combined, lower) {
			continue
		}
		found = append(found, kw)
		score += s.weights[lower]
	}
	if len(found) > bonusThresholdLow {
		score *= bonusMultiplierLow
	}
	if len(found) > bonusThresholdHigh {
		score *= bonusMultiplierHigh
	}
	return score, found
}

// PassesDomainValidation requires at least one core-vocabulary term in the
// text, independent of the numeric score. A high score built entirely from
// peripheral terms is not on-topic.
func (s *Scorer) PassesDomainValidation(title, content string) bool {
	combined := strings.ToLower(title + " " + content)
	for _, term := range s.keywords.CoreTerms {
		if strings.Contains(combined, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// keywordsInOrder iterates categories in declaration order so matched
// keyword lists are deterministic.
func keywordsInOrder(k Keywords) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for _, cat := range k.Categories {
			for _, kw := range cat.Keywords {
				if !yield(kw) {
					return
				}
			}
		}
	}
}
