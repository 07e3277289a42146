package relevance

import "strings"

// URLFilter is the cheap lexical pre-filter for sitemap URLs: denylisted
// category/index pages are rejected outright, everything else must contain
// at least one scoring keyword.
type URLFilter struct {
	keywords []string
	denylist map[string]struct{}
}

// NewURLFilter builds a filter over the given vocabulary and denylist URLs.
// Denylist entries match exactly or with a trailing slash stripped.
func NewURLFilter(keywords Keywords, denylist []string) *URLFilter {
	if len(keywords.Categories) == 0 {
		keywords = DefaultKeywords()
	}
	deny := make(map[string]struct{}, len(denylist))
	for _, u := range denylist {
		deny[strings.TrimSuffix(u, "/")] = struct{}{}
	}
	lowered := make([]string, 0)
	for _, kw := range keywords.All() {
		lowered = append(lowered, strings.ToLower(kw))
	}
	return &URLFilter{keywords: lowered, denylist: deny}
}

// IsRelevant reports whether the URL should survive the pre-download prune.
// Pure function of the configured keyword set and denylist.
func (f *URLFilter) IsRelevant(url string) bool {
	if _, denied := f.denylist[strings.TrimSuffix(url, "/")]; denied {
		return false
	}
	lower := strings.ToLower(url)
	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DefaultDenylist returns the category and section pages excluded per
// publication regardless of keyword content.
func DefaultDenylist() []string {
	return []string{
		"https://nationaljeweler.com/",
		"https://nationaljeweler.com/industry",
		"https://nationaljeweler.com/industry/industry-other",
		"https://nationaljeweler.com/industry/independents",
		"https://nationaljeweler.com/industry/events-awards",
		"https://nationaljeweler.com/industry/financials",
		"https://nationaljeweler.com/industry/supplier-bulletin",
		"https://nationaljeweler.com/industry/technology",
		"https://nationaljeweler.com/industry/surveys",
		"https://nationaljeweler.com/industry/policies-issues",
		"https://nationaljeweler.com/industry/crime",
		"https://nationaljeweler.com/industry/majors",
		"https://nationaljeweler.com/diamonds-gems",
		"https://nationaljeweler.com/diamonds-gems/diamonds-gems-other",
		"https://nationaljeweler.com/diamonds-gems/lab-grown",
		"https://nationaljeweler.com/diamonds-gems/grading",
		"https://nationaljeweler.com/diamonds-gems/sourcing",
		"https://nationaljeweler.com/style",
		"https://nationaljeweler.com/style/style-other",
		"https://nationaljeweler.com/style/trends",
		"https://nationaljeweler.com/style/auctions",
		"https://nationaljeweler.com/style/watches",
		"https://nationaljeweler.com/style/collections",
		"https://nationaljeweler.com/opinions",
		"https://nationaljeweler.com/opinions/editors",
		"https://nationaljeweler.com/opinions/columnists",
	}
}
