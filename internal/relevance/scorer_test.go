package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleScoreCountsHits(t *testing.T) {
	s := NewScorer(Keywords{})

	score, found := s.TitleScore(
		"Cartier unveils new high jewellery collection",
		"https://www.vogue.co.uk/jewellery/cartier-high-jewellery",
	)
	assert.GreaterOrEqual(t, score, 2.0)
	assert.Contains(t, found, "cartier")
	assert.Contains(t, found, "jewellery")
}

func TestTitleScoreZeroForOffTopic(t *testing.T) {
	s := NewScorer(Keywords{})

	score, found := s.TitleScore("Quarterly grain futures report", "https://example.com/markets/grain")
	assert.Zero(t, score)
	assert.Empty(t, found)
}

func TestContentScoreDistinctKeywordsNoBonusAtTwo(t *testing.T) {
	s := NewScorer(Keywords{})

	// diamond appears twice but counts once; two distinct matches sit
	// exactly on the low bonus threshold, which is strict.
	score, found := s.ContentScore("", "diamond diamond necklace")
	require.Len(t, found, 2)
	assert.InDelta(t, 10.0, score, 1e-9)
}

func TestContentScoreBonusesAreCumulative(t *testing.T) {
	s := NewScorer(Keywords{})

	score3, found3 := s.ContentScore("", "diamond necklace gold")
	require.Len(t, found3, 3)
	assert.InDelta(t, 15.0*1.2, score3, 1e-9)

	score5, found5 := s.ContentScore("", "diamond necklace gold emerald ruby")
	require.Len(t, found5, 5)
	assert.InDelta(t, 25.0*1.2*1.4, score5, 1e-9)
}

func TestContentScoreMonotonicInKeywords(t *testing.T) {
	s := NewScorer(Keywords{})

	base, _ := s.ContentScore("", "diamond necklace gold emerald")
	more, _ := s.ContentScore("", "diamond necklace gold emerald ruby")
	assert.GreaterOrEqual(t, more, base)
}

func TestContentScoreCaseInsensitive(t *testing.T) {
	s := NewScorer(Keywords{})

	upper, _ := s.ContentScore("DIAMOND NECKLACE", "")
	lower, _ := s.ContentScore("diamond necklace", "")
	assert.Equal(t, lower, upper)
}

func TestPassesDomainValidation(t *testing.T) {
	s := NewScorer(Keywords{})

	// Peripheral terms alone score points but do not validate.
	score, _ := s.ContentScore("", "fashion collection launch trends")
	assert.Greater(t, score, 0.0)
	assert.False(t, s.PassesDomainValidation("", "fashion collection launch trends"))

	assert.True(t, s.PassesDomainValidation("New jewellery season", ""))
	assert.True(t, s.PassesDomainValidation("", "the maison's sapphire centrepiece"))
}

func TestMatchedKeywordsDeterministicOrder(t *testing.T) {
	s := NewScorer(Keywords{})

	_, first := s.ContentScore("", "ruby gold diamond")
	_, second := s.ContentScore("", "ruby gold diamond")
	assert.Equal(t, first, second)
}
