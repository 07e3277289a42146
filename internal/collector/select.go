package collector

import "sort"

// DedupeByURL drops later candidates that repeat an earlier URL, preserving
// discovery order.
func DedupeByURL(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}

// SelectTopK sorts candidates by score descending and returns the first k.
// The sort is stable, so equal scores retain discovery order; that tie-break
// is deliberate documented behavior, not an accident.
func SelectTopK(candidates []Candidate, k int) []Candidate {
	if k <= 0 {
		return nil
	}
	sorted := append([]Candidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}
