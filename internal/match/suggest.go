package match

import (
	"sort"
	"strings"
)

// DefaultMinScore is the similarity below which a name is not suggested.
const DefaultMinScore = 0.5

// Candidate is a known name scored against a query.
type Candidate struct {
	Name  string
	Score float64
}

// Rank scores every known name against query, best first. Ties are broken
// by name so the order is deterministic.
func Rank(query string, known []string) []Candidate {
	q := Normalize(query)

	out := make([]Candidate, 0, len(known))
	for _, k := range known {
		score := Similarity(q, Normalize(k))

		// A shared prefix/suffix after normalisation is a strong hint
		// ("leaf1_b" vs "b").
		if nk := Normalize(k); nk != "" && q != "" &&
			(strings.HasSuffix(q, nk) || strings.HasSuffix(nk, q)) {
			score = max(score, 0.6)
		}

		out = append(out, Candidate{Name: k, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Suggest returns up to limit known names whose score reaches DefaultMinScore.
// An exact match is never suggested.
func Suggest(query string, known []string, limit int) []string {
	var out []string

	for _, c := range Rank(query, known) {
		if limit > 0 && len(out) >= limit {
			break
		}

		if c.Score < DefaultMinScore {
			break
		}

		if c.Name == query {
			continue
		}

		out = append(out, c.Name)
	}

	return out
}
