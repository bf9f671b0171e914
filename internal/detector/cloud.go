package detector

import (
	"math"
	"sort"
)

// CloudTerm is one word-cloud entry. Weight is the absolute value of the
// term's contribution; the sign (direction of effect) is not visually
// encoded, only magnitude.
type CloudTerm struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

// WordCloud selects the attribution arrays matching the cached verdict and
// returns terms sorted by weight descending. Fraudulent predictions use the
// "fake" arrays, genuine predictions the "real" arrays.
func WordCloud(cached *PredictionResult, exp *ExplanationResult) []CloudTerm {
	words := exp.WordsReal
	contributions := exp.ContributionsReal
	if cached.Fraudulent == 1 {
		words = exp.WordsFake
		contributions = exp.ContributionsFake
	}

	terms := make([]CloudTerm, 0, len(words))
	for i, word := range words {
		terms = append(terms, CloudTerm{
			Word:   word,
			Weight: math.Abs(contributions[i]),
		})
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Weight > terms[j].Weight
	})

	return terms
}
