package planner

import (
	"sort"
	"strings"

	"github.com/exploresl/exploresl-api/internal/types"
)

// Relevance weighting between the free-text query and the interest tags.
// When one side is empty its weight shifts to the other, so a tags-only or
// query-only request still produces scores in [0,1].
const (
	queryWeight    = 0.6
	interestWeight = 0.4
)

// ScoreAttractions assigns every attraction a pear_score in [0,1] against the
// query and interest tags, and returns the pool sorted by score (descending,
// name as tie-break). Zero-relevance attractions are kept: the clusterer
// applies its own inclusion policy. Purely lexical, no randomness, so the
// same inputs always produce the same ranking.
func ScoreAttractions(query string, interests []string, pool []types.Attraction) []types.Attraction {
	queryTokens := tokenize(query)

	scored := make([]types.Attraction, len(pool))
	copy(scored, pool)

	for i := range scored {
		scored[i].PearScore = scoreOne(queryTokens, interests, &scored[i])
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].PearScore != scored[j].PearScore {
			return scored[i].PearScore > scored[j].PearScore
		}
		return scored[i].Name < scored[j].Name
	})
	return scored
}

func scoreOne(queryTokens []string, interests []string, a *types.Attraction) float64 {
	text := attractionTokens(a)

	queryScore := overlapFraction(queryTokens, text)
	interestScore := interestFraction(interests, text, a)

	wq, wi := queryWeight, interestWeight
	switch {
	case len(queryTokens) == 0 && len(interests) == 0:
		return 0
	case len(queryTokens) == 0:
		wq, wi = 0, 1
	case len(interests) == 0:
		wq, wi = 1, 0
	}
	return wq*queryScore + wi*interestScore
}

// overlapFraction is the fraction of wanted tokens present in the text.
func overlapFraction(wanted []string, text []string) float64 {
	if len(wanted) == 0 {
		return 0
	}
	hits := 0
	for _, tok := range wanted {
		if tokenMatch(tok, text) {
			hits++
		}
	}
	return float64(hits) / float64(len(wanted))
}

// interestFraction counts an interest as matched when any of its tokens
// appears in the attraction text or it names the attraction's category.
func interestFraction(interests []string, text []string, a *types.Attraction) float64 {
	if len(interests) == 0 {
		return 0
	}
	hits := 0
	for _, interest := range interests {
		if strings.EqualFold(interest, string(a.Category)) {
			hits++
			continue
		}
		matched := false
		for _, tok := range tokenize(interest) {
			if tokenMatch(tok, text) {
				matched = true
				break
			}
		}
		if matched {
			hits++
		}
	}
	return float64(hits) / float64(len(interests))
}

// tokenMatch accepts an exact hit, or a prefix relation between tokens of at
// least four runes, so "beach"/"beaches" and "temple"/"temples" all match.
func tokenMatch(tok string, text []string) bool {
	for _, t := range text {
		if t == tok {
			return true
		}
		if len(tok) >= 4 && len(t) >= 4 &&
			(strings.HasPrefix(t, tok) || strings.HasPrefix(tok, t)) {
			return true
		}
	}
	return false
}

func attractionTokens(a *types.Attraction) []string {
	seen := make(map[string]struct{})
	var tokens []string
	add := func(s string) {
		for _, tok := range tokenize(s) {
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				tokens = append(tokens, tok)
			}
		}
	}
	add(a.Name)
	add(string(a.Category))
	add(a.Description)
	add(a.Region)
	for _, tag := range a.Tags {
		add(tag)
	}
	return tokens
}

// tokenize lowercases and splits on non-letter/digit runs, dropping tokens
// shorter than three runes ("in", "to", "of" and friends).
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	var tokens []string
	for _, f := range fields {
		if len(f) >= 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
