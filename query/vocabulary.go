package query

import (
	"sort"

	"github.com/pmezard/go-difflib/difflib"
)

// Vocabulary is an immutable, lexicographically ordered set of words.
type Vocabulary struct {
	words []string
	runes [][]string
	index map[string]struct{}
}

// NewVocabulary creates a vocabulary from the distinct entries of words.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if _, exists := v.index[w]; exists || w == "" {
			continue
		}
		v.index[w] = struct{}{}
		v.words = append(v.words, w)
	}
	sort.Strings(v.words)

	v.runes = make([][]string, len(v.words))
	for i, w := range v.words {
		v.runes[i] = splitRunes(w)
	}
	return v
}

// Len returns the number of words in the vocabulary.
func (v *Vocabulary) Len() int { return len(v.words) }

// Words returns the vocabulary words in lexicographic order.
func (v *Vocabulary) Words() []string { return append([]string(nil), v.words...) }

// Contains returns true if word is part of the vocabulary.
func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.index[word]
	return ok
}

// ClosestMatch returns the vocabulary entry that is most similar to word
// provided that its similarity ratio is at least cutoff. Words already in
// the vocabulary match themselves. When several entries share the best
// ratio, the lexicographically smallest one wins.
func (v *Vocabulary) ClosestMatch(word string, cutoff float64) (string, bool) {
	if v.Contains(word) {
		return word, true
	}

	var (
		best      string
		bestRatio float64
		found     bool
		matcher   = difflib.NewMatcher(nil, splitRunes(word))
	)
	for i, candidate := range v.runes {
		matcher.SetSeq1(candidate)
		if matcher.RealQuickRatio() < cutoff || matcher.QuickRatio() < cutoff {
			continue
		}

		if ratio := matcher.Ratio(); ratio >= cutoff && (!found || ratio > bestRatio) {
			best, bestRatio, found = v.words[i], ratio, true
		}
	}

	return best, found
}

// splitRunes converts s into a sequence of single-character strings so that
// it can be compared with a difflib matcher.
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
