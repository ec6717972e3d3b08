// Package query turns raw search text into the list of terms used for
// candidate selection and relevance scoring.
package query

import (
	"regexp"
	"strings"

	"golang.org/x/xerrors"
)

var wordRegex = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Processed is the outcome of processing a raw query.
type Processed struct {
	// Tokens holds the lowercased query terms after stopword removal.
	Tokens []string

	// Corrected holds Tokens with every term replaced by its closest
	// vocabulary entry, if one was found.
	Corrected []string

	// Altered is true if Corrected differs from Tokens.
	Altered bool
}

// CorrectedQuery returns the corrected terms joined by a single space.
func (p Processed) CorrectedQuery() string {
	return strings.Join(p.Corrected, " ")
}

// Processor tokenizes queries and corrects misspelled terms against a
// vocabulary. Processor instances are safe for concurrent use.
type Processor struct {
	stopwords map[string]struct{}
	cutoff    float64
}

// NewProcessor creates a new Processor instance with the provided config.
func NewProcessor(cfg Config) (*Processor, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("query processor config validation failed: %w", err)
	}

	stopwords := make(map[string]struct{}, len(cfg.Stopwords))
	for _, w := range cfg.Stopwords {
		stopwords[strings.ToLower(w)] = struct{}{}
	}

	return &Processor{stopwords: stopwords, cutoff: cfg.SimilarityCutoff}, nil
}

// Tokenize splits text into lowercased words and drops any stopwords. The
// order of the words and any repetitions are preserved.
func (p *Processor) Tokenize(text string) []string {
	words := wordRegex.FindAllString(strings.ToLower(text), -1)
	tokens := words[:0]
	for _, w := range words {
		if _, stop := p.stopwords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// BuildVocabulary collects the distinct non-stopword tokens in texts.
func (p *Processor) BuildVocabulary(texts ...string) *Vocabulary {
	var tokens []string
	for _, text := range texts {
		tokens = append(tokens, p.Tokenize(text)...)
	}
	return NewVocabulary(tokens)
}

// Process tokenizes raw and replaces each token with the most similar entry
// from vocab whose similarity ratio reaches the configured cutoff. Tokens
// without such an entry are left unchanged. A nil vocab disables correction.
func (p *Processor) Process(raw string, vocab *Vocabulary) Processed {
	tokens := p.Tokenize(raw)
	res := Processed{
		Tokens:    tokens,
		Corrected: make([]string, len(tokens)),
	}

	for i, tok := range tokens {
		res.Corrected[i] = tok
		if vocab == nil {
			continue
		}
		if match, found := vocab.ClosestMatch(tok, p.cutoff); found {
			res.Corrected[i] = match
		}
		if res.Corrected[i] != tok {
			res.Altered = true
		}
	}

	return res
}
