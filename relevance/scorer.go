// Package relevance computes keyword relevance scores for documents.
package relevance

import (
	"strings"
	"unicode/utf8"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"golang.org/x/xerrors"
)

// Boosts defines the constants used by the Scorer. The three query boosts
// must be strictly ordered (ExactTitle > TitleSubstring > URLSubstring) and
// large enough to dominate any realistic keyword frequency score.
type Boosts struct {
	// ExactTitle is added when the query equals the document title.
	ExactTitle float64

	// TitleSubstring is added when the title contains the query. It only
	// applies if the ExactTitle boost did not and the query is at least
	// MinTitleSubstringQueryLen characters long.
	TitleSubstring float64

	// URLSubstring is added when the document URL contains the query.
	URLSubstring float64

	// TitleTermWeight multiplies the number of term occurrences in the
	// title.
	TitleTermWeight float64

	MinTitleSubstringQueryLen int
}

// DefaultBoosts returns the default set of relevance boosts.
func DefaultBoosts() Boosts {
	return Boosts{
		ExactTitle:                1e8,
		TitleSubstring:            1e7,
		URLSubstring:              1e6,
		TitleTermWeight:           10,
		MinTitleSubstringQueryLen: 4,
	}
}

// Validate checks that the boosts are strictly ordered and non-negative.
func (b Boosts) Validate() error {
	var err error
	if b.URLSubstring <= 0 {
		err = multierror.Append(err, xerrors.New("URLSubstring boost must be positive"))
	}
	if b.TitleSubstring <= b.URLSubstring {
		err = multierror.Append(err, xerrors.New("TitleSubstring boost must be larger than the URLSubstring boost"))
	}
	if b.ExactTitle <= b.TitleSubstring {
		err = multierror.Append(err, xerrors.New("ExactTitle boost must be larger than the TitleSubstring boost"))
	}
	if b.TitleTermWeight < 0 {
		err = multierror.Append(err, xerrors.New("TitleTermWeight must not be negative"))
	}
	if b.MinTitleSubstringQueryLen < 0 {
		err = multierror.Append(err, xerrors.New("MinTitleSubstringQueryLen must not be negative"))
	}
	return err
}

// Scorer calculates the relevance of a document to a query.
type Scorer struct {
	boosts Boosts
}

// NewScorer returns a Scorer that uses the provided boosts.
func NewScorer(boosts Boosts) (*Scorer, error) {
	if err := boosts.Validate(); err != nil {
		return nil, xerrors.Errorf("relevance scorer config validation failed: %w", err)
	}
	return &Scorer{boosts: boosts}, nil
}

// Boosts returns the boosts used by the scorer.
func (s *Scorer) Boosts() Boosts { return s.boosts }

// Score returns the relevance of doc for the given query terms and the
// original query text.
//
// Each term contributes the number of its non-overlapping substring
// occurrences in the document body plus TitleTermWeight times the number of
// its occurrences in the title. Matching is case-insensitive. The query
// boosts are then added by comparing originalQuery to the title and URL.
func (s *Scorer) Score(doc *graph.Document, tokens []string, originalQuery string) float64 {
	title := strings.ToLower(doc.Title())
	body := strings.ToLower(doc.Body())

	var score float64
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		tok = strings.ToLower(tok)
		score += float64(strings.Count(body, tok))
		score += s.boosts.TitleTermWeight * float64(strings.Count(title, tok))
	}

	q := strings.ToLower(strings.TrimSpace(originalQuery))
	if q == "" {
		return score
	}

	if q == title {
		score += s.boosts.ExactTitle
	} else if utf8.RuneCountInString(q) >= s.boosts.MinTitleSubstringQueryLen && strings.Contains(title, q) {
		score += s.boosts.TitleSubstring
	}

	if strings.Contains(strings.ToLower(doc.URL), q) {
		score += s.boosts.URLSubstring
	}

	return score
}
