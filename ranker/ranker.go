// Package ranker implements the per-query ranking pipeline that combines
// keyword relevance with the PageRank scores persisted in the document graph.
package ranker

import (
	"context"
	"io/ioutil"
	"regexp"
	"sort"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"github.com/linksrus/rankengine/query"
	"github.com/linksrus/rankengine/relevance"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/linksrus/rankengine/ranker GraphAPI
//go:generate mockgen -package mocks -destination mocks/mock_iterator.go github.com/linksrus/rankengine/linkgraph/graph DocumentIterator

// ErrGraphUnavailable is returned when the document graph cannot be read
// while processing a query.
var ErrGraphUnavailable = xerrors.New("document graph unavailable")

// GraphAPI defines the set of graph methods required by the ranker.
type GraphAPI interface {
	Documents() (graph.DocumentIterator, error)
}

// Config encapsulates the settings for configuring a Ranker.
type Config struct {
	// An API for iterating the documents in the graph.
	GraphAPI GraphAPI

	// The query processor to use. If not specified, a processor with the
	// default settings will be used instead.
	Processor *query.Processor

	// The relevance scorer to use. If not specified, a scorer with the
	// default boosts will be used instead.
	Scorer *relevance.Scorer

	// PageRankWeight is the share of the PageRank score in the combined
	// score of a result; the normalized relevance score gets the rest. If
	// not specified, a default value of 0.0001 will be used instead.
	PageRankWeight float64

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.GraphAPI == nil {
		err = multierror.Append(err, xerrors.Errorf("graph API has not been provided"))
	}
	if cfg.Processor == nil {
		p, pErr := query.NewProcessor(query.Config{})
		if pErr != nil {
			err = multierror.Append(err, pErr)
		}
		cfg.Processor = p
	}
	if cfg.Scorer == nil {
		s, sErr := relevance.NewScorer(relevance.DefaultBoosts())
		if sErr != nil {
			err = multierror.Append(err, sErr)
		}
		cfg.Scorer = s
	}
	if cfg.PageRankWeight < 0 || cfg.PageRankWeight >= 1 {
		err = multierror.Append(err, xerrors.Errorf("PageRank weight must be in the range [0, 1)"))
	} else if cfg.PageRankWeight == 0 {
		cfg.PageRankWeight = 0.0001
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
	}
	return err
}

// Ranker answers search queries against the documents of a graph.
// Ranker instances are safe for concurrent use.
type Ranker struct {
	cfg Config
}

// NewRanker creates a new Ranker instance with the specified config.
func NewRanker(cfg Config) (*Ranker, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("ranker: config validation failed: %w", err)
	}
	return &Ranker{cfg: cfg}, nil
}

// RankQuery runs the ranking pipeline for rawQuery and returns the matching
// documents ordered by their combined score.
//
// An empty query returns an empty result without reading the graph. Errors
// while reading the graph are reported as ErrGraphUnavailable.
func (r *Ranker) RankQuery(ctx context.Context, rawQuery string) (*Result, error) {
	q := strings.TrimSpace(rawQuery)
	res := &Result{Query: q, Stage: StageIdle}
	if q == "" {
		return res, nil
	}

	docs, err := r.loadDocuments(ctx)
	if err != nil {
		return nil, err
	}

	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}
	processed := r.cfg.Processor.Process(q, r.cfg.Processor.BuildVocabulary(contents...))
	if processed.Altered {
		res.CorrectedQuery = processed.CorrectedQuery()
	}
	res.Stage = StageTokensReady

	candidates := filterCandidates(docs, processed.Corrected)
	res.Stage = StageCandidatesFiltered
	if len(candidates) == 0 {
		return res, nil
	}

	res.Results = make([]ScoredResult, len(candidates))
	var maxRelevance float64
	for i, doc := range candidates {
		raw := r.cfg.Scorer.Score(doc, processed.Corrected, q)
		res.Results[i] = ScoredResult{Document: doc, RelevanceRaw: raw}
		if raw > maxRelevance {
			maxRelevance = raw
		}
	}
	res.Stage = StageScored

	alpha := r.cfg.PageRankWeight
	for i := range res.Results {
		sr := &res.Results[i]
		if maxRelevance > 0 {
			sr.RelevanceNormalized = sr.RelevanceRaw / maxRelevance
		}
		sr.CombinedScore = alpha*sr.Document.PageRank + (1-alpha)*sr.RelevanceNormalized

		r.cfg.Logger.WithFields(logrus.Fields{
			"doc_id":    sr.Document.ID,
			"title":     sr.Document.Title(),
			"relevance": sr.RelevanceNormalized,
			"pagerank":  sr.Document.PageRank,
			"combined":  sr.CombinedScore,
		}).Debug("scored candidate")
	}

	sort.SliceStable(res.Results, func(i, j int) bool {
		return res.Results[i].CombinedScore > res.Results[j].CombinedScore
	})
	res.Stage = StageRanked

	r.cfg.Logger.WithFields(logrus.Fields{
		"query":           q,
		"corrected_query": res.CorrectedQuery,
		"num_documents":   len(docs),
		"num_results":     len(res.Results),
	}).Debug("ranked query")
	return res, nil
}

func (r *Ranker) loadDocuments(ctx context.Context) ([]*graph.Document, error) {
	docIt, err := r.cfg.GraphAPI.Documents()
	if err != nil {
		return nil, xerrors.Errorf("list documents: %v: %w", err, ErrGraphUnavailable)
	}

	var docs []*graph.Document
	for docIt.Next() {
		if err = ctx.Err(); err != nil {
			_ = docIt.Close()
			return nil, err
		}
		docs = append(docs, docIt.Document())
	}
	if err = docIt.Error(); err != nil {
		_ = docIt.Close()
		return nil, xerrors.Errorf("list documents: %v: %w", err, ErrGraphUnavailable)
	}
	if err = docIt.Close(); err != nil {
		return nil, xerrors.Errorf("list documents: %v: %w", err, ErrGraphUnavailable)
	}
	return docs, nil
}

// filterCandidates returns the documents that contain at least one of the
// tokens as a whole word, ignoring case. The input order is preserved.
func filterCandidates(docs []*graph.Document, tokens []string) []*graph.Document {
	if len(tokens) == 0 {
		return nil
	}

	patterns := make([]*regexp.Regexp, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		patterns = append(patterns, wholeWordPattern(tok))
	}

	var candidates []*graph.Document
	for _, doc := range docs {
		for _, p := range patterns {
			if p.MatchString(doc.Content) {
				candidates = append(candidates, doc)
				break
			}
		}
	}
	return candidates
}

func wholeWordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(word) + `(?:$|[^\p{L}\p{N}_])`)
}
