// Package config loads the tunable ranking parameters from an optional YAML
// file. Values missing from the file keep their defaults.
//
// Example file:
//
//	query:
//	  similarity_cutoff: 0.7
//	  stopwords: [yang, dan, di]
//	relevance:
//	  exact_title_boost: 100000000
//	  title_substring_boost: 10000000
//	  url_substring_boost: 1000000
//	  title_term_weight: 10
//	  min_title_substring_query_len: 4
//	ranking:
//	  pagerank_weight: 0.0001
//	pagerank:
//	  damping_factor: 0.85
//	  convergence_threshold: 0.000001
//	  max_iterations: 100
//	  compute_workers: 4
package config

import (
	multierror "github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/linksrus/rankengine/pagerank"
	"github.com/linksrus/rankengine/query"
	"github.com/linksrus/rankengine/relevance"
	"golang.org/x/xerrors"
)

// DefaultPageRankWeight is the share of the PageRank score in the combined
// score of a search result.
const DefaultPageRankWeight = 0.0001

// Ranking groups the settings of the ranking components.
type Ranking struct {
	Query          query.Config
	Boosts         relevance.Boosts
	PageRank       pagerank.Config
	PageRankWeight float64
}

// Default returns the default ranking settings.
func Default() *Ranking {
	return &Ranking{
		Query: query.Config{
			Stopwords:        query.DefaultStopwords(),
			SimilarityCutoff: 0.70,
		},
		Boosts: relevance.DefaultBoosts(),
		PageRank: pagerank.Config{
			DampingFactor:        0.85,
			ConvergenceThreshold: 1e-6,
			MaxIterations:        100,
			ComputeWorkers:       1,
		},
		PageRankWeight: DefaultPageRankWeight,
	}
}

// Load returns the default ranking settings overridden by the values in the
// YAML file at path. An empty path returns the defaults.
func Load(path string) (*Ranking, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, xerrors.Errorf("load ranking config %q: %w", path, err)
	}

	if k.Exists("query.stopwords") {
		cfg.Query.Stopwords = k.Strings("query.stopwords")
	}
	setFloat(k, "query.similarity_cutoff", &cfg.Query.SimilarityCutoff)

	setFloat(k, "relevance.exact_title_boost", &cfg.Boosts.ExactTitle)
	setFloat(k, "relevance.title_substring_boost", &cfg.Boosts.TitleSubstring)
	setFloat(k, "relevance.url_substring_boost", &cfg.Boosts.URLSubstring)
	setFloat(k, "relevance.title_term_weight", &cfg.Boosts.TitleTermWeight)
	setInt(k, "relevance.min_title_substring_query_len", &cfg.Boosts.MinTitleSubstringQueryLen)

	setFloat(k, "ranking.pagerank_weight", &cfg.PageRankWeight)

	setFloat(k, "pagerank.damping_factor", &cfg.PageRank.DampingFactor)
	setFloat(k, "pagerank.convergence_threshold", &cfg.PageRank.ConvergenceThreshold)
	setInt(k, "pagerank.max_iterations", &cfg.PageRank.MaxIterations)
	setInt(k, "pagerank.compute_workers", &cfg.PageRank.ComputeWorkers)

	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("ranking config %q: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Ranking) validate() error {
	var err error
	if cfg.Query.SimilarityCutoff <= 0 || cfg.Query.SimilarityCutoff > 1 {
		err = multierror.Append(err, xerrors.New("query.similarity_cutoff must be in the range (0, 1]"))
	}
	if bErr := cfg.Boosts.Validate(); bErr != nil {
		err = multierror.Append(err, bErr)
	}
	if cfg.PageRankWeight < 0 || cfg.PageRankWeight >= 1 {
		err = multierror.Append(err, xerrors.New("ranking.pagerank_weight must be in the range [0, 1)"))
	}
	if cfg.PageRank.DampingFactor <= 0 || cfg.PageRank.DampingFactor > 1 {
		err = multierror.Append(err, xerrors.New("pagerank.damping_factor must be in the range (0, 1]"))
	}
	if cfg.PageRank.ConvergenceThreshold <= 0 || cfg.PageRank.ConvergenceThreshold >= 1 {
		err = multierror.Append(err, xerrors.New("pagerank.convergence_threshold must be in the range (0, 1)"))
	}
	if cfg.PageRank.MaxIterations <= 0 {
		err = multierror.Append(err, xerrors.New("pagerank.max_iterations must be positive"))
	}
	return err
}

func setFloat(k *koanf.Koanf, key string, dst *float64) {
	if k.Exists(key) {
		*dst = k.Float64(key)
	}
}

func setInt(k *koanf.Koanf, key string, dst *int) {
	if k.Exists(key) {
		*dst = k.Int(key)
	}
}
