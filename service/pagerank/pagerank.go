// Package pagerank provides a service that periodically recalculates the
// PageRank scores of all documents in the graph and persists them.
package pagerank

import (
	"context"
	"io/ioutil"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/linksrus/rankengine/linkgraph/graph"
	pr "github.com/linksrus/rankengine/pagerank"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/linksrus/rankengine/service/pagerank GraphAPI
//go:generate mockgen -package mocks -destination mocks/mock_iterator.go github.com/linksrus/rankengine/linkgraph/graph DocumentIterator,EdgeIterator

// GraphAPI defines a set of API methods for fetching the documents and edges
// from the graph and persisting the calculated scores.
type GraphAPI interface {
	Documents() (graph.DocumentIterator, error)
	Edges() (graph.EdgeIterator, error)
	UpdateScores(scores map[uuid.UUID]float64) error
}

// Config encapsulates the settings for configuring the PageRank calculator
// service.
type Config struct {
	// An API for iterating documents and edges and for storing scores.
	GraphAPI GraphAPI

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The settings for the PageRank calculator.
	PageRank pr.Config

	// The time between subsequent PageRank passes.
	UpdateInterval time.Duration

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.GraphAPI == nil {
		err = multierror.Append(err, xerrors.Errorf("graph API has not been provided"))
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.PageRank.ComputeWorkers < 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for compute workers"))
	}
	if cfg.UpdateInterval <= 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for update interval"))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
	}
	return err
}

// Service recalculates and persists PageRank scores.
type Service struct {
	cfg        Config
	calculator *pr.Calculator
}

// NewService creates a new PageRank calculator service instance with the specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("pagerank service: config validation failed: %w", err)
	}

	calculator, err := pr.NewCalculator(cfg.PageRank)
	if err != nil {
		return nil, xerrors.Errorf("pagerank service: config validation failed: %w", err)
	}

	return &Service{
		cfg:        cfg,
		calculator: calculator,
	}, nil
}

// Name implements service.Service
func (svc *Service) Name() string { return "PageRank calculator" }

// Run implements service.Service. A failed pass is logged and retried at
// the next update interval.
func (svc *Service) Run(ctx context.Context) error {
	svc.cfg.Logger.WithField("update_interval", svc.cfg.UpdateInterval.String()).Info("starting service")
	defer svc.cfg.Logger.Info("stopped service")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-svc.cfg.Clock.After(svc.cfg.UpdateInterval):
			if err := svc.RunOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				svc.cfg.Logger.WithField("err", err).Error("PageRank update pass failed")
			}
		}
	}
}

// RunOnce loads the full graph, computes the PageRank score of each document
// and stores all scores in a single batch. If any step fails, no scores are
// written.
func (svc *Service) RunOnce(ctx context.Context) error {
	svc.cfg.Logger.Info("starting PageRank update pass")
	startAt := svc.cfg.Clock.Now()

	err := svc.updateGraphScores(ctx, startAt)
	passTime := svc.cfg.Clock.Now().Sub(startAt)
	passDuration.Observe(passTime.Seconds())
	if err != nil {
		passCount.WithLabelValues("failed").Inc()
		return xerrors.Errorf("pagerank pass: %w", err)
	}
	passCount.WithLabelValues("succeeded").Inc()
	return nil
}

func (svc *Service) updateGraphScores(ctx context.Context, startAt time.Time) error {
	tick := startAt
	ids, err := svc.loadDocuments()
	if err != nil {
		return err
	}
	edges, err := svc.loadEdges()
	if err != nil {
		return err
	}
	graphLoadTime := svc.cfg.Clock.Now().Sub(tick)

	tick = svc.cfg.Clock.Now()
	res, err := svc.calculator.Compute(ctx, ids, edges)
	if err != nil {
		return err
	}
	scoreCalculationTime := svc.cfg.Clock.Now().Sub(tick)

	if res.DroppedEdges > 0 {
		svc.cfg.Logger.WithField("dropped_edges", res.DroppedEdges).Warn("ignored edges referencing unknown documents")
	}

	tick = svc.cfg.Clock.Now()
	if len(res.Scores) != 0 {
		if err = svc.cfg.GraphAPI.UpdateScores(res.Scores); err != nil {
			return err
		}
	}
	scorePersistTime := svc.cfg.Clock.Now().Sub(tick)

	documentCount.Set(float64(len(ids)))
	edgeCount.Set(float64(len(edges) - res.DroppedEdges - res.DuplicateEdges))

	svc.cfg.Logger.WithFields(logrus.Fields{
		"processed_documents":    len(ids),
		"processed_edges":        len(edges),
		"duplicate_edges":        res.DuplicateEdges,
		"iterations":             res.Iterations,
		"converged":              res.Converged,
		"graph_load_time":        graphLoadTime.String(),
		"score_calculation_time": scoreCalculationTime.String(),
		"score_persist_time":     scorePersistTime.String(),
		"total_pass_time":        svc.cfg.Clock.Now().Sub(startAt).String(),
	}).Info("completed PageRank update pass")
	return nil
}

func (svc *Service) loadDocuments() ([]uuid.UUID, error) {
	docIt, err := svc.cfg.GraphAPI.Documents()
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for docIt.Next() {
		ids = append(ids, docIt.Document().ID)
	}
	if err = docIt.Error(); err != nil {
		_ = docIt.Close()
		return nil, err
	}

	return ids, docIt.Close()
}

func (svc *Service) loadEdges() ([]pr.Edge, error) {
	edgeIt, err := svc.cfg.GraphAPI.Edges()
	if err != nil {
		return nil, err
	}

	var edges []pr.Edge
	for edgeIt.Next() {
		edge := edgeIt.Edge()
		edges = append(edges, pr.Edge{Src: edge.Src, Dst: edge.Dst})
	}
	if err = edgeIt.Error(); err != nil {
		_ = edgeIt.Close()
		return nil, err
	}

	return edges, edgeIt.Close()
}
