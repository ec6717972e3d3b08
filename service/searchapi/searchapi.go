// Package searchapi exposes the ranking pipeline and the document store over
// a JSON HTTP API.
package searchapi

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-multierror"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"github.com/linksrus/rankengine/ranker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/linksrus/rankengine/service/searchapi GraphAPI,RankerAPI

const (
	searchEndpoint   = "/search"
	documentEndpoint = "/documents/{id}"
	metricsEndpoint  = "/metrics"

	defaultResultsPerPage = 10
)

// GraphAPI defines a set of API methods for looking up documents.
type GraphAPI interface {
	FindDocument(id uuid.UUID) (*graph.Document, error)
}

// RankerAPI defines a set of API methods for ranking search queries.
type RankerAPI interface {
	RankQuery(ctx context.Context, rawQuery string) (*ranker.Result, error)
}

// Config encapsulates the settings for configuring the search API service.
type Config struct {
	// An API for looking up individual documents.
	GraphAPI GraphAPI

	// An API for ranking search queries.
	RankerAPI RankerAPI

	// The address to listen for incoming requests.
	ListenAddr string

	// The number of results to return per page. If not specified, a
	// default value of 10 results per page will be used instead.
	ResultsPerPage int

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.ListenAddr == "" {
		err = multierror.Append(err, xerrors.Errorf("listen address has not been specified"))
	}
	if cfg.ResultsPerPage <= 0 {
		cfg.ResultsPerPage = defaultResultsPerPage
	}
	if cfg.GraphAPI == nil {
		err = multierror.Append(err, xerrors.Errorf("graph API has not been provided"))
	}
	if cfg.RankerAPI == nil {
		err = multierror.Append(err, xerrors.Errorf("ranker API has not been provided"))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
	}
	return err
}

// Service serves search requests over HTTP.
type Service struct {
	cfg    Config
	router *mux.Router
}

// NewService creates a new search API service instance with the specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("search API service: config validation failed: %w", err)
	}

	svc := &Service{
		router: mux.NewRouter(),
		cfg:    cfg,
	}

	svc.router.Handle(searchEndpoint, instrument("search", svc.search)).Methods("GET")
	svc.router.Handle(documentEndpoint, instrument("document", svc.getDocument)).Methods("GET")
	svc.router.Handle(metricsEndpoint, promhttp.Handler()).Methods("GET")
	svc.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return svc, nil
}

// Name implements service.Service
func (svc *Service) Name() string { return "search API" }

// Run implements service.Service
func (svc *Service) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", svc.cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	srv := &http.Server{
		Addr:              svc.cfg.ListenAddr,
		Handler:           svc.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	svc.cfg.Logger.WithField("addr", svc.cfg.ListenAddr).Info("starting search API server")
	if err = srv.Serve(l); err == http.ErrServerClosed {
		// Ignore error when the server shuts down.
		err = nil
	}

	return err
}

type searchResult struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	PageRank     float64   `json:"pagerank"`
	RelevanceRaw float64   `json:"relevance_raw"`
	Relevance    float64   `json:"relevance"`
	Score        float64   `json:"score"`
}

type searchResponse struct {
	Query          string         `json:"query"`
	CorrectedQuery string         `json:"corrected_query,omitempty"`
	NoResults      bool           `json:"no_results"`
	Total          int            `json:"total"`
	Offset         int            `json:"offset"`
	NextOffset     int            `json:"next_offset,omitempty"`
	Results        []searchResult `json:"results"`
}

func (svc *Service) search(w http.ResponseWriter, r *http.Request) {
	rawQuery := r.URL.Query().Get("q")
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	res, err := svc.cfg.RankerAPI.RankQuery(r.Context(), rawQuery)
	if err != nil {
		svc.cfg.Logger.WithFields(logrus.Fields{
			"err":   err,
			"query": rawQuery,
		}).Error("search query execution failed")
		writeError(w, http.StatusInternalServerError, "search is temporarily unavailable; please try again later")
		return
	}

	resp := searchResponse{
		Query:          res.Query,
		CorrectedQuery: res.CorrectedQuery,
		NoResults:      res.NoResults(),
		Total:          len(res.Results),
		Offset:         offset,
		Results:        make([]searchResult, 0, svc.cfg.ResultsPerPage),
	}
	for i := offset; i < len(res.Results) && len(resp.Results) < svc.cfg.ResultsPerPage; i++ {
		sr := res.Results[i]
		resp.Results = append(resp.Results, searchResult{
			ID:           sr.Document.ID,
			URL:          sr.Document.URL,
			Title:        sr.Document.Title(),
			PageRank:     sr.Document.PageRank,
			RelevanceRaw: sr.RelevanceRaw,
			Relevance:    sr.RelevanceNormalized,
			Score:        sr.CombinedScore,
		})
	}
	if next := offset + len(resp.Results); next < resp.Total {
		resp.NextOffset = next
	}

	writeJSON(w, http.StatusOK, resp)
}

type documentResponse struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	PageRank float64   `json:"pagerank"`
}

func (svc *Service) getDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := svc.cfg.GraphAPI.FindDocument(id)
	if err != nil {
		if xerrors.Is(err, graph.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		svc.cfg.Logger.WithFields(logrus.Fields{
			"err":    err,
			"doc_id": id,
		}).Error("document lookup failed")
		writeError(w, http.StatusInternalServerError, "document lookup is temporarily unavailable; please try again later")
		return
	}

	writeJSON(w, http.StatusOK, documentResponse{
		ID:       doc.ID,
		URL:      doc.URL,
		Title:    doc.Title(),
		Body:     doc.Body(),
		PageRank: doc.PageRank,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
