package searchapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"github.com/linksrus/rankengine/ranker"
	"github.com/linksrus/rankengine/service/searchapi/mocks"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(SearchAPITestSuite))

func Test(t *testing.T) {
	// Run all gocheck test-suites
	gc.TestingT(t)
}

type SearchAPITestSuite struct {
}

func (s *SearchAPITestSuite) TestConfigValidation(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	origCfg := Config{
		GraphAPI:   mocks.NewMockGraphAPI(ctrl),
		RankerAPI:  mocks.NewMockRankerAPI(ctrl),
		ListenAddr: ":0",
	}

	cfg := origCfg
	c.Assert(cfg.validate(), gc.IsNil)
	c.Assert(cfg.ResultsPerPage, gc.Equals, defaultResultsPerPage)
	c.Assert(cfg.Logger, gc.Not(gc.IsNil), gc.Commentf("default logger was not assigned"))

	cfg = origCfg
	cfg.ListenAddr = ""
	c.Assert(cfg.validate(), gc.ErrorMatches, "(?ms).*listen address has not been specified.*")

	cfg = origCfg
	cfg.GraphAPI = nil
	c.Assert(cfg.validate(), gc.ErrorMatches, "(?ms).*graph API has not been provided.*")

	cfg = origCfg
	cfg.RankerAPI = nil
	c.Assert(cfg.validate(), gc.ErrorMatches, "(?ms).*ranker API has not been provided.*")
}

func (s *SearchAPITestSuite) TestSearch(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	svc, _, mockRanker := s.setupService(c, ctrl)
	doc := &graph.Document{ID: uuid.New(), URL: "https://example.com/kontak", Content: "Kontak\nHubungi kami", PageRank: 0.25}
	mockRanker.EXPECT().RankQuery(gomock.Any(), "kontaks").Return(&ranker.Result{
		Query:          "kontaks",
		CorrectedQuery: "kontak",
		Stage:          ranker.StageRanked,
		Results: []ranker.ScoredResult{
			{Document: doc, RelevanceRaw: 1000011, RelevanceNormalized: 1, CombinedScore: 0.999925},
		},
	}, nil)

	res := s.get(svc, searchEndpoint+"?q=kontaks")
	c.Assert(res.Code, gc.Equals, http.StatusOK)
	c.Assert(res.Header().Get("Content-Type"), gc.Equals, "application/json; charset=utf-8")

	var body searchResponse
	c.Assert(json.Unmarshal(res.Body.Bytes(), &body), gc.IsNil)
	c.Assert(body.Query, gc.Equals, "kontaks")
	c.Assert(body.CorrectedQuery, gc.Equals, "kontak")
	c.Assert(body.NoResults, gc.Equals, false)
	c.Assert(body.Total, gc.Equals, 1)
	c.Assert(body.Results, gc.DeepEquals, []searchResult{{
		ID:           doc.ID,
		URL:          doc.URL,
		Title:        "Kontak",
		PageRank:     0.25,
		RelevanceRaw: 1000011,
		Relevance:    1,
		Score:        0.999925,
	}})
}

func (s *SearchAPITestSuite) TestSearchPagination(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	svc, _, mockRanker := s.setupService(c, ctrl)
	var results []ranker.ScoredResult
	for i := 0; i < 5; i++ {
		results = append(results, ranker.ScoredResult{
			Document: &graph.Document{ID: uuid.New(), URL: fmt.Sprintf("https://example.com/%d", i), Content: fmt.Sprintf("Doc %d", i)},
		})
	}
	mockRanker.EXPECT().RankQuery(gomock.Any(), "doc").Return(&ranker.Result{
		Query:   "doc",
		Stage:   ranker.StageRanked,
		Results: results,
	}, nil).Times(2)

	var body searchResponse
	res := s.get(svc, searchEndpoint+"?q=doc")
	c.Assert(json.Unmarshal(res.Body.Bytes(), &body), gc.IsNil)
	c.Assert(body.Results, gc.HasLen, 2)
	c.Assert(body.Results[0].Title, gc.Equals, "Doc 0")
	c.Assert(body.NextOffset, gc.Equals, 2)

	body = searchResponse{}
	res = s.get(svc, searchEndpoint+"?q=doc&offset=4")
	c.Assert(json.Unmarshal(res.Body.Bytes(), &body), gc.IsNil)
	c.Assert(body.Results, gc.HasLen, 1)
	c.Assert(body.Results[0].Title, gc.Equals, "Doc 4")
	c.Assert(body.NextOffset, gc.Equals, 0)
}

func (s *SearchAPITestSuite) TestSearchWithoutMatches(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	svc, _, mockRanker := s.setupService(c, ctrl)
	mockRanker.EXPECT().RankQuery(gomock.Any(), "zebra").Return(&ranker.Result{
		Query: "zebra",
		Stage: ranker.StageCandidatesFiltered,
	}, nil)

	res := s.get(svc, searchEndpoint+"?q=zebra")
	c.Assert(res.Code, gc.Equals, http.StatusOK)
	c.Assert(res.Body.String(), gc.Matches, `(?s).*"no_results":true.*"results":\[\].*`)
}

func (s *SearchAPITestSuite) TestEmptyQuery(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	svc, _, mockRanker := s.setupService(c, ctrl)
	mockRanker.EXPECT().RankQuery(gomock.Any(), "").Return(&ranker.Result{Stage: ranker.StageIdle}, nil)

	res := s.get(svc, searchEndpoint)
	c.Assert(res.Code, gc.Equals, http.StatusOK)
	c.Assert(res.Body.String(), gc.Matches, `(?s).*"no_results":false.*"results":\[\].*`)
}

func (s *SearchAPITestSuite) TestSearchFailure(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	svc, _, mockRanker := s.setupService(c, ctrl)
	mockRanker.EXPECT().RankQuery(gomock.Any(), "kontak").Return(nil, xerrors.Errorf("list documents: %w", ranker.ErrGraphUnavailable))

	res := s.get(svc, searchEndpoint+"?q=kontak")
	c.Assert(res.Code, gc.Equals, http.StatusInternalServerError)
	c.Assert(res.Body.String(), gc.Matches, `(?s)\{"error":".*"\}\n`)
}

func (s *SearchAPITestSuite) TestGetDocument(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	svc, mockGraph, _ := s.setupService(c, ctrl)
	doc := &graph.Document{ID: uuid.New(), URL: "https://example.com", Content: "  Beranda \n Selamat datang  ", PageRank: 0.5}
	mockGraph.EXPECT().FindDocument(doc.ID).Return(doc, nil)

	res := s.get(svc, "/documents/"+doc.ID.String())
	c.Assert(res.Code, gc.Equals, http.StatusOK)

	var body documentResponse
	c.Assert(json.Unmarshal(res.Body.Bytes(), &body), gc.IsNil)
	c.Assert(body, gc.DeepEquals, documentResponse{
		ID:       doc.ID,
		URL:      doc.URL,
		Title:    "Beranda",
		Body:     "Selamat datang",
		PageRank: 0.5,
	})
}

func (s *SearchAPITestSuite) TestGetDocumentErrors(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	svc, mockGraph, _ := s.setupService(c, ctrl)

	res := s.get(svc, "/documents/not-a-uuid")
	c.Assert(res.Code, gc.Equals, http.StatusBadRequest)

	missing := uuid.New()
	mockGraph.EXPECT().FindDocument(missing).Return(nil, xerrors.Errorf("find document: %w", graph.ErrNotFound))
	res = s.get(svc, "/documents/"+missing.String())
	c.Assert(res.Code, gc.Equals, http.StatusNotFound)

	broken := uuid.New()
	mockGraph.EXPECT().FindDocument(broken).Return(nil, xerrors.New("connection refused"))
	res = s.get(svc, "/documents/"+broken.String())
	c.Assert(res.Code, gc.Equals, http.StatusInternalServerError)
}

func (s *SearchAPITestSuite) TestMetricsAndUnknownRoutes(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	svc, _, mockRanker := s.setupService(c, ctrl)
	mockRanker.EXPECT().RankQuery(gomock.Any(), "x").Return(&ranker.Result{Query: "x", Stage: ranker.StageCandidatesFiltered}, nil)
	_ = s.get(svc, searchEndpoint+"?q=x")

	res := s.get(svc, metricsEndpoint)
	c.Assert(res.Code, gc.Equals, http.StatusOK)
	c.Assert(strings.Contains(res.Body.String(), "rankengine_searchapi_requests_total"), gc.Equals, true)

	res = s.get(svc, "/no/such/page")
	c.Assert(res.Code, gc.Equals, http.StatusNotFound)
}

func (s *SearchAPITestSuite) setupService(c *gc.C, ctrl *gomock.Controller) (*Service, *mocks.MockGraphAPI, *mocks.MockRankerAPI) {
	mockGraph := mocks.NewMockGraphAPI(ctrl)
	mockRanker := mocks.NewMockRankerAPI(ctrl)

	svc, err := NewService(Config{
		GraphAPI:       mockGraph,
		RankerAPI:      mockRanker,
		ListenAddr:     ":0",
		ResultsPerPage: 2,
	})
	c.Assert(err, gc.IsNil)

	return svc, mockGraph, mockRanker
}

func (s *SearchAPITestSuite) get(svc *Service, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	res := httptest.NewRecorder()
	svc.router.ServeHTTP(res, req)
	return res
}
