package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"github.com/linksrus/rankengine/ranker"
	"github.com/sirupsen/logrus"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(MainTestSuite))

func Test(t *testing.T) {
	// Run all gocheck test-suites
	gc.TestingT(t)
}

type MainTestSuite struct{}

func (s *MainTestSuite) SetUpSuite(c *gc.C) {
	logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
}

func (s *MainTestSuite) TestSnippet(c *gc.C) {
	c.Assert(snippet("Title\n  short   body ", 100), gc.Equals, "Title short body")

	long := strings.Repeat("é", 150)
	got := snippet(long, snippetLength)
	c.Assert(got, gc.Equals, strings.Repeat("é", snippetLength)+"...")
}

func (s *MainTestSuite) TestPrintResults(c *gc.C) {
	var buf bytes.Buffer
	printResults(&buf, &ranker.Result{
		Query:          "kontaks",
		CorrectedQuery: "kontak",
		Stage:          ranker.StageRanked,
		Results: []ranker.ScoredResult{
			{Document: &graph.Document{ID: uuid.New(), URL: "https://example.com/kontak", Content: "Kontak\nHubungi kami", PageRank: 0.25}, CombinedScore: 0.99},
		},
	})
	c.Assert(buf.String(), gc.Equals, `Showing results for "kontak" (searched for "kontaks")
1. https://example.com/kontak
   PageRank: 0.250000  score: 0.990000
   Kontak Hubungi kami
`)

	buf.Reset()
	printResults(&buf, &ranker.Result{Query: "zebra", Stage: ranker.StageCandidatesFiltered})
	c.Assert(buf.String(), gc.Equals, "No documents match \"zebra\"\n")
}

func (s *MainTestSuite) TestGetLinkGraph(c *gc.C) {
	g, err := getLinkGraph("in-memory://")
	c.Assert(err, gc.IsNil)
	c.Assert(g, gc.Not(gc.IsNil))

	g, err = getLinkGraph("sqlite://" + filepath.Join(c.MkDir(), "graph.db"))
	c.Assert(err, gc.IsNil)
	closeGraph(g)

	_, err = getLinkGraph("")
	c.Assert(err, gc.ErrorMatches, "link graph URI must be specified.*")

	_, err = getLinkGraph("sqlite://")
	c.Assert(err, gc.ErrorMatches, "sqlite link graph URI must include a database path")

	_, err = getLinkGraph("redis://localhost")
	c.Assert(err, gc.ErrorMatches, `unsupported link graph URI scheme: "redis"`)
}

func (s *MainTestSuite) TestImportCorpus(c *gc.C) {
	seedFile := filepath.Join(c.MkDir(), "corpus.json")
	err := ioutil.WriteFile(seedFile, []byte(`{
		"documents": [
			{"url": "https://example.com/a", "content": "Beranda\nSelamat datang"},
			{"url": "https://example.com/b", "content": "Kontak\nHubungi kami"}
		],
		"links": [{"source": "https://example.com/a", "target": "https://example.com/b"}]
	}`), os.ModePerm)
	c.Assert(err, gc.IsNil)

	g, err := getLinkGraph("in-memory://")
	c.Assert(err, gc.IsNil)
	c.Assert(importCorpus(g, seedFile), gc.IsNil)

	it, err := g.Edges()
	c.Assert(err, gc.IsNil)
	var edges int
	for it.Next() {
		edges++
	}
	c.Assert(it.Close(), gc.IsNil)
	c.Assert(edges, gc.Equals, 1)

	err = importCorpus(g, filepath.Join(c.MkDir(), "missing.json"))
	c.Assert(err, gc.ErrorMatches, "open corpus: .*")
}
