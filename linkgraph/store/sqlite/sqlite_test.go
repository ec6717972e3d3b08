package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/linksrus/rankengine/linkgraph/graph"
	"github.com/linksrus/rankengine/linkgraph/graph/graphtest"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(SQLiteGraphTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type SQLiteGraphTestSuite struct {
	graphtest.SuiteBase
	g *SQLiteGraph
}

func (s *SQLiteGraphTestSuite) SetUpTest(c *gc.C) {
	g, err := NewSQLiteGraph(filepath.Join(c.MkDir(), "graph.db"))
	c.Assert(err, gc.IsNil)
	s.SetGraph(g)
	s.g = g
}

func (s *SQLiteGraphTestSuite) TearDownTest(c *gc.C) {
	if s.g != nil {
		c.Assert(s.g.Close(), gc.IsNil)
	}
}

func (s *SQLiteGraphTestSuite) TestReopenKeepsData(c *gc.C) {
	doc := &graph.Document{URL: "https://example.com", Content: "Example\nbody"}
	c.Assert(s.g.UpsertDocument(doc), gc.IsNil)
	c.Assert(s.g.UpdateScore(doc.ID, 0.5), gc.IsNil)

	path := s.g.Path()
	c.Assert(s.g.Close(), gc.IsNil)

	reopened, err := NewSQLiteGraph(path)
	c.Assert(err, gc.IsNil)
	s.g = reopened

	stored, err := reopened.FindDocument(doc.ID)
	c.Assert(err, gc.IsNil)
	c.Assert(stored.Content, gc.Equals, doc.Content)
	c.Assert(stored.PageRank, gc.Equals, 0.5)
}
