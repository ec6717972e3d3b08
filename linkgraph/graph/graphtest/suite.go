package graphtest

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

// SuiteBase defines a re-usable set of graph-related tests that can
// be executed against any type that implements graph.Graph.
type SuiteBase struct {
	g graph.Graph
}

// SetGraph configures the test-suite to run all tests against g.
func (s *SuiteBase) SetGraph(g graph.Graph) {
	s.g = g
}

// TestUpsertDocument verifies the document upsert logic.
func (s *SuiteBase) TestUpsertDocument(c *gc.C) {
	// Create a new document
	original := &graph.Document{
		URL:     "https://example.com",
		Content: "Example\nfirst version",
	}

	err := s.g.UpsertDocument(original)
	c.Assert(err, gc.IsNil)
	c.Assert(original.ID, gc.Not(gc.Equals), uuid.Nil, gc.Commentf("expected an ID to be assigned to the new document"))

	c.Assert(s.g.UpdateScore(original.ID, 0.25), gc.IsNil)

	// Upsert a document with the same URL; content gets replaced but the
	// ID and score are retained.
	sameURL := &graph.Document{
		URL:     original.URL,
		Content: "Example\nsecond version",
	}
	err = s.g.UpsertDocument(sameURL)
	c.Assert(err, gc.IsNil)
	c.Assert(sameURL.ID, gc.Equals, original.ID, gc.Commentf("document ID changed while upserting"))
	c.Assert(sameURL.PageRank, gc.Equals, 0.25, gc.Commentf("PageRank score was not preserved"))

	stored, err := s.g.FindDocument(original.ID)
	c.Assert(err, gc.IsNil)
	c.Assert(stored.Content, gc.Equals, "Example\nsecond version")
	c.Assert(stored.PageRank, gc.Equals, 0.25)

	// Documents without a URL are rejected.
	err = s.g.UpsertDocument(&graph.Document{Content: "no url"})
	c.Assert(xerrors.Is(err, graph.ErrMissingURL), gc.Equals, true)
}

// TestFindDocument verifies the document lookup logic.
func (s *SuiteBase) TestFindDocument(c *gc.C) {
	doc := &graph.Document{
		URL:     "https://example.com/contact",
		Content: "Contact\nCall us.",
	}

	err := s.g.UpsertDocument(doc)
	c.Assert(err, gc.IsNil)

	// Lookup document by ID
	other, err := s.g.FindDocument(doc.ID)
	c.Assert(err, gc.IsNil)
	c.Assert(other, gc.DeepEquals, doc, gc.Commentf("lookup by ID returned the wrong document"))

	// Lookup document by unknown ID
	_, err = s.g.FindDocument(uuid.New())
	c.Assert(xerrors.Is(err, graph.ErrNotFound), gc.Equals, true)
}

// TestDocumentIterator verifies that all documents are returned by the
// document iterator.
func (s *SuiteBase) TestDocumentIterator(c *gc.C) {
	numDocs := 50
	exp := make(map[uuid.UUID]string, numDocs)
	for i := 0; i < numDocs; i++ {
		doc := &graph.Document{URL: fmt.Sprintf("https://example.com/%d", i), Content: fmt.Sprint(i)}
		c.Assert(s.g.UpsertDocument(doc), gc.IsNil)
		exp[doc.ID] = doc.URL
	}

	it, err := s.g.Documents()
	c.Assert(err, gc.IsNil)

	seen := make(map[uuid.UUID]bool)
	for it.Next() {
		doc := it.Document()
		c.Assert(seen[doc.ID], gc.Equals, false, gc.Commentf("iterator returned document %s twice", doc.ID))
		c.Assert(doc.URL, gc.Equals, exp[doc.ID])
		seen[doc.ID] = true
	}
	c.Assert(it.Error(), gc.IsNil)
	c.Assert(it.Close(), gc.IsNil)
	c.Assert(seen, gc.HasLen, numDocs)
}

// TestConcurrentDocumentIterators verifies that multiple clients can
// concurrently access the store.
func (s *SuiteBase) TestConcurrentDocumentIterators(c *gc.C) {
	var (
		wg           sync.WaitGroup
		numIterators = 10
		numDocs      = 100
	)

	for i := 0; i < numDocs; i++ {
		doc := &graph.Document{URL: fmt.Sprint(i)}
		c.Assert(s.g.UpsertDocument(doc), gc.IsNil)
	}

	wg.Add(numIterators)
	for i := 0; i < numIterators; i++ {
		go func(id int) {
			defer wg.Done()

			itTagComment := gc.Commentf("iterator %d", id)
			seen := make(map[string]bool)
			it, err := s.g.Documents()
			c.Assert(err, gc.IsNil, itTagComment)

			for it.Next() {
				docID := it.Document().ID.String()
				c.Assert(seen[docID], gc.Equals, false, gc.Commentf("iterator %d saw same document twice", id))
				seen[docID] = true
			}

			c.Assert(seen, gc.HasLen, numDocs, itTagComment)
			c.Assert(it.Error(), gc.IsNil, itTagComment)
			c.Assert(it.Close(), gc.IsNil, itTagComment)
		}(i)
	}

	doneCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
	// test completed successfully
	case <-time.After(10 * time.Second):
		c.Fatal("timed out waiting for test to complete")
	}
}

// TestUpsertEdge verifies the edge upsert logic.
func (s *SuiteBase) TestUpsertEdge(c *gc.C) {
	// Create links
	docUUIDs := make([]uuid.UUID, 3)
	for i := 0; i < 3; i++ {
		doc := &graph.Document{URL: fmt.Sprint(i)}
		c.Assert(s.g.UpsertDocument(doc), gc.IsNil)
		docUUIDs[i] = doc.ID
	}

	// Create a edge
	edge := &graph.Edge{
		Src: docUUIDs[0],
		Dst: docUUIDs[1],
	}

	err := s.g.UpsertEdge(edge)
	c.Assert(err, gc.IsNil)
	c.Assert(edge.ID, gc.Not(gc.Equals), uuid.Nil, gc.Commentf("expected an edgeID to be assigned to the new edge"))

	// Repeating the same edge returns the existing entry.
	other := &graph.Edge{
		Src: docUUIDs[0],
		Dst: docUUIDs[1],
	}
	err = s.g.UpsertEdge(other)
	c.Assert(err, gc.IsNil)
	c.Assert(other.ID, gc.Equals, edge.ID, gc.Commentf("expected edge IDs to match"))

	// Self-links are valid edges.
	self := &graph.Edge{Src: docUUIDs[2], Dst: docUUIDs[2]}
	c.Assert(s.g.UpsertEdge(self), gc.IsNil)

	// Create edge to unknown link
	bogus := &graph.Edge{
		Src: docUUIDs[0],
		Dst: uuid.New(),
	}
	err = s.g.UpsertEdge(bogus)
	c.Assert(xerrors.Is(err, graph.ErrUnknownEdgeLinks), gc.Equals, true)

	c.Assert(s.collectEdges(c), gc.HasLen, 2)
}

// TestEdgeIterator verifies that all edges are returned by the edge
// iterator.
func (s *SuiteBase) TestEdgeIterator(c *gc.C) {
	numDocs := 10
	ids := make([]uuid.UUID, numDocs)
	for i := 0; i < numDocs; i++ {
		doc := &graph.Document{URL: fmt.Sprint(i)}
		c.Assert(s.g.UpsertDocument(doc), gc.IsNil)
		ids[i] = doc.ID
	}

	exp := make(map[uuid.UUID]uuid.UUID)
	for i := 0; i < numDocs; i++ {
		edge := &graph.Edge{Src: ids[i], Dst: ids[(i+1)%numDocs]}
		c.Assert(s.g.UpsertEdge(edge), gc.IsNil)
		exp[edge.Src] = edge.Dst
	}

	edges := s.collectEdges(c)
	c.Assert(edges, gc.HasLen, numDocs)
	for _, e := range edges {
		c.Assert(e.Dst, gc.Equals, exp[e.Src])
	}
}

// TestUpdateScore verifies the single document score update logic.
func (s *SuiteBase) TestUpdateScore(c *gc.C) {
	doc := &graph.Document{URL: "https://example.com"}
	c.Assert(s.g.UpsertDocument(doc), gc.IsNil)

	c.Assert(s.g.UpdateScore(doc.ID, 0.42), gc.IsNil)
	stored, err := s.g.FindDocument(doc.ID)
	c.Assert(err, gc.IsNil)
	c.Assert(stored.PageRank, gc.Equals, 0.42)

	err = s.g.UpdateScore(uuid.New(), 0.1)
	c.Assert(xerrors.Is(err, graph.ErrNotFound), gc.Equals, true)
}

// TestUpdateScores verifies that bulk score updates are applied atomically.
func (s *SuiteBase) TestUpdateScores(c *gc.C) {
	docA := &graph.Document{URL: "https://example.com/a"}
	docB := &graph.Document{URL: "https://example.com/b"}
	c.Assert(s.g.UpsertDocument(docA), gc.IsNil)
	c.Assert(s.g.UpsertDocument(docB), gc.IsNil)

	err := s.g.UpdateScores(map[uuid.UUID]float64{docA.ID: 0.6, docB.ID: 0.4})
	c.Assert(err, gc.IsNil)
	s.assertScore(c, docA.ID, 0.6)
	s.assertScore(c, docB.ID, 0.4)

	// A batch referencing an unknown document must not modify any score.
	err = s.g.UpdateScores(map[uuid.UUID]float64{docA.ID: 0.9, uuid.New(): 0.1})
	c.Assert(xerrors.Is(err, graph.ErrNotFound), gc.Equals, true)
	s.assertScore(c, docA.ID, 0.6)

	// Empty batches are a no-op.
	c.Assert(s.g.UpdateScores(nil), gc.IsNil)
}

func (s *SuiteBase) assertScore(c *gc.C, id uuid.UUID, exp float64) {
	doc, err := s.g.FindDocument(id)
	c.Assert(err, gc.IsNil)
	c.Assert(doc.PageRank, gc.Equals, exp, gc.Commentf("score mismatch for document %s", id))
}

func (s *SuiteBase) collectEdges(c *gc.C) []*graph.Edge {
	it, err := s.g.Edges()
	c.Assert(err, gc.IsNil)

	var edges []*graph.Edge
	for it.Next() {
		edges = append(edges, it.Edge())
	}
	c.Assert(it.Error(), gc.IsNil)
	c.Assert(it.Close(), gc.IsNil)
	return edges
}
