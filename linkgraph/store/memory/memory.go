package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"golang.org/x/xerrors"
)

// Compile-time check for ensuring InMemoryGraph implements Graph.
var _ graph.Graph = (*InMemoryGraph)(nil)

// edgeKey identifies an edge by its endpoints.
type edgeKey struct {
	src, dst uuid.UUID
}

// InMemoryGraph implements an in-memory document graph that can be
// concurrently accessed by multiple clients.
type InMemoryGraph struct {
	mu sync.RWMutex

	docs        map[uuid.UUID]*graph.Document
	docURLIndex map[string]*graph.Document
	docOrder    []uuid.UUID

	edges     map[uuid.UUID]*graph.Edge
	edgeIndex map[edgeKey]*graph.Edge
	edgeOrder []uuid.UUID
}

// NewInMemoryGraph creates a new in-memory document graph.
func NewInMemoryGraph() *InMemoryGraph {
	return &InMemoryGraph{
		docs:        make(map[uuid.UUID]*graph.Document),
		docURLIndex: make(map[string]*graph.Document),
		edges:       make(map[uuid.UUID]*graph.Edge),
		edgeIndex:   make(map[edgeKey]*graph.Edge),
	}
}

// UpsertDocument creates a new document or updates the content of the
// document with the same URL.
func (s *InMemoryGraph) UpsertDocument(doc *graph.Document) error {
	if doc.URL == "" {
		return xerrors.Errorf("upsert document: %w", graph.ErrMissingURL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check if a document with the same URL already exists. If so, update
	// its content and hand back the stored ID and score.
	if existing := s.docURLIndex[doc.URL]; existing != nil {
		existing.Content = doc.Content
		doc.ID = existing.ID
		doc.PageRank = existing.PageRank
		return nil
	}

	// Assign new ID and insert document
	for {
		doc.ID = uuid.New()
		if s.docs[doc.ID] == nil {
			break
		}
	}
	doc.PageRank = 0

	dCopy := new(graph.Document)
	*dCopy = *doc
	s.docURLIndex[dCopy.URL] = dCopy
	s.docs[dCopy.ID] = dCopy
	s.docOrder = append(s.docOrder, dCopy.ID)
	return nil
}

// FindDocument looks up a document by its ID.
func (s *InMemoryGraph) FindDocument(id uuid.UUID) (*graph.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.docs[id]
	if doc == nil {
		return nil, xerrors.Errorf("find document: %w", graph.ErrNotFound)
	}

	dCopy := new(graph.Document)
	*dCopy = *doc
	return dCopy, nil
}

// Documents returns an iterator for all documents in the graph, in insertion
// order.
func (s *InMemoryGraph) Documents() (graph.DocumentIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*graph.Document, 0, len(s.docOrder))
	for _, id := range s.docOrder {
		list = append(list, s.docs[id])
	}
	return &documentIterator{s: s, docs: list}, nil
}

// UpsertEdge creates a new edge or returns the existing edge with the same
// source and destination.
func (s *InMemoryGraph) UpsertEdge(edge *graph.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.docs[edge.Src] == nil || s.docs[edge.Dst] == nil {
		return xerrors.Errorf("upsert edge: %w", graph.ErrUnknownEdgeLinks)
	}

	key := edgeKey{src: edge.Src, dst: edge.Dst}
	if existing := s.edgeIndex[key]; existing != nil {
		edge.ID = existing.ID
		return nil
	}

	// Assign new ID and insert edge
	for {
		edge.ID = uuid.New()
		if s.edges[edge.ID] == nil {
			break
		}
	}

	eCopy := new(graph.Edge)
	*eCopy = *edge
	s.edges[eCopy.ID] = eCopy
	s.edgeIndex[key] = eCopy
	s.edgeOrder = append(s.edgeOrder, eCopy.ID)
	return nil
}

// Edges returns an iterator for all edges in the graph, in insertion order.
func (s *InMemoryGraph) Edges() (graph.EdgeIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*graph.Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		list = append(list, s.edges[id])
	}
	return &edgeIterator{s: s, edges: list}, nil
}

// UpdateScore sets the PageRank score for a single document.
func (s *InMemoryGraph) UpdateScore(id uuid.UUID, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs[id]
	if doc == nil {
		return xerrors.Errorf("update score: %w", graph.ErrNotFound)
	}
	doc.PageRank = score
	return nil
}

// UpdateScores sets the PageRank score for a set of documents. The batch is
// validated before any score gets modified.
func (s *InMemoryGraph) UpdateScores(scores map[uuid.UUID]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range scores {
		if s.docs[id] == nil {
			return xerrors.Errorf("update scores: document %s: %w", id, graph.ErrNotFound)
		}
	}
	for id, score := range scores {
		s.docs[id].PageRank = score
	}
	return nil
}
