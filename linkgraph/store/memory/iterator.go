package memory

import "github.com/linksrus/rankengine/linkgraph/graph"

// documentIterator is a graph.DocumentIterator implementation for the
// in-memory graph.
type documentIterator struct {
	s *InMemoryGraph

	docs     []*graph.Document
	curIndex int
}

// Next implements graph.DocumentIterator.
func (i *documentIterator) Next() bool {
	if i.curIndex >= len(i.docs) {
		return false
	}
	i.curIndex++
	return true
}

// Error implements graph.DocumentIterator.
func (i *documentIterator) Error() error {
	return nil
}

// Close implements graph.DocumentIterator.
func (i *documentIterator) Close() error {
	return nil
}

// Document implements graph.DocumentIterator.
func (i *documentIterator) Document() *graph.Document {
	// The document pointer contents may be overwritten by a graph update;
	// to avoid data-races we acquire the read lock first and clone it.
	i.s.mu.RLock()
	doc := new(graph.Document)
	*doc = *i.docs[i.curIndex-1]
	i.s.mu.RUnlock()
	return doc
}

// edgeIterator is a graph.EdgeIterator implementation for the in-memory graph.
type edgeIterator struct {
	s *InMemoryGraph

	edges    []*graph.Edge
	curIndex int
}

// Next implements graph.EdgeIterator.
func (i *edgeIterator) Next() bool {
	if i.curIndex >= len(i.edges) {
		return false
	}
	i.curIndex++
	return true
}

// Error implements graph.EdgeIterator.
func (i *edgeIterator) Error() error {
	return nil
}

// Close implements graph.EdgeIterator.
func (i *edgeIterator) Close() error {
	return nil
}

// Edge implements graph.EdgeIterator.
func (i *edgeIterator) Edge() *graph.Edge {
	i.s.mu.RLock()
	edge := new(graph.Edge)
	*edge = *i.edges[i.curIndex-1]
	i.s.mu.RUnlock()
	return edge
}
