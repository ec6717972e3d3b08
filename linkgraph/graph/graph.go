package graph

import (
	"strings"

	"github.com/google/uuid"
)

// Iterator is implemented by graph objects that can be iterated.
type Iterator interface {
	// Next advances the iterator. If no more items are available or an
	// error occurs, calls to Next() return false.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources associated with an iterator.
	Close() error
}

// DocumentIterator is implemented by objects that can iterate the graph
// documents.
type DocumentIterator interface {
	Iterator

	// Document returns the currently fetched document object.
	Document() *Document
}

// EdgeIterator is implemented by objects that can iterate the graph edges.
type EdgeIterator interface {
	Iterator

	// Edge returns the currently fetched edge object.
	Edge() *Edge
}

// Document is a crawled page stored in the link graph.
type Document struct {
	// A unique identifier for the document.
	ID uuid.UUID

	// The URL the document was retrieved from. URLs are unique across
	// the graph.
	URL string

	// The raw document text. The first line holds the title.
	Content string

	// The PageRank score assigned to this document by the last batch
	// pass.
	PageRank float64
}

// Title returns the first line of the document content.
func (d *Document) Title() string {
	title, _ := SplitContent(d.Content)
	return title
}

// Body returns the document content without its title line.
func (d *Document) Body() string {
	_, body := SplitContent(d.Content)
	return body
}

// Edge describes a graph edge that originates from Src and terminates
// at Dst.
type Edge struct {
	// A unique identifier for the edge.
	ID uuid.UUID

	// The origin document.
	Src uuid.UUID

	// The destination document.
	Dst uuid.UUID
}

// Graph is implemented by objects that can mutate or query the document
// graph.
type Graph interface {
	// UpsertDocument creates a new document or updates the content of the
	// document with the same URL. The PageRank score of an existing
	// document is preserved.
	UpsertDocument(doc *Document) error

	// FindDocument looks up a document by its ID.
	FindDocument(id uuid.UUID) (*Document, error)

	// Documents returns an iterator for all documents in the graph.
	Documents() (DocumentIterator, error)

	// UpsertEdge creates a new edge or returns the existing edge with the
	// same source and destination.
	UpsertEdge(edge *Edge) error

	// Edges returns an iterator for all edges in the graph.
	Edges() (EdgeIterator, error)

	// UpdateScore sets the PageRank score for a single document.
	UpdateScore(id uuid.UUID, score float64) error

	// UpdateScores sets the PageRank score for a set of documents. Either
	// all scores are persisted or none of them is.
	UpdateScores(scores map[uuid.UUID]float64) error
}

// SplitContent splits document content into a title (the first line) and a
// body (the remaining lines). Documents with a single line use the full
// content as their body.
func SplitContent(content string) (title, body string) {
	parts := strings.SplitN(content, "\n", 2)
	title = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		return title, strings.TrimSpace(parts[1])
	}
	return title, strings.TrimSpace(content)
}
