package cdb

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"golang.org/x/xerrors"
)

var (
	createSchemaQueries = []string{
		`CREATE TABLE IF NOT EXISTS documents (
	id UUID NOT NULL PRIMARY KEY DEFAULT gen_random_uuid(),
	url TEXT NOT NULL UNIQUE,
	content TEXT NOT NULL DEFAULT '',
	pagerank_score DOUBLE PRECISION NOT NULL DEFAULT 0
)`,
		`CREATE TABLE IF NOT EXISTS edges (
	id UUID NOT NULL PRIMARY KEY DEFAULT gen_random_uuid(),
	src UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	dst UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	CONSTRAINT edge_links UNIQUE(src, dst)
)`,
	}

	upsertDocumentQuery = `
INSERT INTO documents (url, content) VALUES ($1, $2)
ON CONFLICT (url) DO UPDATE SET content=$2
RETURNING id, pagerank_score
`
	findDocumentQuery = "SELECT url, content, pagerank_score FROM documents WHERE id=$1"
	documentsQuery    = "SELECT id, url, content, pagerank_score FROM documents ORDER BY id"

	upsertEdgeQuery = `
INSERT INTO edges (src, dst) VALUES ($1, $2)
ON CONFLICT (src,dst) DO UPDATE SET dst=$2
RETURNING id
`
	edgesQuery       = "SELECT id, src, dst FROM edges ORDER BY id"
	updateScoreQuery = "UPDATE documents SET pagerank_score=$2 WHERE id=$1"

	// Compile-time check for ensuring CockroachDBGraph implements Graph.
	_ graph.Graph = (*CockroachDBGraph)(nil)
)

// CockroachDBGraph implements a graph that persists its documents and edges
// to a cockroachdb (or any postgres-compatible) instance.
type CockroachDBGraph struct {
	db *sql.DB
}

// NewCockroachDBGraph returns a CockroachDBGraph instance that connects to
// the cockroachdb instance specified by dsn and ensures that the documents
// and edges tables exist.
func NewCockroachDBGraph(dsn string) (*CockroachDBGraph, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	for _, q := range createSchemaQueries {
		if _, err = db.Exec(q); err != nil {
			_ = db.Close()
			return nil, xerrors.Errorf("create schema: %w", err)
		}
	}

	return &CockroachDBGraph{db: db}, nil
}

// Close terminates the connection to the backing cockroachdb instance.
func (c *CockroachDBGraph) Close() error {
	return c.db.Close()
}

// UpsertDocument creates a new document or updates the content of the
// document with the same URL.
func (c *CockroachDBGraph) UpsertDocument(doc *graph.Document) error {
	if doc.URL == "" {
		return xerrors.Errorf("upsert document: %w", graph.ErrMissingURL)
	}

	row := c.db.QueryRow(upsertDocumentQuery, doc.URL, doc.Content)
	if err := row.Scan(&doc.ID, &doc.PageRank); err != nil {
		return xerrors.Errorf("upsert document: %w", err)
	}
	return nil
}

// FindDocument looks up a document by its ID.
func (c *CockroachDBGraph) FindDocument(id uuid.UUID) (*graph.Document, error) {
	row := c.db.QueryRow(findDocumentQuery, id)
	doc := &graph.Document{ID: id}
	if err := row.Scan(&doc.URL, &doc.Content, &doc.PageRank); err != nil {
		if err == sql.ErrNoRows {
			return nil, xerrors.Errorf("find document: %w", graph.ErrNotFound)
		}

		return nil, xerrors.Errorf("find document: %w", err)
	}

	return doc, nil
}

// Documents returns an iterator for all documents in the graph.
func (c *CockroachDBGraph) Documents() (graph.DocumentIterator, error) {
	rows, err := c.db.Query(documentsQuery)
	if err != nil {
		return nil, xerrors.Errorf("documents: %w", err)
	}

	return &documentIterator{rows: rows}, nil
}

// UpsertEdge creates a new edge or returns the existing edge with the same
// source and destination.
func (c *CockroachDBGraph) UpsertEdge(edge *graph.Edge) error {
	row := c.db.QueryRow(upsertEdgeQuery, edge.Src, edge.Dst)
	if err := row.Scan(&edge.ID); err != nil {
		if isForeignKeyViolationError(err) {
			err = graph.ErrUnknownEdgeLinks
		}
		return xerrors.Errorf("upsert edge: %w", err)
	}

	return nil
}

// Edges returns an iterator for all edges in the graph.
func (c *CockroachDBGraph) Edges() (graph.EdgeIterator, error) {
	rows, err := c.db.Query(edgesQuery)
	if err != nil {
		return nil, xerrors.Errorf("edges: %w", err)
	}

	return &edgeIterator{rows: rows}, nil
}

// UpdateScore sets the PageRank score for a single document.
func (c *CockroachDBGraph) UpdateScore(id uuid.UUID, score float64) error {
	res, err := c.db.Exec(updateScoreQuery, id, score)
	if err != nil {
		return xerrors.Errorf("update score: %w", err)
	}

	return ensureAffected(res, id)
}

// UpdateScores sets the PageRank score for a set of documents inside a
// single transaction.
func (c *CockroachDBGraph) UpdateScores(scores map[uuid.UUID]float64) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return xerrors.Errorf("update scores: %w", err)
	}

	stmt, err := tx.Prepare(updateScoreQuery)
	if err != nil {
		_ = tx.Rollback()
		return xerrors.Errorf("update scores: %w", err)
	}

	for id, score := range scores {
		res, err := stmt.Exec(id, score)
		if err == nil {
			err = ensureAffected(res, id)
		}
		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return xerrors.Errorf("update scores: %w", err)
		}
	}

	if err = stmt.Close(); err != nil {
		_ = tx.Rollback()
		return xerrors.Errorf("update scores: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return xerrors.Errorf("update scores: %w", err)
	}
	return nil
}

// ensureAffected returns ErrNotFound if an update statement did not match
// any document row.
func ensureAffected(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	} else if n == 0 {
		return xerrors.Errorf("document %s: %w", id, graph.ErrNotFound)
	}
	return nil
}

// isForeignKeyViolationError returns true if err indicates a foreign key
// constraint violation.
func isForeignKeyViolationError(err error) bool {
	pqErr, valid := err.(*pq.Error)
	if !valid {
		return false
	}

	return pqErr.Code.Name() == "foreign_key_violation"
}
