package sqlite

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/linksrus/rankengine/linkgraph/graph"
	"golang.org/x/xerrors"

	_ "modernc.org/sqlite" // SQLite driver
)

const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

var (
	createSchemaQuery = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT NOT NULL PRIMARY KEY,
	url TEXT NOT NULL UNIQUE,
	content TEXT NOT NULL DEFAULT '',
	pagerank_score REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS edges (
	id TEXT NOT NULL PRIMARY KEY,
	src TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	dst TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	UNIQUE(src, dst)
);
`

	upsertDocumentQuery = `
INSERT INTO documents (id, url, content) VALUES (?, ?, ?)
ON CONFLICT (url) DO UPDATE SET content=excluded.content
RETURNING id, pagerank_score
`
	findDocumentQuery = "SELECT url, content, pagerank_score FROM documents WHERE id=?"
	documentsQuery    = "SELECT id, url, content, pagerank_score FROM documents ORDER BY rowid"
	documentExists    = "SELECT EXISTS(SELECT 1 FROM documents WHERE id=?)"

	upsertEdgeQuery = `
INSERT INTO edges (id, src, dst) VALUES (?, ?, ?)
ON CONFLICT (src, dst) DO UPDATE SET dst=excluded.dst
RETURNING id
`
	edgesQuery       = "SELECT id, src, dst FROM edges ORDER BY rowid"
	updateScoreQuery = "UPDATE documents SET pagerank_score=? WHERE id=?"

	// Compile-time check for ensuring SQLiteGraph implements Graph.
	_ graph.Graph = (*SQLiteGraph)(nil)
)

// SQLiteGraph implements a graph that persists its documents and edges to a
// single SQLite database file.
type SQLiteGraph struct {
	db   *sql.DB
	path string
}

// NewSQLiteGraph opens (or creates) the SQLite database at path and ensures
// that the documents and edges tables exist.
func NewSQLiteGraph(path string) (*SQLiteGraph, error) {
	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, xerrors.Errorf("open database: %w", err)
	}

	if _, err = db.Exec(createSchemaQuery); err != nil {
		_ = db.Close()
		return nil, xerrors.Errorf("create schema: %w", err)
	}

	return &SQLiteGraph{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *SQLiteGraph) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteGraph) Path() string {
	return s.path
}

// UpsertDocument creates a new document or updates the content of the
// document with the same URL.
func (s *SQLiteGraph) UpsertDocument(doc *graph.Document) error {
	if doc.URL == "" {
		return xerrors.Errorf("upsert document: %w", graph.ErrMissingURL)
	}

	row := s.db.QueryRow(upsertDocumentQuery, uuid.New(), doc.URL, doc.Content)
	if err := row.Scan(&doc.ID, &doc.PageRank); err != nil {
		return xerrors.Errorf("upsert document: %w", err)
	}
	return nil
}

// FindDocument looks up a document by its ID.
func (s *SQLiteGraph) FindDocument(id uuid.UUID) (*graph.Document, error) {
	row := s.db.QueryRow(findDocumentQuery, id)
	doc := &graph.Document{ID: id}
	if err := row.Scan(&doc.URL, &doc.Content, &doc.PageRank); err != nil {
		if err == sql.ErrNoRows {
			return nil, xerrors.Errorf("find document: %w", graph.ErrNotFound)
		}
		return nil, xerrors.Errorf("find document: %w", err)
	}
	return doc, nil
}

// Documents returns an iterator for all documents in insertion order.
func (s *SQLiteGraph) Documents() (graph.DocumentIterator, error) {
	rows, err := s.db.Query(documentsQuery)
	if err != nil {
		return nil, xerrors.Errorf("documents: %w", err)
	}
	return &documentIterator{rows: rows}, nil
}

// UpsertEdge creates a new edge or returns the existing edge with the same
// source and destination.
func (s *SQLiteGraph) UpsertEdge(edge *graph.Edge) error {
	tx, err := s.db.Begin()
	if err != nil {
		return xerrors.Errorf("upsert edge: %w", err)
	}

	for _, id := range []uuid.UUID{edge.Src, edge.Dst} {
		var exists bool
		if err = tx.QueryRow(documentExists, id).Scan(&exists); err != nil {
			_ = tx.Rollback()
			return xerrors.Errorf("upsert edge: %w", err)
		} else if !exists {
			_ = tx.Rollback()
			return xerrors.Errorf("upsert edge: %w", graph.ErrUnknownEdgeLinks)
		}
	}

	if err = tx.QueryRow(upsertEdgeQuery, uuid.New(), edge.Src, edge.Dst).Scan(&edge.ID); err != nil {
		_ = tx.Rollback()
		return xerrors.Errorf("upsert edge: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return xerrors.Errorf("upsert edge: %w", err)
	}
	return nil
}

// Edges returns an iterator for all edges in insertion order.
func (s *SQLiteGraph) Edges() (graph.EdgeIterator, error) {
	rows, err := s.db.Query(edgesQuery)
	if err != nil {
		return nil, xerrors.Errorf("edges: %w", err)
	}
	return &edgeIterator{rows: rows}, nil
}

// UpdateScore sets the PageRank score for a single document.
func (s *SQLiteGraph) UpdateScore(id uuid.UUID, score float64) error {
	res, err := s.db.Exec(updateScoreQuery, score, id)
	if err != nil {
		return xerrors.Errorf("update score: %w", err)
	}
	return ensureAffected(res, id)
}

// UpdateScores sets the PageRank score for a set of documents inside a
// single transaction.
func (s *SQLiteGraph) UpdateScores(scores map[uuid.UUID]float64) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return xerrors.Errorf("update scores: %w", err)
	}

	for id, score := range scores {
		res, err := tx.Exec(updateScoreQuery, score, id)
		if err == nil {
			err = ensureAffected(res, id)
		}
		if err != nil {
			_ = tx.Rollback()
			return xerrors.Errorf("update scores: %w", err)
		}
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
