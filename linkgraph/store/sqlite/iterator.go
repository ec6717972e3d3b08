package sqlite

import (
	"database/sql"

	"github.com/linksrus/rankengine/linkgraph/graph"
	"golang.org/x/xerrors"
)

type documentIterator struct {
	rows       *sql.Rows
	lastErr    error
	latchedDoc *graph.Document
}

func (i *documentIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	d := new(graph.Document)
	if i.lastErr = i.rows.Scan(&d.ID, &d.URL, &d.Content, &d.PageRank); i.lastErr != nil {
		return false
	}

	i.latchedDoc = d
	return true
}

func (i *documentIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}
	return i.rows.Err()
}

func (i *documentIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return xerrors.Errorf("document iterator: %w", err)
	}
	return nil
}

func (i *documentIterator) Document() *graph.Document {
	return i.latchedDoc
}

type edgeIterator struct {
	rows        *sql.Rows
	lastErr     error
	latchedEdge *graph.Edge
}

func (i *edgeIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	e := new(graph.Edge)
	if i.lastErr = i.rows.Scan(&e.ID, &e.Src, &e.Dst); i.lastErr != nil {
		return false
	}

	i.latchedEdge = e
	return true
}

func (i *edgeIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}
	return i.rows.Err()
}

func (i *edgeIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return xerrors.Errorf("edge iterator: %w", err)
	}
	return nil
}

func (i *edgeIterator) Edge() *graph.Edge {
	return i.latchedEdge
}
