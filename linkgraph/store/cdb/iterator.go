package cdb

import (
	"database/sql"

	"github.com/linksrus/rankengine/linkgraph/graph"
	"golang.org/x/xerrors"
)

// documentIterator is a graph.DocumentIterator implementation for the cdb
// graph.
type documentIterator struct {
	rows       *sql.Rows
	lastErr    error
	latchedDoc *graph.Document
}

// Next implements graph.DocumentIterator.
func (i *documentIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	d := new(graph.Document)
	i.lastErr = i.rows.Scan(&d.ID, &d.URL, &d.Content, &d.PageRank)
	if i.lastErr != nil {
		return false
	}

	i.latchedDoc = d
	return true
}

// Error implements graph.DocumentIterator.
func (i *documentIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}
	return i.rows.Err()
}

// Close implements graph.DocumentIterator.
func (i *documentIterator) Close() error {
	err := i.rows.Close()
	if err != nil {
		return xerrors.Errorf("document iterator: %w", err)
	}
	return nil
}

// Document implements graph.DocumentIterator.
func (i *documentIterator) Document() *graph.Document {
	return i.latchedDoc
}

// edgeIterator is a graph.EdgeIterator implementation for the cdb graph.
type edgeIterator struct {
	rows        *sql.Rows
	lastErr     error
	latchedEdge *graph.Edge
}

// Next implements graph.EdgeIterator.
func (i *edgeIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	e := new(graph.Edge)
	i.lastErr = i.rows.Scan(&e.ID, &e.Src, &e.Dst)
	if i.lastErr != nil {
		return false
	}

	i.latchedEdge = e
	return true
}

// Error implements graph.EdgeIterator.
func (i *edgeIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}
	return i.rows.Err()
}

// Close implements graph.EdgeIterator.
func (i *edgeIterator) Close() error {
	err := i.rows.Close()
	if err != nil {
		return xerrors.Errorf("edge iterator: %w", err)
	}
	return nil
}

// Edge implements graph.EdgeIterator.
func (i *edgeIterator) Edge() *graph.Edge {
	return i.latchedEdge
}
