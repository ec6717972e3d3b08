package graph

import "golang.org/x/xerrors"

var (
	// ErrNotFound is returned when a document lookup fails.
	ErrNotFound = xerrors.New("not found")

	// ErrUnknownEdgeLinks is returned when attempting to create an edge
	// with an invalid source and/or destination ID
	ErrUnknownEdgeLinks = xerrors.New("unknown source and/or destination for edge")

	// ErrMissingURL is returned when attempting to upsert a document
	// without a URL.
	ErrMissingURL = xerrors.New("document does not provide a URL")
)
