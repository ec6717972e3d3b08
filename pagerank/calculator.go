package pagerank

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/xerrors"
)

// Edge describes a directed link from the vertex with ID Src to the vertex
// with ID Dst.
type Edge struct {
	Src uuid.UUID
	Dst uuid.UUID
}

// Result contains the output of a PageRank calculation.
type Result struct {
	// Scores maps each vertex ID to its PageRank score. The scores of all
	// vertices sum to 1.
	Scores map[uuid.UUID]float64

	// Iterations is the number of iterations that were executed.
	Iterations int

	// Converged is false if the calculation was stopped because it reached
	// the configured maximum number of iterations.
	Converged bool

	// DroppedEdges counts the edges that were ignored because one of their
	// endpoints was not part of the vertex set.
	DroppedEdges int

	// DuplicateEdges counts the edges that were ignored because an edge
	// with the same endpoints had already been seen.
	DuplicateEdges int
}

// Calculator executes the iterative version of the PageRank algorithm
// on a graph until the desired level of convergence is reached.
type Calculator struct {
	cfg Config
}

// NewCalculator returns a new Calculator instance using the provided config
// options.
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("PageRank calculator config validation failed: %w", err)
	}
	return &Calculator{cfg: cfg}, nil
}

// Compute calculates the PageRank scores for the vertices in ids given the
// list of directed edges between them.
//
// Every vertex starts with a score of 1/N. The score mass of vertices without
// outgoing links is distributed uniformly across all vertices at each
// iteration. Edges referencing unknown vertices are dropped and repeated
// edges are only counted once; neither condition is treated as an error.
//
// Compute checks ctx between iterations and returns ctx.Err() if the context
// is cancelled.
func (c *Calculator) Compute(ctx context.Context, ids []uuid.UUID, edges []Edge) (*Result, error) {
	res := &Result{Scores: make(map[uuid.UUID]float64, len(ids))}

	vertices := make([]uuid.UUID, 0, len(ids))
	index := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		if _, exists := index[id]; exists {
			continue
		}
		index[id] = len(vertices)
		vertices = append(vertices, id)
	}

	numVertices := len(vertices)
	if numVertices == 0 {
		res.Converged = true
		return res, nil
	}

	state := &iterationState{
		damping:   c.cfg.DampingFactor,
		n:         float64(numVertices),
		base:      (1 - c.cfg.DampingFactor) / float64(numVertices),
		inLinks:   make([][]int, numVertices),
		outDegree: make([]int, numVertices),
		prev:      make([]float64, numVertices),
		next:      make([]float64, numVertices),
	}

	type link struct{ src, dst int }
	seen := make(map[link]struct{}, len(edges))
	for _, e := range edges {
		src, srcOK := index[e.Src]
		dst, dstOK := index[e.Dst]
		if !srcOK || !dstOK {
			res.DroppedEdges++
			continue
		}

		l := link{src: src, dst: dst}
		if _, dup := seen[l]; dup {
			res.DuplicateEdges++
			continue
		}
		seen[l] = struct{}{}

		state.inLinks[dst] = append(state.inLinks[dst], src)
		state.outDegree[src]++
	}

	initScore := 1.0 / float64(numVertices)
	for v := range state.prev {
		state.prev[v] = initScore
		if state.outDegree[v] == 0 {
			state.dangling += initScore
		}
	}

	numWorkers := c.cfg.ComputeWorkers
	if numWorkers > numVertices {
		numWorkers = numVertices
	}
	pool := startWorkers(state, numWorkers)
	defer pool.close()
	ranges := splitVertexRanges(numVertices, numWorkers)

	for res.Iterations < c.cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pool.step(ranges)
		res.Iterations++

		state.prev, state.next = state.next, state.prev
		state.dangling = state.nextDangling.Get()
		if state.maxDelta.Get() < c.cfg.ConvergenceThreshold {
			res.Converged = true
			break
		}
	}

	for v, id := range vertices {
		res.Scores[id] = state.prev[v]
	}
	return res, nil
}
