package pagerank_test

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/linksrus/rankengine/pagerank"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(CalculatorTestSuite))

func Test(t *testing.T) {
	// Run all gocheck test-suites
	gc.TestingT(t)
}

type edge struct {
	src, dst string
}

type spec struct {
	descr     string
	vertices  []string
	edges     []edge
	expScores map[string]float64
}

type CalculatorTestSuite struct {
}

func (s *CalculatorTestSuite) TestSimpleGraphCase1(c *gc.C) {
	spec := spec{
		descr: `
 (A) -> (B) -> (C)
  ^             |
  |             |
  +-------------+

Expect PageRank score to be distributed evenly across the three nodes.
`,
		vertices: []string{"A", "B", "C"},
		edges: []edge{
			{"A", "B"},
			{"B", "C"},
			{"C", "A"},
		},
		expScores: map[string]float64{
			"A": 1.0 / 3.0,
			"B": 1.0 / 3.0,
			"C": 1.0 / 3.0,
		},
	}

	res := s.assertPageRankScores(c, spec)
	c.Assert(res.Iterations, gc.Equals, 1)
}

func (s *CalculatorTestSuite) TestSimpleGraphCase2(c *gc.C) {
	spec := spec{
		descr: `
  +--(A)<-+
  |       |
  V       |
 (B) <-> (C)

Expect B and C to get better score than A due to the back-link between them.
Also, B should get slightly better score than C as there are two links pointing
to it.
`,
		vertices: []string{"A", "B", "C"},
		edges: []edge{
			{"A", "B"},
			{"B", "C"},
			{"C", "A"},
			{"C", "B"},
		},
		expScores: map[string]float64{
			"A": 0.21481,
			"B": 0.39740,
			"C": 0.38779,
		},
	}

	s.assertPageRankScores(c, spec)
}

func (s *CalculatorTestSuite) TestSimpleGraphCase3(c *gc.C) {
	spec := spec{
		descr: `
 (A) <-> (B) <-> (C)

Expect A and C to get the same score and B to get the largest score since there
are two links pointing to it.
`,
		vertices: []string{"A", "B", "C"},
		edges: []edge{
			{"A", "B"},
			{"B", "A"},
			{"B", "C"},
			{"C", "B"},
		},
		expScores: map[string]float64{
			"A": 0.25676,
			"B": 0.48649,
			"C": 0.25676,
		},
	}

	s.assertPageRankScores(c, spec)
}

func (s *CalculatorTestSuite) TestDeadEnd(c *gc.C) {
	spec := spec{
		descr: `
 (A) -> (B) -> (C)

C is a dead-end as it has no outgoing links. Its score is spread uniformly
across all nodes at each iteration so A still receives a share.
`,
		vertices: []string{"A", "B", "C"},
		edges: []edge{
			{"A", "B"},
			{"B", "C"},
		},
		expScores: map[string]float64{
			"A": 0.18442,
			"B": 0.34117,
			"C": 0.47441,
		},
	}

	s.assertPageRankScores(c, spec)
}

func (s *CalculatorTestSuite) TestSelfLink(c *gc.C) {
	spec := spec{
		descr: `
 +-+
 | v
 (A) <-> (B)

Self-links count towards the out-degree of A and feed score back into it.
`,
		vertices: []string{"A", "B"},
		edges: []edge{
			{"A", "A"},
			{"A", "B"},
			{"B", "A"},
		},
		expScores: map[string]float64{
			"A": 0.64912,
			"B": 0.35088,
		},
	}

	s.assertPageRankScores(c, spec)
}

func (s *CalculatorTestSuite) TestDuplicateEdges(c *gc.C) {
	spec := spec{
		descr: `
 (B) <-> (A) <-> (C)

The A -> B link is listed twice but must only be counted once.
`,
		vertices: []string{"A", "B", "C"},
		edges: []edge{
			{"A", "B"},
			{"A", "B"},
			{"A", "C"},
			{"B", "A"},
			{"C", "A"},
		},
		expScores: map[string]float64{
			"A": 0.48649,
			"B": 0.25676,
			"C": 0.25676,
		},
	}

	res := s.assertPageRankScores(c, spec)
	c.Assert(res.DuplicateEdges, gc.Equals, 1)
	c.Assert(res.DroppedEdges, gc.Equals, 0)
}

func (s *CalculatorTestSuite) TestNodeWithoutInboundLinks(c *gc.C) {
	spec := spec{
		descr: `
 (A) -> (B) <-> (C)

A has no inbound links so it only receives the teleport share (1-d)/N.
`,
		vertices: []string{"A", "B", "C"},
		edges: []edge{
			{"A", "B"},
			{"B", "C"},
			{"C", "B"},
		},
		expScores: map[string]float64{
			"A": 0.05,
			"B": 0.48649,
			"C": 0.46351,
		},
	}

	s.assertPageRankScores(c, spec)
}

func (s *CalculatorTestSuite) TestDroppedEdges(c *gc.C) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	unknown := uuid.New()

	calc, err := pagerank.NewCalculator(pagerank.Config{})
	c.Assert(err, gc.IsNil)

	res, err := calc.Compute(context.TODO(), ids, []pagerank.Edge{
		{Src: ids[0], Dst: ids[1]},
		{Src: ids[1], Dst: ids[0]},
		{Src: ids[0], Dst: unknown},
		{Src: unknown, Dst: ids[1]},
	})
	c.Assert(err, gc.IsNil)
	c.Assert(res.DroppedEdges, gc.Equals, 2)
	c.Assert(res.Scores, gc.HasLen, 2)
	c.Assert(math.Abs(res.Scores[ids[0]]-0.5) < 1e-6, gc.Equals, true)
	c.Assert(math.Abs(res.Scores[ids[1]]-0.5) < 1e-6, gc.Equals, true)
}

func (s *CalculatorTestSuite) TestEmptyGraph(c *gc.C) {
	calc, err := pagerank.NewCalculator(pagerank.Config{})
	c.Assert(err, gc.IsNil)

	res, err := calc.Compute(context.TODO(), nil, []pagerank.Edge{{Src: uuid.New(), Dst: uuid.New()}})
	c.Assert(err, gc.IsNil)
	c.Assert(res.Scores, gc.HasLen, 0)
	c.Assert(res.Iterations, gc.Equals, 0)
	c.Assert(res.DroppedEdges, gc.Equals, 0)
}

func (s *CalculatorTestSuite) TestSingleVertex(c *gc.C) {
	calc, err := pagerank.NewCalculator(pagerank.Config{})
	c.Assert(err, gc.IsNil)

	id := uuid.New()
	res, err := calc.Compute(context.TODO(), []uuid.UUID{id}, nil)
	c.Assert(err, gc.IsNil)
	c.Assert(res.Iterations, gc.Equals, 1)
	c.Assert(res.Converged, gc.Equals, true)
	c.Assert(math.Abs(res.Scores[id]-1.0) < 1e-12, gc.Equals, true, gc.Commentf("got %f", res.Scores[id]))
}

func (s *CalculatorTestSuite) TestIterationCap(c *gc.C) {
	calc, err := pagerank.NewCalculator(pagerank.Config{MaxIterations: 3})
	c.Assert(err, gc.IsNil)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	res, err := calc.Compute(context.TODO(), ids, []pagerank.Edge{
		{Src: ids[0], Dst: ids[1]},
		{Src: ids[1], Dst: ids[2]},
		{Src: ids[2], Dst: ids[0]},
		{Src: ids[2], Dst: ids[1]},
	})
	c.Assert(err, gc.IsNil)
	c.Assert(res.Iterations, gc.Equals, 3)
	c.Assert(res.Converged, gc.Equals, false)
	assertScoreSum(c, res.Scores)
}

func (s *CalculatorTestSuite) TestContextCancellation(c *gc.C) {
	calc, err := pagerank.NewCalculator(pagerank.Config{})
	c.Assert(err, gc.IsNil)

	ctx, cancelFn := context.WithCancel(context.TODO())
	cancelFn()

	_, err = calc.Compute(ctx, []uuid.UUID{uuid.New()}, nil)
	c.Assert(err, gc.Equals, context.Canceled)
}

func (s *CalculatorTestSuite) TestInvalidConfig(c *gc.C) {
	_, err := pagerank.NewCalculator(pagerank.Config{
		DampingFactor:        1.5,
		ConvergenceThreshold: 2,
		MaxIterations:        -1,
	})
	c.Assert(err, gc.ErrorMatches, "(?s)PageRank calculator config validation failed: .*DampingFactor.*ConvergenceThreshold.*MaxIterations.*")
}

func (s *CalculatorTestSuite) TestConvergenceForLargeGraphs(c *gc.C) {
	s.assertConvergence(c, 20000, 7)
}

func (s *CalculatorTestSuite) assertConvergence(c *gc.C, numLinks, maxOutLinks int) {
	calc, err := pagerank.NewCalculator(pagerank.Config{ComputeWorkers: 8})
	c.Assert(err, gc.IsNil)

	// Make the graph generation deterministic for each test.
	rng := rand.New(rand.NewSource(42))

	ids := make([]uuid.UUID, numLinks)
	for i := 0; i < numLinks; i++ {
		ids[i] = uuid.New()
	}

	var edges []pagerank.Edge
	for i := 0; i < numLinks; i++ {
		outLinks := rng.Intn(maxOutLinks)
		for j := 0; j < outLinks; j++ {
			edges = append(edges, pagerank.Edge{Src: ids[i], Dst: ids[rng.Intn(numLinks)]})
		}
	}

	start := time.Now()
	res, err := calc.Compute(context.TODO(), ids, edges)
	c.Assert(err, gc.IsNil)
	c.Logf("converged %d nodes after %d iterations in %v", numLinks, res.Iterations, time.Since(start).Truncate(time.Millisecond).String())

	c.Assert(res.Scores, gc.HasLen, numLinks)
	assertScoreSum(c, res.Scores)
}

func (s *CalculatorTestSuite) assertPageRankScores(c *gc.C, spec spec) *pagerank.Result {
	c.Log(spec.descr)

	var res *pagerank.Result
	for _, numWorkers := range []int{1, 2} {
		calc, err := pagerank.NewCalculator(pagerank.Config{
			ComputeWorkers: numWorkers,
			DampingFactor:  0.85,
		})
		c.Assert(err, gc.IsNil)

		ids := make(map[string]uuid.UUID, len(spec.vertices))
		vertices := make([]uuid.UUID, len(spec.vertices))
		for i, name := range spec.vertices {
			ids[name] = uuid.New()
			vertices[i] = ids[name]
		}
		edges := make([]pagerank.Edge, len(spec.edges))
		for i, e := range spec.edges {
			edges[i] = pagerank.Edge{Src: ids[e.src], Dst: ids[e.dst]}
		}

		res, err = calc.Compute(context.TODO(), vertices, edges)
		c.Assert(err, gc.IsNil)
		c.Assert(res.Converged, gc.Equals, true)
		c.Logf("converged after %d iterations using %d workers", res.Iterations, numWorkers)

		for name, id := range ids {
			score := res.Scores[id]
			absDelta := math.Abs(score - spec.expScores[name])
			c.Assert(absDelta <= 1e-4, gc.Equals, true, gc.Commentf("expected score for %v to be %f ± 1e-4; got %f (abs. delta %f)", name, spec.expScores[name], score, absDelta))
		}
		assertScoreSum(c, res.Scores)
	}

	return res
}

func assertScoreSum(c *gc.C, scores map[uuid.UUID]float64) {
	var prSum float64
	for _, score := range scores {
		prSum += score
	}
	c.Assert(math.Abs(1.0-prSum) <= 1e-4, gc.Equals, true, gc.Commentf("expected all pagerank scores to add up to 1.0; got %f", prSum))
}
