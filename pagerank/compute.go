package pagerank

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/linksrus/rankengine/pagerank/aggregator"
)

// iterationState holds the score arrays shared by the workers. During an
// iteration workers only read prev and only write their own slots in next.
type iterationState struct {
	damping float64
	n       float64
	base    float64

	inLinks   [][]int
	outDegree []int

	prev []float64
	next []float64

	// dangling is the total score held by vertices without outgoing links
	// in prev.
	dangling float64

	maxDelta     aggregator.Float64MaxAccumulator
	nextDangling aggregator.Float64Accumulator
}

// vertexRange is a contiguous block [from, to) of vertex indices.
type vertexRange struct {
	from, to int
}

// splitVertexRanges partitions numVertices into numParts contiguous ranges
// of roughly equal size.
func splitVertexRanges(numVertices, numParts int) []vertexRange {
	size := (numVertices + numParts - 1) / numParts
	ranges := make([]vertexRange, 0, numParts)
	for from := 0; from < numVertices; from += size {
		to := from + size
		if to > numVertices {
			to = numVertices
		}
		ranges = append(ranges, vertexRange{from: from, to: to})
	}
	return ranges
}

type workerPool struct {
	state *iterationState

	wg              sync.WaitGroup
	rangeCh         chan vertexRange
	stepCompletedCh chan struct{}
	pendingInStep   int64
}

// startWorkers allocates the required channels and spins up numWorkers to
// execute each iteration.
func startWorkers(state *iterationState, numWorkers int) *workerPool {
	p := &workerPool{
		state:           state,
		rangeCh:         make(chan vertexRange),
		stepCompletedCh: make(chan struct{}),
	}

	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.stepWorker()
	}
	return p
}

// step runs a single iteration over the provided ranges and blocks until
// all of them have been processed.
func (p *workerPool) step(ranges []vertexRange) {
	p.state.maxDelta.Set(0)
	p.state.nextDangling.Set(0)
	atomic.StoreInt64(&p.pendingInStep, int64(len(ranges)))

	for _, r := range ranges {
		p.rangeCh <- r
	}

	// Block until worker pool has finished processing all ranges.
	<-p.stepCompletedCh
}

// close shuts down the workers and waits for them to exit.
func (p *workerPool) close() {
	close(p.rangeCh)
	p.wg.Wait()
}

// stepWorker polls rangeCh for incoming vertex ranges and computes the next
// score for each vertex in them. The worker automatically exits when rangeCh
// gets closed.
func (p *workerPool) stepWorker() {
	s := p.state
	for r := range p.rangeCh {
		var localMaxDelta, localDangling float64
		for v := r.from; v < r.to; v++ {
			var inbound float64
			for _, src := range s.inLinks[v] {
				inbound += s.prev[src] / float64(s.outDegree[src])
			}

			score := s.base + s.damping*(inbound+s.dangling/s.n)
			s.next[v] = score

			if delta := math.Abs(score - s.prev[v]); delta > localMaxDelta {
				localMaxDelta = delta
			}
			if s.outDegree[v] == 0 {
				localDangling += score
			}
		}

		s.maxDelta.Aggregate(localMaxDelta)
		s.nextDangling.Aggregate(localDangling)

		if atomic.AddInt64(&p.pendingInStep, -1) == 0 {
			p.stepCompletedCh <- struct{}{}
		}
	}
	p.wg.Done()
}
