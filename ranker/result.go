package ranker

import "github.com/linksrus/rankengine/linkgraph/graph"

// Stage describes how far a query progressed through the ranking pipeline.
type Stage int

// The stages of the ranking pipeline.
const (
	StageIdle Stage = iota
	StageTokensReady
	StageCandidatesFiltered
	StageScored
	StageRanked
	StageDone
)

var stageNames = [...]string{
	"idle",
	"tokens_ready",
	"candidates_filtered",
	"scored",
	"ranked",
	"done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// ScoredResult is a document matching a query together with its scores.
type ScoredResult struct {
	Document            *graph.Document
	RelevanceRaw        float64
	RelevanceNormalized float64
	CombinedScore       float64
}

// Result is the outcome of a ranked query.
type Result struct {
	// Query is the trimmed query text.
	Query string

	// Results are ordered by descending combined score.
	Results []ScoredResult

	// CorrectedQuery is set to the corrected query terms if any of them
	// was replaced by a vocabulary entry.
	CorrectedQuery string

	// Stage is the last pipeline stage that the query reached.
	Stage Stage
}

// NoQuery returns true if the query was empty.
func (r *Result) NoQuery() bool { return r.Stage == StageIdle }

// NoResults returns true if the query was processed but did not match any
// document.
func (r *Result) NoResults() bool { return r.Stage != StageIdle && len(r.Results) == 0 }
