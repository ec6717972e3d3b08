package pagerank

import (
	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// Config encapsulates the required parameters for creating a new PageRank
// calculator instance.
type Config struct {
	// DampingFactor is the probability that a random surfer will click on
	// one of the outgoing links on the page they are currently visiting
	// instead of visiting (teleporting to) a random page in the graph.
	//
	// If not specified, a default value of 0.85 will be used instead.
	DampingFactor float64

	// The algorithm keeps iterating until the largest absolute change of
	// any vertex score between two consecutive iterations drops below
	// ConvergenceThreshold.
	//
	// If not specified, a default value of 1e-6 will be used instead.
	ConvergenceThreshold float64

	// MaxIterations caps the number of iterations executed when the scores
	// fail to converge. If not specified, a default value of 100 will be
	// used instead.
	MaxIterations int

	// The number of workers to spin up for computing PageRank scores. If
	// not specified, a default value of 1 will be used instead.
	ComputeWorkers int
}

// validate checks whether the PageRank calculator configuration is valid and
// sets the default values where required.
func (c *Config) validate() error {
	var err error
	if c.DampingFactor < 0 || c.DampingFactor > 1.0 {
		err = multierror.Append(err, xerrors.New("DampingFactor must be in the range (0, 1]"))
	} else if c.DampingFactor == 0 {
		c.DampingFactor = 0.85
	}

	if c.ConvergenceThreshold < 0 || c.ConvergenceThreshold >= 1.0 {
		err = multierror.Append(err, xerrors.New("ConvergenceThreshold must be in the range (0, 1)"))
	} else if c.ConvergenceThreshold == 0 {
		c.ConvergenceThreshold = 1e-6
	}

	if c.MaxIterations < 0 {
		err = multierror.Append(err, xerrors.New("MaxIterations must be a positive integer"))
	} else if c.MaxIterations == 0 {
		c.MaxIterations = 100
	}

	if c.ComputeWorkers <= 0 {
		c.ComputeWorkers = 1
	}

	return err
}
