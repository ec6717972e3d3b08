// Package service defines the long-running components of the ranking engine
// and a helper for running them side by side.
package service

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// Service is a component that runs until its context is cancelled.
type Service interface {
	// Name returns the service name.
	Name() string

	// Run executes the service and blocks until the context gets cancelled
	// or an error occurs.
	Run(context.Context) error
}

// Group runs a set of services concurrently.
type Group []Service

// Run starts every service in the group and blocks until ctx is cancelled,
// a service fails or all services have returned. A failing service cancels
// the context passed to the remaining ones. The errors reported by the
// services are combined into a single error.
func (g Group) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	var (
		wg    sync.WaitGroup
		errCh = make(chan error, len(g))
	)
	wg.Add(len(g))
	for _, s := range g {
		go func(s Service) {
			defer wg.Done()
			if err := s.Run(runCtx); err != nil {
				errCh <- xerrors.Errorf("%s: %w", s.Name(), err)
				cancelFn()
			}
		}(s)
	}

	allDoneCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDoneCh)
	}()

	select {
	case <-runCtx.Done():
		<-allDoneCh
	case <-allDoneCh:
	}

	var err error
	close(errCh)
	for srvErr := range errCh {
		err = multierror.Append(err, srvErr)
	}
	return err
}
