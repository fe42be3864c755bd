package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"eventflow/pkg/logging"
)

// Run starts every wired runner as a goroutine and blocks until the
// process receives SIGINT or SIGTERM (or ctx is cancelled by the caller),
// then waits for each runner to return before returning itself.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for _, r := range a.runners {
		wg.Add(1)
		go func(r runner) {
			defer wg.Done()
			r.Run(ctx)
		}(r)
	}

	logging.Info(subsys, "running with %d events loaded", a.catalog.Len())
	<-ctx.Done()
	logging.Info(subsys, "shutting down")

	wg.Wait()
	return nil
}
