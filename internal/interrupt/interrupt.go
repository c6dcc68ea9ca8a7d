// Package interrupt provides the SIGINT-blocking helper Flowgraph.Run
// uses to sit idle until an operator asks the process to stop, mirroring
// the signal.Notify/os.Interrupt pattern used throughout the retrieved
// example corpus (e.g. cmd/tfd-sim's termination handling). Signal
// plumbing has no third-party alternative in the corpus, so this piece
// stays on os/signal rather than reaching for a library.
package interrupt

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Wait blocks until SIGINT or SIGTERM arrives, or until ctx is done,
// whichever happens first. It returns the signal that fired, or nil if
// ctx was the reason for returning.
func Wait(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		return sig
	case <-ctx.Done():
		return nil
	}
}
