package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalContext returns a context that is cancelled on the first
// SIGINT or SIGTERM. A second signal exits the process with code 1.
func SetupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)

	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()

		<-sigCh
		os.Exit(1)
	}()

	return ctx
}
