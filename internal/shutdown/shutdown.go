package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context that is cancelled on SIGINT or SIGTERM.
func New() (context.Context, func()) {
	return InterruptContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func InterruptContext(ctx context.Context, signals ...os.Signal) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
		cancel()
	}()

	return ctx, cancel
}
