// Package bootstrap provides application lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
)

type closer struct {
	name string
	fn   func(ctx context.Context) error
}

// App runs a command and releases the resources it opened, such as the
// database connection behind the blob store, in reverse order of acquisition.
type App struct {
	logger *slog.Logger

	mu      sync.Mutex
	closers []closer
}

// New creates a new App.
func New(logger *slog.Logger) *App {
	return &App{logger: logger}
}

// AddShutdownHook registers fn to run when the App finishes.
// Hooks run in reverse order (LIFO). Thread-safe.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Run executes run with a context that is cancelled on OS interrupt.
// On interrupt run must return promptly: shutdown hooks only start after it
// has returned, so it never sees a released resource.
// The error of run takes precedence over hook errors.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.InfoContext(ctx, "interrupted, shutting down")
		runErr = <-errCh
	case runErr = <-errCh:
	}

	shutdownErr := a.Shutdown(context.WithoutCancel(ctx))
	if runErr != nil {
		return runErr
	}
	return shutdownErr
}

// Shutdown runs the registered hooks once. Later calls are no-ops.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		if err := c.fn(ctx); err != nil {
			a.logger.ErrorContext(ctx, "failed to shut down", slog.String("name", c.name), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s > %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}
