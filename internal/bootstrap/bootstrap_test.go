package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *App {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestApp_Run(t *testing.T) {
	t.Run("run returns nil", func(t *testing.T) {
		app := newTestApp()
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("run error wins over hook error", func(t *testing.T) {
		app := newTestApp()
		app.AddShutdownHook("store", func(ctx context.Context) error {
			return errors.New("close failed")
		})
		want := errors.New("run failed")
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
	})

	t.Run("hook error is returned after a successful run", func(t *testing.T) {
		app := newTestApp()
		app.AddShutdownHook("database", func(ctx context.Context) error {
			return errors.New("close failed")
		})
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.EqualError(t, err, "database > close failed")
	})

	t.Run("hooks run in LIFO order after run returns", func(t *testing.T) {
		app := newTestApp()
		var mu sync.Mutex
		var order []string
		for _, name := range []string{"first", "second", "third"} {
			name := name
			app.AddShutdownHook(name, func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			})
		}

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "second", "first"}, order)
	})

	t.Run("hooks run on context cancel", func(t *testing.T) {
		app := newTestApp()
		hookCalled := false

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			app.AddShutdownHook("registered in run", func(ctx context.Context) error {
				hookCalled = true
				return nil
			})
			cancel()
			<-ctx.Done()
			return nil
		})
		require.NoError(t, err)
		assert.True(t, hookCalled)
	})

	t.Run("hooks wait for run to return after cancel", func(t *testing.T) {
		app := newTestApp()
		var mu sync.Mutex
		var events []string
		record := func(event string) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
		}
		app.AddShutdownHook("database", func(ctx context.Context) error {
			record("database closed")
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		want := errors.New("save interrupted")
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			time.Sleep(20 * time.Millisecond)
			record("last save")
			return want
		})
		assert.ErrorIs(t, err, want)
		assert.Equal(t, []string{"last save", "database closed"}, events)
	})
}

func TestApp_Shutdown_RunsOnce(t *testing.T) {
	app := newTestApp()
	calls := 0
	app.AddShutdownHook("counter", func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, app.Shutdown(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}
