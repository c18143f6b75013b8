//go:build !integration

package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"registration-service/internal/infra/worker"

	"github.com/rs/zerolog"
)

func TestPool(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("runs submitted tasks", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p := worker.NewPool(2, &logger)
		p.Start(ctx)
		defer p.Stop()

		var mu sync.Mutex
		ran := 0
		done := make(chan struct{})
		for i := 0; i < 5; i++ {
			err := p.Submit(func(ctx context.Context) error {
				mu.Lock()
				ran++
				if ran == 5 {
					close(done)
				}
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
		}

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("tasks did not run in time")
		}
	})

	t.Run("rejects nil tasks", func(t *testing.T) {
		p := worker.NewPool(1, &logger)
		if err := p.Submit(nil); err == nil {
			t.Error("expected an error for a nil task")
		}
	})

	t.Run("task errors do not stop the pool", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p := worker.NewPool(1, &logger)
		p.Start(ctx)
		defer p.Stop()

		if err := p.Submit(func(ctx context.Context) error { return errors.New("boom") }); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		done := make(chan struct{})
		if err := p.Submit(func(ctx context.Context) error { close(done); return nil }); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("pool stopped processing after a task error")
		}
	})
}
