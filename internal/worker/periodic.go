package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task runs one pass of background work and reports how many items it handled.
type Task func(ctx context.Context) (int, error)

// Periodic runs a Task on a ticker until stopped.
type Periodic struct {
	name     string
	interval time.Duration
	task     Task

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPeriodic(name string, interval time.Duration, task Task) *Periodic {
	return &Periodic{name: name, interval: interval, task: task}
}

func (p *Periodic) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.wg.Add(1)
	go p.loop(ctx)
	slog.Info("background worker started", "worker", p.name, "interval", p.interval.String())
	return nil
}

// Stop cancels the loop and waits for the running pass, bounded by ctx.
func (p *Periodic) Stop(ctx context.Context) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		slog.Info("background worker stopped", "worker", p.name)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Periodic) loop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single pass and logs its outcome.
func (p *Periodic) RunOnce(ctx context.Context) int {
	n, err := p.task(ctx)
	if err != nil && ctx.Err() == nil {
		slog.ErrorContext(ctx, "background worker pass failed", "worker", p.name, "error", err.Error())
	}
	return n
}
