package client

import (
	"context"
	"sync"
	"time"

	"github.com/hazirlageldim/pickup-app/utils"
)

// Poller runs fetch once at Start and then on every tick, all from a single
// goroutine, so two fetches are never in flight at once. Refresh schedules
// an extra fetch without waiting for the next tick. Stop blocks until the
// in-flight fetch (if any) has returned, after which no result can land.
type Poller struct {
	interval time.Duration
	fetch    func(ctx context.Context) error

	// OnError is called for fetch failures; polling continues. Defaults to
	// the error log.
	OnError func(err error)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	kick    chan struct{}
	started bool
}

func NewPoller(interval time.Duration, fetch func(ctx context.Context) error) *Poller {
	return &Poller{
		interval: interval,
		fetch:    fetch,
		kick:     make(chan struct{}, 1),
	}
}

func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go p.loop(ctx, p.done)
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	p.run(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.run(ctx)
		case <-p.kick:
			p.run(ctx)
		}
	}
}

func (p *Poller) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.fetch(ctx); err != nil && ctx.Err() == nil {
		if p.OnError != nil {
			p.OnError(err)
			return
		}
		utils.Errorf("poller: fetch: %v", err)
	}
}

// Refresh asks the loop for an immediate fetch; a no-op when one is already
// queued or the poller is stopped.
func (p *Poller) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Stop cancels the loop and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.started = false
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	<-done
}
