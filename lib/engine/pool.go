package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Pool hands out JavaScript engines. At most max engines exist at once;
// idle ones are reused and engines that reached maxUsages are discarded on
// return. It can safely be used by multiple goroutines.
type Pool struct {
	factory        func() (*runtime, error)
	maxUsages      int
	acquireTimeout time.Duration
	metrics        *metrics
	logger         *slog.Logger

	// slots holds one token per engine that is borrowed or being built.
	slots chan struct{}
	idle  chan *runtime

	mu     sync.Mutex
	closed bool
}

type poolConfig struct {
	start          int
	max            int
	maxUsages      int
	acquireTimeout time.Duration
}

func newPool(factory func() (*runtime, error), cfg poolConfig, m *metrics, logger *slog.Logger) (*Pool, error) {
	p := &Pool{
		factory:        factory,
		maxUsages:      cfg.maxUsages,
		acquireTimeout: cfg.acquireTimeout,
		metrics:        m,
		logger:         logger,
		slots:          make(chan struct{}, cfg.max),
		idle:           make(chan *runtime, cfg.max),
	}
	for i := 0; i < cfg.start; i++ {
		rt, err := p.create()
		if err != nil {
			return nil, err
		}
		p.idle <- rt
	}
	return p, nil
}

func (p *Pool) create() (*runtime, error) {
	rt, err := p.factory()
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	p.metrics.engineCreated()
	p.logger.Debug("created javascript engine")
	return rt, nil
}

// Get borrows an engine, waiting for one to be returned when max engines
// are in use. The wait ends with ErrPoolExhausted when ctx ends or the
// acquire timeout passes.
func (p *Pool) Get(ctx context.Context) (*runtime, error) {
	start := time.Now()
	defer func() {
		p.metrics.observeAcquire(time.Since(start))
	}()

	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrPoolExhausted, context.Cause(ctx))
	}

	if p.isClosed() {
		<-p.slots
		return nil, ErrPoolClosed
	}

	var rt *runtime
	select {
	case rt = <-p.idle:
	default:
		var err error
		rt, err = p.create()
		if err != nil {
			<-p.slots
			return nil, err
		}
	}
	p.metrics.engineBorrowed()
	return rt, nil
}

// Put returns an engine borrowed with Get. Engines interrupted while
// running a script are discarded.
func (p *Pool) Put(rt *runtime) {
	defer func() {
		<-p.slots
	}()
	p.metrics.engineReturned()

	rt.uses++
	rt.console.drain()
	if p.isClosed() {
		return
	}
	if rt.broken {
		p.logger.Warn("discarding interrupted javascript engine", "uses", rt.uses)
		return
	}
	if p.maxUsages > 0 && rt.uses >= p.maxUsages {
		p.logger.Debug("recycling javascript engine", "uses", rt.uses)
		return
	}
	select {
	case p.idle <- rt:
	default:
	}
}

// Close discards idle engines. Engines still borrowed are discarded when
// they are returned, and Get fails with ErrPoolClosed.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	for {
		select {
		case <-p.idle:
		default:
			return
		}
	}
}

// Idle returns the number of engines waiting to be borrowed.
func (p *Pool) Idle() int {
	return len(p.idle)
}

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
