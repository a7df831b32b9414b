package poolcache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle position of a Cache.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// flightKey is the single singleflight key; a Cache only ever builds one pool.
const flightKey = "pool"

// errNilPool guards against an Establisher returning (nil, nil).
var errNilPool = errors.New("establisher returned no pool")

// Cache holds the lazily established pool shared by all callers.
//
// Thread-Safety: Safe for concurrent use. The check-resolve-establish-store
// sequence runs at most once at a time; callers that arrive while it is in
// flight wait for its result.
type Cache struct {
	establisher Establisher
	logger      Logger
	metrics     Metrics
	onClose     []func()

	mu       sync.Mutex
	state    State
	pool     Pool
	lastErr  error
	attempts int

	flight singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for initialization events.
func WithLogger(logger Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink for initialization attempts.
func WithMetrics(metrics Metrics) Option {
	return func(c *Cache) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// WithCloseHook registers fn to run on every Close, after the pool is released.
func WithCloseHook(fn func()) Option {
	return func(c *Cache) {
		if fn != nil {
			c.onClose = append(c.onClose, fn)
		}
	}
}

// New creates an empty Cache backed by the given establisher.
// Panics if establisher is nil.
func New(establisher Establisher, opts ...Option) *Cache {
	if establisher == nil {
		panic("establisher cannot be nil")
	}
	c := &Cache{
		establisher: establisher,
		logger:      nopLogger{},
		metrics:     NopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrEstablish returns the cached pool, establishing it first if needed.
//
// When the cache is Ready the pool is returned without any further work.
// Otherwise the caller joins the in-flight initialization, or starts one. The
// initialization is detached from the caller's cancellation so that one
// caller giving up does not fail the others; a caller whose ctx ends stops
// waiting and gets ctx.Err().
//
// A failed initialization is not cached: the next call re-runs the whole
// pipeline from the top.
func (c *Cache) GetOrEstablish(ctx context.Context, selector Selector) (Pool, error) {
	if pool, ok := c.Get(); ok {
		return pool, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(flightKey, func() (interface{}, error) {
		return c.establish(detached, selector)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Pool), nil
	}
}

func (c *Cache) establish(ctx context.Context, selector Selector) (Pool, error) {
	c.mu.Lock()
	if c.state == StateReady {
		pool := c.pool
		c.mu.Unlock()
		return pool, nil
	}
	c.state = StateInitializing
	c.attempts++
	attempt := c.attempts
	c.mu.Unlock()

	attemptID := uuid.NewString()
	c.logger.Verbose("Pool initialization #%d started (id=%s)", attempt, attemptID)

	start := time.Now()
	pool, err := c.establisher.Establish(ctx, selector)
	if err == nil && pool == nil {
		err = NewError(KindPoolConnectFailed, "cache", errNilPool)
	}
	elapsed := time.Since(start)
	c.metrics.RecordEstablish(ctx, elapsed, err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateFailed
		c.lastErr = err
		c.logger.Error("Pool initialization #%d failed after %v (id=%s, kind=%s): %v",
			attempt, elapsed.Round(time.Millisecond), attemptID, KindOf(err), err)
		return nil, err
	}

	c.state = StateReady
	c.pool = pool
	c.lastErr = nil
	c.logger.Verbose("Pool initialization #%d ready after %v (id=%s, driver=%s)",
		attempt, elapsed.Round(time.Millisecond), attemptID, pool.Driver())
	return pool, nil
}

// Get returns the cached pool without establishing one.
func (c *Cache) Get() (Pool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return nil, false
	}
	return c.pool, true
}

// State returns the current lifecycle state.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error of the most recent failed initialization, or
// nil once a pool is Ready.
func (c *Cache) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Attempts returns how many initializations have been started.
func (c *Cache) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Close releases the cached pool, if any, and returns the cache to
// Uninitialized, then runs the close hooks.
//
// Close does not wait for an in-flight initialization. An attempt still
// running when Close returns stores its pool afterwards and leaves the cache
// Ready; hosts shutting down should stop calling GetOrEstablish first.
func (c *Cache) Close() {
	c.mu.Lock()
	pool := c.pool
	c.pool = nil
	c.state = StateUninitialized
	c.lastErr = nil
	c.mu.Unlock()

	if pool != nil {
		pool.Close()
	}
	for _, fn := range c.onClose {
		fn()
	}
}
