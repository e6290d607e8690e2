// Package fetch drives the loading, success and error lifecycle of the
// catalog requests feeding a view.
//
// A Controller is owned by exactly one view. Every Trigger starts a new
// generation; only the latest generation may publish its result, so a slow
// response to an old trigger can never overwrite a newer one. After Close no
// result is published at all. In-flight requests are not aborted; their
// results are simply discarded.
package fetch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a Controller.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of a Controller. Data is only meaningful when Status is
// StatusSuccess; Message is only set when Status is StatusError.
type State[T any] struct {
	Data    T
	Status  Status
	Message string
}

// Func performs the underlying request(s) for one trigger.
type Func[T any] func(ctx context.Context) (T, error)

// Controller runs Funcs and tracks the state of the latest one.
type Controller[T any] struct {
	name     string
	message  string
	logger   *slog.Logger
	onChange func(State[T])

	mu      sync.Mutex
	state   State[T]
	version uint64 // bumped on every state change
	gen     uint64
	closed  bool
	wg      sync.WaitGroup

	notifyMu sync.Mutex
	notified uint64
}

// Option configures a Controller.
type Option[T any] func(*Controller[T])

// WithLogger overrides the default logger.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *Controller[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// OnChange registers a callback invoked after every published transition.
// It runs on the goroutine that caused the transition.
func OnChange[T any](fn func(State[T])) Option[T] {
	return func(c *Controller[T]) {
		c.onChange = fn
	}
}

// New creates an idle Controller. errorMessage is the user-facing text stored
// on failure; the underlying cause is only logged.
func New[T any](name, errorMessage string, opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		name:    name,
		message: errorMessage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("controller", name)
	return c
}

// Trigger moves to loading and runs fn in the background. It returns the
// generation number of this trigger.
func (c *Controller[T]) Trigger(ctx context.Context, fn Func[T]) uint64 {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	c.gen++
	gen := c.gen
	version := c.setLocked(State[T]{Status: StatusLoading})
	c.wg.Add(1)
	c.mu.Unlock()

	c.notify(version, State[T]{Status: StatusLoading})

	requestID := uuid.NewString()
	c.logger.Debug("fetch triggered", "generation", gen, "request_id", requestID)

	go func() {
		defer c.wg.Done()
		data, err := fn(ctx)
		c.complete(gen, requestID, data, err)
	}()
	return gen
}

// Reset returns the controller to idle and invalidates any in-flight trigger.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++
	version := c.setLocked(State[T]{Status: StatusIdle})
	c.mu.Unlock()

	c.notify(version, State[T]{Status: StatusIdle})
}

// State returns the current snapshot.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until every triggered Func has returned.
func (c *Controller[T]) Wait() {
	c.wg.Wait()
}

// Close unmounts the controller. Results arriving afterwards are dropped.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Controller[T]) complete(gen uint64, requestID string, data T, err error) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		closed := c.closed
		c.mu.Unlock()
		c.logger.Debug("discarding stale result",
			"generation", gen,
			"request_id", requestID,
			"closed", closed,
		)
		return
	}

	next := State[T]{Status: StatusSuccess, Data: data}
	if err != nil {
		next = State[T]{Status: StatusError, Message: c.message}
	}
	version := c.setLocked(next)
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("fetch failed", "generation", gen, "request_id", requestID, "error", err)
	} else {
		c.logger.Debug("fetch succeeded", "generation", gen, "request_id", requestID)
	}
	c.notify(version, next)
}

// setLocked stores next and returns its version. Caller holds c.mu.
func (c *Controller[T]) setLocked(next State[T]) uint64 {
	c.state = next
	c.version++
	return c.version
}

// notify delivers transitions in order, dropping any that were overtaken
// before the callback got to run.
func (c *Controller[T]) notify(version uint64, state State[T]) {
	if c.onChange == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if version <= c.notified {
		return
	}
	c.notified = version
	c.onChange(state)
}
