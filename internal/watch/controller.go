// Package watch re-runs a sync pass whenever a watched document changes.
//
// A Controller consumes change notifications from an EventSource, debounces
// them, and runs passes one at a time on its own goroutine until its
// context is cancelled.
package watch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period between the last change and a pass.
const DefaultDebounce = 100 * time.Millisecond

// ErrSourceClosed is returned by Run when the event source stops delivering
// events before the context is cancelled.
var ErrSourceClosed = errors.New("watch event source closed")

// PassFunc runs one sync pass.
type PassFunc func(ctx context.Context) error

// Options configures a Controller.
type Options struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// AfterFunc defaults to RealAfterFunc.
	AfterFunc AfterFunc
	// OnPassError is called for pass failures after startup, in addition
	// to logging them.
	OnPassError func(error)
	Logger      *zap.Logger
}

// Controller drives sync passes from change notifications.
type Controller struct {
	source      EventSource
	pass        PassFunc
	debouncer   *Debouncer
	fire        chan struct{}
	onPassError func(error)
	logger      *zap.Logger
}

// NewController creates a Controller. Run must be called to start it.
func NewController(source EventSource, pass PassFunc, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	c := &Controller{
		source:      source,
		pass:        pass,
		debouncer:   NewDebouncer(opts.Debounce),
		fire:        make(chan struct{}, 1),
		onPassError: opts.OnPassError,
		logger:      opts.Logger,
	}
	if opts.AfterFunc != nil {
		c.debouncer.SetAfterFunc(opts.AfterFunc)
	}
	c.debouncer.SetCallback(func() {
		select {
		case c.fire <- struct{}{}:
		default:
		}
	})

	return c
}

// Run performs an initial pass and then re-runs the pass after every
// debounced change until ctx is cancelled.
//
// An error from the initial pass is returned and watching never starts.
// Errors from later passes are logged and watching continues. The event
// source is closed before Run returns.
func (c *Controller) Run(ctx context.Context) (err error) {
	defer func() {
		c.debouncer.Stop()
		if cerr := c.source.Close(); cerr != nil {
			c.logger.Warn("failed to close event source", zap.Error(cerr))
			if err == nil {
				err = cerr
			}
		}
	}()

	if err := c.pass(ctx); err != nil {
		return err
	}
	c.logger.Debug("initial pass complete, watching for changes")

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("watch cancelled")
			return nil

		case _, ok := <-c.source.Events():
			if !ok {
				return ErrSourceClosed
			}
			c.logger.Debug("change detected", zap.Duration("debounce", c.debouncer.Duration()))
			c.debouncer.Trigger()

		case werr, ok := <-c.source.Errors():
			if !ok {
				return ErrSourceClosed
			}
			c.logger.Warn("watch error", zap.Error(werr))

		case <-c.fire:
			// A newer change re-armed the window after this one elapsed.
			if c.debouncer.Pending() {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			c.runPass(ctx)
		}
	}
}

func (c *Controller) runPass(ctx context.Context) {
	start := time.Now()
	if err := c.pass(ctx); err != nil {
		c.logger.Warn("sync pass failed", zap.Error(err))
		if c.onPassError != nil {
			c.onPassError(err)
		}
		return
	}
	c.logger.Debug("sync pass complete", zap.Duration("elapsed", time.Since(start)))
}
