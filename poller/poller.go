package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

type Phase string

const (
	Polling Phase = "polling"
	Stopped Phase = "stopped"
)

type Reason string

const (
	ReasonNone     Reason = ""
	ReasonEnded    Reason = "ended"
	ReasonDone     Reason = "done"
	ReasonFailed   Reason = "failed"
	ReasonCanceled Reason = "canceled"
)

// ErrStopped is returned by Run on a poller that already stopped or is
// already running.
var ErrStopped = errors.New("poller is not startable")

// FetchFunc issues one request for the resource.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// ApplyFunc stores a fetched value and returns the reason to stop, or
// ReasonNone to keep polling.
type ApplyFunc[T any] func(v T) Reason

// Poller repeatedly fetches one resource until a stop rule fires.
type Poller[T any] struct {
	name    string
	fetch   FetchFunc[T]
	apply   ApplyFunc[T]
	cfg     settings
	started atomic.Bool
	fetches atomic.Uint64

	mu     sync.Mutex
	phase  Phase
	reason Reason
	err    error
	done   chan struct{}
}

// New returns a Poller in the Polling phase. Nothing is fetched before Run.
func New[T any](name string, fetch FetchFunc[T], apply ApplyFunc[T], opts ...Option) *Poller[T] {
	cfg := settings{logger: slog.Default()}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return &Poller[T]{
		name:  name,
		fetch: fetch,
		apply: apply,
		cfg:   cfg,
		phase: Polling,
		done:  make(chan struct{}),
	}
}

func (p *Poller[T]) Name() string {
	return p.name
}

// Run polls until a stop rule fires, a fetch fails or ctx is canceled.
// It returns nil when the server ended the stream and the cause otherwise.
func (p *Poller[T]) Run(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", p.name, ErrStopped)
	}
	for {
		if p.cfg.limiter != nil {
			if err := p.cfg.limiter.Wait(ctx); err != nil {
				return p.fail(ctx, err)
			}
		}
		v, err := p.fetchOnce(ctx)
		if err != nil {
			return p.fail(ctx, err)
		}
		if reason := p.apply(v); reason != ReasonNone {
			p.stop(reason, nil)
			p.cfg.logger.Debug("stream stopped", "stream", p.name, "reason", string(reason), "fetches", p.fetches.Load())
			return nil
		}
	}
}

// Stop moves a poller that never ran to Stopped. A running poller stops
// through its context.
func (p *Poller[T]) Stop() {
	if p.started.CompareAndSwap(false, true) {
		p.stop(ReasonCanceled, context.Canceled)
	}
}

// Status returns the phase, the stop reason and the error that stopped the
// poller, if any.
func (p *Poller[T]) Status() (Phase, Reason, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase, p.reason, p.err
}

// Fetches returns the number of fetches issued so far, retries included.
func (p *Poller[T]) Fetches() uint64 {
	return p.fetches.Load()
}

// Done is closed when the poller stops.
func (p *Poller[T]) Done() <-chan struct{} {
	return p.done
}

func (p *Poller[T]) fetchOnce(ctx context.Context) (T, error) {
	op := func() (T, error) {
		p.fetches.Add(1)
		v, err := p.fetch(ctx)
		if err != nil && ctx.Err() != nil {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	if p.cfg.retries == 0 {
		return op()
	}
	b := p.cfg.backOff
	if b == nil {
		b = backoff.NewExponentialBackOff()
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.cfg.retries+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			p.cfg.logger.Warn("fetch failed, retrying", "stream", p.name, "error", err, "next", next)
		}),
	)
}

func (p *Poller[T]) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		p.stop(ReasonCanceled, ctx.Err())
		return ctx.Err()
	}
	err = fmt.Errorf("%s: %w", p.name, err)
	p.stop(ReasonFailed, err)
	p.cfg.logger.Error("stream stopped after a failed fetch", "stream", p.name, "error", err)
	return err
}

func (p *Poller[T]) stop(reason Reason, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase == Stopped {
		return
	}
	p.phase = Stopped
	p.reason = reason
	p.err = err
	close(p.done)
}

type settings struct {
	limiter *rate.Limiter
	retries uint
	backOff backoff.BackOff
	logger  *slog.Logger
}

// Option configures a Poller.
type Option func(settings) settings

// WithRate paces fetches to at most perSecond requests per second.
// Zero or less leaves fetches unpaced.
func WithRate(perSecond float64) Option {
	return func(s settings) settings {
		if perSecond <= 0 {
			s.limiter = nil
			return s
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		return s
	}
}

// WithRetry retries a failed fetch up to retries times. A nil b uses an
// exponential backoff.
func WithRetry(retries uint, b backoff.BackOff) Option {
	return func(s settings) settings {
		s.retries = retries
		s.backOff = b
		return s
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s settings) settings {
		s.logger = logger
		return s
	}
}
