package pusher

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Option configures a Pusher.
//
//	p, err := pusher.New(st,
//	    pusher.WithGateway(gw),
//	    pusher.WithRecorder(tracker),
//	    pusher.WithEnqueuer(engine),
//	    pusher.WithWorkers(32),
//	)
type Option func(*Pusher) error

// WithGateway sets the webhook transport. Required.
func WithGateway(gateway Gateway) Option {
	return func(p *Pusher) error {
		if gateway == nil {
			return fmt.Errorf("gateway cannot be nil")
		}
		p.gateway = gateway
		return nil
	}
}

// WithRecorder sets where per-subscriber outcomes are written. Required.
func WithRecorder(recorder StatusRecorder) Option {
	return func(p *Pusher) error {
		if recorder == nil {
			return fmt.Errorf("recorder cannot be nil")
		}
		p.recorder = recorder
		return nil
	}
}

// WithEnqueuer sets the enqueue path used for dead-lettering. Required.
func WithEnqueuer(enqueuer Enqueuer) Option {
	return func(p *Pusher) error {
		if enqueuer == nil {
			return fmt.Errorf("enqueuer cannot be nil")
		}
		p.enqueuer = enqueuer
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pusher) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		p.logger = logger.With("component", "pusher")
		return nil
	}
}

// WithWorkers bounds the number of messages delivered concurrently
func WithWorkers(n int) Option {
	return func(p *Pusher) error {
		if n <= 0 {
			return fmt.Errorf("workers must be > 0, got %d", n)
		}
		p.workers = n
		return nil
	}
}

// WithSleeper replaces the wait between delivery rounds
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Pusher) error {
		if sleep == nil {
			return fmt.Errorf("sleeper cannot be nil")
		}
		p.sleep = sleep
		return nil
	}
}
