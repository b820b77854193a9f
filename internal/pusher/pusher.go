package pusher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/RustMQ/rusted-iron/internal/domain"
	"github.com/RustMQ/rusted-iron/internal/store"
)

// StatusRecorder stores the outcome of one delivery attempt
type StatusRecorder interface {
	Record(ctx context.Context, queue, msgID string, st domain.PushStatus) error
}

// Enqueuer stores a message on a queue
type Enqueuer interface {
	Enqueue(ctx context.Context, queue string, msg domain.Message) (string, error)
}

// Result summarizes the delivery of one message
type Result struct {
	Delivered    bool
	Attempts     int
	DeadLettered bool
}

// Pusher consumes push events from every queue channel and delivers each
// message to its queue's subscribers, one task per message on a bounded pool.
type Pusher struct {
	store    *store.Store
	gateway  Gateway
	recorder StatusRecorder
	enqueuer Enqueuer
	logger   *slog.Logger
	workers  int
	sleep    func(ctx context.Context, d time.Duration) error

	wg sync.WaitGroup
}

// New creates a Pusher. Gateway, recorder and enqueuer options are required.
func New(s *store.Store, opts ...Option) (*Pusher, error) {
	p := &Pusher{
		store:   s,
		logger:  slog.Default().With("component", "pusher"),
		workers: 16,
		sleep:   sleepContext,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if p.gateway == nil {
		return nil, fmt.Errorf("gateway is required (use WithGateway)")
	}
	if p.recorder == nil {
		return nil, fmt.Errorf("recorder is required (use WithRecorder)")
	}
	if p.enqueuer == nil {
		return nil, fmt.Errorf("enqueuer is required (use WithEnqueuer)")
	}
	return p, nil
}

// Run subscribes to every queue channel and dispatches deliveries until ctx
// is done. It waits for in-flight deliveries before returning.
func (p *Pusher) Run(ctx context.Context) error {
	if p.store == nil {
		return errors.New("pusher has no store to subscribe to")
	}

	sub := p.store.PSubscribe(ctx, store.ChannelPattern)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", store.ChannelPattern, err)
	}

	p.logger.Info("Pusher started",
		"pattern", store.ChannelPattern,
		"workers", p.workers,
	)

	slots := make(chan struct{}, p.workers)
	ch := sub.Channel()

	defer func() {
		p.wg.Wait()
		p.logger.Info("Pusher stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}

			var ev domain.PushEvent
			if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
				p.logger.Error("Failed to unmarshal push event",
					"channel", m.Channel,
					"error", err,
				)
				continue
			}

			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				return nil
			}

			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				defer func() { <-slots }()
				p.Deliver(ctx, ev)
			}()
		}
	}
}

// Deliver runs the delivery rounds of one message.
//
// Each round posts to the subscribers in order. A unicast queue stops at the
// first subscriber that answers 2xx. A multicast queue posts to every
// subscriber and the outcome of the round is the outcome of the last one.
// Rounds repeat after retries_delay until one is delivered. When the last
// round fails the original body is enqueued on the error queue, if any.
func (p *Pusher) Deliver(ctx context.Context, ev domain.PushEvent) Result {
	info, msg := ev.QueueInfo, ev.Msg
	log := p.logger.With("queue", info.Name, "message_id", msg.ID)

	if info.Push == nil || len(info.Push.Subscribers) == 0 {
		log.Warn("Push event without subscribers")
		return Result{}
	}

	retries := info.Push.Retries
	if retries <= 0 {
		retries = domain.DefaultPushRetries
	}
	delay := time.Duration(info.Push.RetriesDelay) * time.Second

	var res Result
	for attempt := 1; attempt <= retries; attempt++ {
		if ctx.Err() != nil {
			return res
		}
		res.Attempts = attempt

		delivered := false
		for _, sub := range info.Push.Subscribers {
			code, err := p.gateway.Post(ctx, sub, msg.Body)
			if err != nil {
				log.Warn("Webhook delivery failed",
					"subscriber", sub.Name,
					"attempt", attempt,
					"error", err,
				)
			}

			st := domain.PushStatus{
				SubscriberName:   sub.Name,
				RetriesRemaining: retries - attempt,
				Tries:            attempt,
				StatusCode:       code,
				URL:              sub.URL,
				Msg:              msg.Body,
			}
			if err := p.recorder.Record(ctx, info.Name, msg.ID, st); err != nil {
				log.Error("Failed to record push status",
					"subscriber", sub.Name,
					"error", err,
				)
			}

			if err == nil && st.Succeeded() {
				delivered = true
				if info.Type == domain.QueueTypeUnicast {
					break
				}
			} else {
				delivered = false
			}
		}

		if delivered {
			res.Delivered = true
			log.Debug("Message delivered", "attempt", attempt)
			return res
		}

		if attempt == retries {
			res.DeadLettered = p.deadLetter(ctx, info, msg, log)
			return res
		}

		if err := p.sleep(ctx, delay); err != nil {
			return res
		}
	}
	return res
}

func (p *Pusher) deadLetter(ctx context.Context, info domain.QueueInfo, msg domain.Message, log *slog.Logger) bool {
	if info.Push.ErrorQueue == "" {
		log.Warn("Delivery exhausted, no error queue configured", "retries", info.Push.Retries)
		return false
	}

	id, err := p.enqueuer.Enqueue(ctx, info.Push.ErrorQueue, domain.Message{
		Body:        msg.Body,
		SourceMsgID: msg.SourceMsgID,
	})
	if err != nil {
		log.Error("Failed to dead-letter message",
			"error_queue", info.Push.ErrorQueue,
			"error", err,
		)
		return false
	}

	log.Info("Message dead-lettered",
		"error_queue", info.Push.ErrorQueue,
		"dead_letter_id", id,
	)
	return true
}

// Wait blocks until every dispatched delivery has finished
func (p *Pusher) Wait() {
	p.wg.Wait()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
