// Package ingest drains the transaction notification queue and mirrors
// each decoded notification into the ledger. The consumer is a background
// subsystem: it absorbs every failure and keeps running until cancelled.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fintrackapp/fintrack/internal/domain"
)

// Queue is one established subscription to the broker. Fetch is
// non-blocking fetch-one; the message is acknowledged the instant it is
// fetched, so a decode or persistence failure downstream loses it.
type Queue interface {
	Fetch(ctx context.Context) (body []byte, ok bool, err error)
	Close() error
}

// Broker hands out connected queues. The consumer owns the returned Queue
// exclusively and closes it on any error or on shutdown.
type Broker interface {
	Connect(ctx context.Context) (Queue, error)
}

type ledgerStore interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
}

type state int

const (
	stateDisconnected state = iota
	stateConnected
)

type Consumer struct {
	broker  Broker
	ledger  ledgerStore
	decoder *Decoder
	logger  *slog.Logger

	reconnectWait time.Duration
	pollInterval  time.Duration
	idleInterval  time.Duration
}

func NewConsumer(
	broker Broker,
	ledger ledgerStore,
	logger *slog.Logger,
	reconnectWait, pollInterval, idleInterval time.Duration,
) *Consumer {
	return &Consumer{
		broker:        broker,
		ledger:        ledger,
		decoder:       NewDecoder(),
		logger:        logger,
		reconnectWait: reconnectWait,
		pollInterval:  pollInterval,
		idleInterval:  idleInterval,
	}
}

// Run drains the queue until ctx is cancelled. It never returns an error
// and never panics out: connectivity failures trigger reconnection with a
// fixed backoff, decode and persistence failures are logged and the
// affected message is dropped.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("ingestion consumer started",
		"reconnect_wait", c.reconnectWait,
		"poll_interval", c.pollInterval,
		"idle_interval", c.idleInterval,
	)

	st := stateDisconnected
	var queue Queue

	for {
		select {
		case <-ctx.Done():
			if queue != nil {
				_ = queue.Close()
			}
			c.logger.Info("ingestion consumer stopped")
			return
		default:
		}

		switch st {
		case stateDisconnected:
			q, err := c.connect(ctx)
			if err != nil {
				// connect only fails on cancellation; the loop exit
				// above handles it next iteration.
				continue
			}
			queue = q
			st = stateConnected
			c.logger.Info("broker connected")

		case stateConnected:
			wait, healthy := c.pollOnce(ctx, queue)
			if !healthy {
				_ = queue.Close()
				queue = nil
				st = stateDisconnected
				continue
			}
			if !sleepCtx(ctx, wait) {
				continue
			}
		}
	}
}

// connect retries the broker dial with a fixed interval, forever. It
// returns an error only when ctx is cancelled.
func (c *Consumer) connect(ctx context.Context) (Queue, error) {
	var queue Queue
	op := func() error {
		q, err := c.broker.Connect(ctx)
		if err != nil {
			c.logger.Error("broker connection failed, retrying",
				"error", err,
				"retry_in", c.reconnectWait,
			)
			return err
		}
		queue = q
		return nil
	}

	bo := backoff.WithContext(backoff.NewConstantBackOff(c.reconnectWait), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}
	return queue, nil
}

// pollOnce fetches and processes at most one message. It returns the sleep
// before the next poll and whether the connection is still usable.
func (c *Consumer) pollOnce(ctx context.Context, queue Queue) (time.Duration, bool) {
	body, ok, err := queue.Fetch(ctx)
	if err != nil {
		c.logger.Error("queue fetch failed, reconnecting", "error", err)
		return 0, false
	}
	if !ok {
		return c.idleInterval, true
	}

	c.process(ctx, body)
	return c.pollInterval, true
}

func (c *Consumer) process(ctx context.Context, body []byte) {
	note, err := c.decoder.Decode(body)
	if err != nil {
		// Keep the raw payload for forensics; the message is gone either way.
		c.logger.Error("dropping malformed notification",
			"error", err,
			"payload", string(body),
		)
		return
	}

	entry := note.LedgerEntry()
	if err := c.ledger.Create(ctx, entry); err != nil {
		c.logger.Error("failed to persist ledger entry",
			"error", err,
			"user_id", note.UserID.Hex(),
		)
		return
	}

	c.logger.Debug("ledger entry recorded",
		"user_id", note.UserID.Hex(),
		"type", note.Kind,
		"amount", note.Amount,
	)
}

// sleepCtx waits for d or until ctx is cancelled, reporting whether the
// full wait elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
