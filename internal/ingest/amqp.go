package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPBroker connects to a RabbitMQ queue. It satisfies Broker; all AMQP
// wire detail stays inside this file.
type AMQPBroker struct {
	url       string
	queueName string
}

func NewAMQPBroker(url, queueName string) *AMQPBroker {
	return &AMQPBroker{url: url, queueName: queueName}
}

func (b *AMQPBroker) Connect(_ context.Context) (Queue, error) {
	conn, err := amqp.Dial(b.url)
	if err != nil {
		return nil, fmt.Errorf("Connect: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("Connect: channel: %w", err)
	}

	if _, err := ch.QueueDeclare(b.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("Connect: declare queue %s: %w", b.queueName, err)
	}

	return &amqpQueue{conn: conn, ch: ch, name: b.queueName}, nil
}

type amqpQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
}

func (q *amqpQueue) Fetch(_ context.Context) ([]byte, bool, error) {
	// autoAck: the broker considers the message consumed on fetch,
	// regardless of what happens to it downstream.
	d, ok, err := q.ch.Get(q.name, true)
	if err != nil {
		return nil, false, fmt.Errorf("Fetch: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return d.Body, true, nil
}

func (q *amqpQueue) Close() error {
	return errors.Join(q.ch.Close(), q.conn.Close())
}

// TransactionMessage is the wire shape published for every recorded
// transaction and consumed by the ingestion pipeline.
type TransactionMessage struct {
	UserID    string  `json:"userId"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// AMQPPublisher pushes transaction notifications onto the ingestion queue.
// The connection is dialed lazily and rebuilt after a publish failure; the
// transaction service treats publish errors as best-effort.
type AMQPPublisher struct {
	url       string
	queueName string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url, queueName string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queueName: queueName}
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg TransactionMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("Publish: marshal: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return fmt.Errorf("Publish: %w", err)
	}

	err = ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		p.resetLocked()
		return fmt.Errorf("Publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.closeLocked()
	p.conn, p.ch = nil, nil
	return err
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("channel: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("channel: declare queue %s: %w", p.queueName, err)
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) resetLocked() {
	_ = p.closeLocked()
	p.conn, p.ch = nil, nil
}

func (p *AMQPPublisher) closeLocked() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
