package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
)

type fakeQueue struct {
	mu       sync.Mutex
	messages [][]byte
	fetchErr error
	closed   bool
	fetches  int
}

func (q *fakeQueue) Fetch(_ context.Context) ([]byte, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.fetches++
	if q.fetchErr != nil {
		return nil, false, q.fetchErr
	}
	if len(q.messages) == 0 {
		return nil, false, nil
	}
	msg := q.messages[0]
	q.messages = q.messages[1:]
	return msg, true, nil
}

func (q *fakeQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}

func (q *fakeQueue) drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages) == 0 && q.fetches > 0
}

type fakeBroker struct {
	mu           sync.Mutex
	queues       []*fakeQueue
	dialFailures int
	attempts     int
	attemptTimes []time.Time
}

func (b *fakeBroker) Connect(_ context.Context) (Queue, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts++
	b.attemptTimes = append(b.attemptTimes, time.Now())
	if b.dialFailures > 0 {
		b.dialFailures--
		return nil, errors.New("broker unreachable")
	}
	if len(b.queues) == 0 {
		return nil, errors.New("no queue scripted")
	}
	q := b.queues[0]
	if len(b.queues) > 1 {
		b.queues = b.queues[1:]
	}
	return q, nil
}

func (b *fakeBroker) attemptCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

type memLedger struct {
	mu        sync.Mutex
	entries   []domain.LedgerEntry
	failFirst bool
}

func (l *memLedger) Create(_ context.Context, entry *domain.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failFirst {
		l.failFirst = false
		return errors.New("store write failed")
	}
	l.entries = append(l.entries, *entry)
	return nil
}

func (l *memLedger) all() []domain.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.LedgerEntry(nil), l.entries...)
}

func newTestConsumer(broker Broker, ledger ledgerStore) *Consumer {
	return NewConsumer(broker, ledger, slog.Default(),
		10*time.Millisecond, // reconnect
		time.Millisecond,    // poll
		5*time.Millisecond,  // idle
	)
}

func runConsumer(t *testing.T, c *Consumer) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	return func() {
		stop()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("consumer did not stop after cancellation")
		}
	}
}

func TestConsumer_MirrorsDecodedNotification(t *testing.T) {
	userID := primitive.NewObjectID()
	queue := &fakeQueue{messages: [][]byte{
		[]byte(`{"userId":"` + userID.Hex() + `","type":"income","amount":100.0}`),
	}}
	broker := &fakeBroker{queues: []*fakeQueue{queue}}
	ledger := &memLedger{}

	before := time.Now().UTC()
	cancel := runConsumer(t, newTestConsumer(broker, ledger))
	defer cancel()

	require.Eventually(t, func() bool { return len(ledger.all()) == 1 },
		time.Second, time.Millisecond)

	entry := ledger.all()[0]
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, domain.TransactionKindIncome, entry.Kind)
	assert.Equal(t, 100.0, entry.Amount)
	assert.False(t, entry.Timestamp.Before(before), "timestamp defaults to decode time")
}

func TestConsumer_DropsMalformedWithoutLedgerEntry(t *testing.T) {
	userID := primitive.NewObjectID()
	queue := &fakeQueue{messages: [][]byte{
		[]byte(`{"userId":"` + userID.Hex() + `","amount":50}`), // missing type
	}}
	broker := &fakeBroker{queues: []*fakeQueue{queue}}
	ledger := &memLedger{}

	cancel := runConsumer(t, newTestConsumer(broker, ledger))
	defer cancel()

	require.Eventually(t, queue.drained, time.Second, time.Millisecond)
	// A few more polls to make sure nothing shows up late.
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, ledger.all())
}

func TestConsumer_RetriesConnectionWithBackoff(t *testing.T) {
	userID := primitive.NewObjectID()
	queue := &fakeQueue{messages: [][]byte{
		[]byte(`{"userId":"` + userID.Hex() + `","type":"expense","amount":5}`),
	}}
	broker := &fakeBroker{queues: []*fakeQueue{queue}, dialFailures: 2}
	ledger := &memLedger{}

	cancel := runConsumer(t, newTestConsumer(broker, ledger))
	defer cancel()

	require.Eventually(t, func() bool { return len(ledger.all()) == 1 },
		time.Second, time.Millisecond)

	require.GreaterOrEqual(t, broker.attemptCount(), 3)
	broker.mu.Lock()
	gap := broker.attemptTimes[2].Sub(broker.attemptTimes[0])
	broker.mu.Unlock()
	assert.GreaterOrEqual(t, gap, 15*time.Millisecond, "backoff must separate dial attempts")
}

func TestConsumer_ReconnectsAfterFetchError(t *testing.T) {
	userID := primitive.NewObjectID()
	broken := &fakeQueue{fetchErr: errors.New("channel closed")}
	healthy := &fakeQueue{messages: [][]byte{
		[]byte(`{"userId":"` + userID.Hex() + `","type":"income","amount":1}`),
	}}
	broker := &fakeBroker{queues: []*fakeQueue{broken, healthy}}
	ledger := &memLedger{}

	cancel := runConsumer(t, newTestConsumer(broker, ledger))
	defer cancel()

	require.Eventually(t, func() bool { return len(ledger.all()) == 1 },
		time.Second, time.Millisecond)

	broken.mu.Lock()
	closed := broken.closed
	broken.mu.Unlock()
	assert.True(t, closed, "failed connection must be closed before reconnecting")
	assert.GreaterOrEqual(t, broker.attemptCount(), 2)
}

func TestConsumer_ContinuesAfterPersistenceFailure(t *testing.T) {
	userID := primitive.NewObjectID()
	queue := &fakeQueue{messages: [][]byte{
		[]byte(`{"userId":"` + userID.Hex() + `","type":"income","amount":1}`),
		[]byte(`{"userId":"` + userID.Hex() + `","type":"income","amount":2}`),
	}}
	broker := &fakeBroker{queues: []*fakeQueue{queue}}
	ledger := &memLedger{failFirst: true}

	cancel := runConsumer(t, newTestConsumer(broker, ledger))
	defer cancel()

	// First entry is lost (no requeue, no buffering); the second lands.
	require.Eventually(t, func() bool { return len(ledger.all()) == 1 },
		time.Second, time.Millisecond)
	assert.Equal(t, 2.0, ledger.all()[0].Amount)
}

func TestConsumer_CancellationInterruptsIdleSleep(t *testing.T) {
	queue := &fakeQueue{}
	broker := &fakeBroker{queues: []*fakeQueue{queue}}
	ledger := &memLedger{}

	c := NewConsumer(broker, ledger, slog.Default(),
		10*time.Millisecond, time.Millisecond, 10*time.Second)

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		queue.mu.Lock()
		defer queue.mu.Unlock()
		return queue.fetches > 0
	}, time.Second, time.Millisecond)

	start := time.Now()
	stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cancellation did not interrupt the idle sleep")
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	queue.mu.Lock()
	assert.True(t, queue.closed, "queue must be closed on shutdown")
	queue.mu.Unlock()
}
