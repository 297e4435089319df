package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/publish"
)

// fakeAcknowledger records settlement of deliveries
type fakeAcknowledger struct {
	mu      sync.Mutex
	acks    []uint64
	nacks   map[uint64]bool // tag -> requeue
	failAck bool
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{nacks: map[uint64]bool{}}
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAck {
		return errors.New("channel closed")
	}
	f.acks = append(f.acks, tag)
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, _, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacks[tag] = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func TestServe(t *testing.T) {
	ack := newFakeAcknowledger()
	deliveries := make(chan amqp.Delivery, 4)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("ok")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("retry")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("retry"), Redelivered: true}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 4, Body: []byte("poison")}
	close(deliveries)

	var seen []string
	h := HandlerFunc(func(ctx context.Context, body []byte, redelivered bool) publish.Outcome {
		seen = append(seen, string(body))
		switch {
		case string(body) == "ok":
			return publish.Ack
		case string(body) == "retry" && !redelivered:
			return publish.NackRequeue
		default:
			return publish.NackDrop
		}
	})

	err := serve(context.Background(), deliveries, h)
	require.ErrorIs(t, err, ErrClosed)

	assert.Equal(t, []string{"ok", "retry", "retry", "poison"}, seen)
	assert.Equal(t, []uint64{1}, ack.acks)
	assert.Equal(t, map[uint64]bool{2: true, 3: false, 4: false}, ack.nacks)
}

func TestServe_SettleFailureContinues(t *testing.T) {
	ack := newFakeAcknowledger()
	ack.failAck = true
	deliveries := make(chan amqp.Delivery, 2)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2}
	close(deliveries)

	calls := 0
	h := HandlerFunc(func(ctx context.Context, body []byte, redelivered bool) publish.Outcome {
		calls++
		return publish.Ack
	})
	require.ErrorIs(t, serve(context.Background(), deliveries, h), ErrClosed)
	assert.Equal(t, 2, calls)
	assert.Empty(t, ack.acks)
}

func TestServe_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	deliveries := make(chan amqp.Delivery)

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, deliveries, HandlerFunc(func(context.Context, []byte, bool) publish.Outcome { return publish.Ack }))
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("serve didn't stop on canceled context")
	}
}

func TestSettle(t *testing.T) {
	ack := newFakeAcknowledger()
	require.NoError(t, settle(amqp.Delivery{Acknowledger: ack, DeliveryTag: 7}, publish.Ack))
	require.NoError(t, settle(amqp.Delivery{Acknowledger: ack, DeliveryTag: 8}, publish.NackRequeue))
	require.NoError(t, settle(amqp.Delivery{Acknowledger: ack, DeliveryTag: 9}, publish.Outcome(42)))
	assert.Equal(t, []uint64{7}, ack.acks)
	assert.Equal(t, map[uint64]bool{8: true, 9: false}, ack.nacks)

	assert.Error(t, settle(amqp.Delivery{}, publish.Ack), "delivery without acknowledger")
}

func TestMessage(t *testing.T) {
	req := domain.PublishKeywordsRequest{ArticleID: "a1", Title: "港股"}
	msg, err := message(req)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.NotEmpty(t, msg.MessageId)

	var res domain.PublishKeywordsRequest
	require.NoError(t, json.Unmarshal(msg.Body, &res))
	assert.Equal(t, req, res)

	_, err = message(make(chan int))
	assert.Error(t, err)
}
