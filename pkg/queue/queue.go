// Package queue binds publish handlers to an AMQP broker. Publishing and consuming share one
// connection, every consumer runs on its own channel with bounded prefetch.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/pulsefeed/pkg/config"
	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/publish"
)

// Handler processes a message body and tells how to settle it
type Handler interface {
	Handle(ctx context.Context, body []byte, redelivered bool) publish.Outcome
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, body []byte, redelivered bool) publish.Outcome

// Handle calls f
func (f HandlerFunc) Handle(ctx context.Context, body []byte, redelivered bool) publish.Outcome {
	return f(ctx, body, redelivered)
}

// ErrClosed is returned by consumers when broker closes the delivery channel
var ErrClosed = errors.New("delivery channel closed")

// Broker publishes and consumes publish-feed and publish-keywords messages
type Broker struct {
	cfg  config.QueueConfig
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel // publishing channel
}

// Dial connects to the broker and declares exchange, queues and bindings
func Dial(cfg config.QueueConfig) (*Broker, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declare(ch, cfg); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Printf("[INFO] connected to amqp broker, exchange %s, queues %s and %s", cfg.Exchange, cfg.FeedQueue, cfg.KeywordsQueue)
	return &Broker{cfg: cfg, conn: conn, ch: ch}, nil
}

func declare(ch *amqp.Channel, cfg config.QueueConfig) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}
	for _, q := range []string{cfg.FeedQueue, cfg.KeywordsQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
		if err := ch.QueueBind(q, q, cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", q, err)
		}
	}
	return nil
}

// PublishFeed sends publish-feed message
func (b *Broker) PublishFeed(ctx context.Context, req domain.PublishFeedRequest) error {
	return b.publish(ctx, b.cfg.FeedQueue, req)
}

// PublishKeywords sends publish-keywords message
func (b *Broker) PublishKeywords(ctx context.Context, req domain.PublishKeywordsRequest) error {
	return b.publish(ctx, b.cfg.KeywordsQueue, req)
}

func (b *Broker) publish(ctx context.Context, key string, v any) error {
	msg, err := message(v)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ch.PublishWithContext(ctx, b.cfg.Exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", key, err)
	}
	return nil
}

// message makes persistent json publishing
func message(v any) (amqp.Publishing, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal message: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	}, nil
}

// Consume runs configured number of consumers of the queue until ctx is canceled or the broker closes delivery
func (b *Broker) Consume(ctx context.Context, queue string, h Handler) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < max(b.cfg.Consumers, 1); i++ {
		tag := fmt.Sprintf("%s-%d", queue, i)
		g.Go(func() error {
			ch, err := b.conn.Channel()
			if err != nil {
				return fmt.Errorf("open consumer channel %s: %w", tag, err)
			}
			defer ch.Close() //nolint:errcheck // closing on exit

			if err := ch.Qos(max(b.cfg.Prefetch, 1), 0, false); err != nil {
				return fmt.Errorf("set prefetch of %s: %w", tag, err)
			}
			deliveries, err := ch.Consume(queue, tag, false, false, false, false, nil)
			if err != nil {
				return fmt.Errorf("consume %s: %w", tag, err)
			}
			log.Printf("[INFO] consumer %s started, prefetch %d", tag, b.cfg.Prefetch)
			return serve(ctx, deliveries, h)
		})
	}
	return g.Wait()
}

// Close closes publishing channel and connection
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var errs error
	if err := b.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = errors.Join(errs, fmt.Errorf("close channel: %w", err))
	}
	if err := b.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = errors.Join(errs, fmt.Errorf("close connection: %w", err))
	}
	return errs
}

// serve handles deliveries one by one and settles each exactly once
func serve(ctx context.Context, deliveries <-chan amqp.Delivery, h Handler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrClosed
			}
			outcome := h.Handle(ctx, d.Body, d.Redelivered)
			if err := settle(d, outcome); err != nil {
				log.Printf("[WARN] failed to %s message %d: %v", outcome, d.DeliveryTag, err)
			}
		}
	}
}

func settle(d amqp.Delivery, o publish.Outcome) error {
	switch o {
	case publish.Ack:
		return d.Ack(false)
	case publish.NackRequeue:
		return d.Nack(false, true)
	default:
		return d.Nack(false, false)
	}
}
