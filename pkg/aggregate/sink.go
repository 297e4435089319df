package aggregate

import (
	"context"
	"log"

	"github.com/umputun/pulsefeed/pkg/domain"
)

// FeedPublisher stores feed through the transactional publish path
type FeedPublisher interface {
	Publish(ctx context.Context, req domain.PublishFeedRequest) (int, error)
}

// FeedQueue sends publish-feed messages
type FeedQueue interface {
	PublishFeed(ctx context.Context, req domain.PublishFeedRequest) error
}

// StoreSink publishes feeds in-process, used when the queue is disabled
type StoreSink struct {
	Publisher FeedPublisher
}

// Send stores the feed and marks its articles published
func (s StoreSink) Send(ctx context.Context, req domain.PublishFeedRequest) error {
	n, err := s.Publisher.Publish(ctx, req)
	if err != nil {
		return err
	}
	log.Printf("[DEBUG] feed %s stored, %d new articles", req.Feed.ID, n)
	return nil
}

// QueueSink sends feeds to publish-feed queue
type QueueSink struct {
	Queue FeedQueue
}

// Send queues the feed
func (s QueueSink) Send(ctx context.Context, req domain.PublishFeedRequest) error {
	return s.Queue.PublishFeed(ctx, req)
}
