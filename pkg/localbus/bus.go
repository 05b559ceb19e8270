// Package localbus is the in-process event bus used when NATS is not configured.
// It satisfies the same Publish/Subscribe contract as pkg/nats.
package localbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ticket-marketplace-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	topic          = "events"
	subjectKey     = "subject"
	occurredAtKey  = "occurred_at"
	outputChanSize = 256
)

type Bus struct {
	pubSub *gochannel.GoChannel
	ctx    context.Context
	cancel context.CancelFunc
}

func New(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: outputChanSize}, logger),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (b *Bus) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	msg.Metadata.Set(subjectKey, events.Subject(event.EventType()))
	msg.Metadata.Set(occurredAtKey, event.Timestamp().UTC().Format(time.RFC3339Nano))

	return b.pubSub.Publish(topic, msg)
}

// Subscribe delivers every event whose subject matches the pattern.
// durableName is accepted for parity with NATS; in-process subscriptions do not persist.
func (b *Bus) Subscribe(subject, durableName string, handler events.EventHandler) error {
	messages, err := b.pubSub.Subscribe(b.ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			b.dispatch(subject, msg, handler)
		}
	}()
	return nil
}

func (b *Bus) dispatch(pattern string, msg *message.Message, handler events.EventHandler) {
	// Always ack: gochannel redelivers a nacked message immediately and forever.
	defer msg.Ack()

	subject := msg.Metadata.Get(subjectKey)
	if !events.MatchSubject(pattern, subject) {
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] localbus: bad payload on %s: %v", subject, err)
		return
	}

	occurred, err := time.Parse(time.RFC3339Nano, msg.Metadata.Get(occurredAtKey))
	if err != nil {
		occurred = time.Now()
	}

	event := events.BaseEvent{
		Type:       events.TypeFromSubject(subject),
		Data:       payload,
		OccurredAt: occurred,
	}
	if err := handler(b.ctx, event); err != nil {
		log.Printf("[ERROR] localbus: handler failed for %s: %v", subject, err)
	}
}

func (b *Bus) Close() error {
	b.cancel()
	return b.pubSub.Close()
}
