// Package events publishes catalog change notifications to RabbitMQ.
// Publishing is best effort: failures are logged and counted but never
// fail the request that triggered them.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"mediahub/internal/logging"
	"mediahub/internal/metrics"
)

type Type string

const (
	MediaCreated        Type = "media.created"
	MediaUpdated        Type = "media.updated"
	MediaDeleted        Type = "media.deleted"
	UserCreated         Type = "user.created"
	UserUpdated         Type = "user.updated"
	UserDeleted         Type = "user.deleted"
	SubscriptionCreated Type = "subscription.created"
	SubscriptionDeleted Type = "subscription.deleted"
)

// Event is the JSON body of every message on the events queue.
type Event struct {
	Type       Type      `json:"type"`
	EntityID   int64     `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

func New(t Type, id int64, payload any) Event {
	return Event{Type: t, EntityID: id, OccurredAt: time.Now().UTC(), Payload: payload}
}

// Publisher is implemented by AMQPPublisher and by test doubles.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// AMQPPublisher keeps one connection and channel open for the process.
// A nil *AMQPPublisher drops every event.
type AMQPPublisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewAMQPPublisher dials url and declares a durable queue.
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) {
	if p == nil {
		return
	}

	body, err := json.Marshal(e)
	if err != nil {
		p.fail(e, err)
		return
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         string(e.Type),
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishers
	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		p.fail(e, err)
		return
	}
	metrics.EventsPublished.WithLabelValues(string(e.Type), "ok").Inc()
}

func (p *AMQPPublisher) fail(e Event, err error) {
	metrics.EventsPublished.WithLabelValues(string(e.Type), "error").Inc()
	logging.Warn().Err(err).Str("event", string(e.Type)).Int64("entity_id", e.EntityID).
		Msg("failed to publish catalog event")
}

func (p *AMQPPublisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.ch.Close()
	return p.conn.Close()
}

// Nop discards events. It is used when AMQP_URL is unset.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
