package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// QueueName is the durable queue lifecycle events are published to.
const QueueName = "customer_events"

// Event types.
const (
	CustomerCreated = "customer.created"
	CustomerUpdated = "customer.updated"
	CustomerDeleted = "customer.deleted"
)

// Event is the payload published after a successful write operation.
type Event struct {
	Type       string    `json:"type"`
	CustomerID int       `json:"customer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType string, customerID int) Event {
	return Event{
		Type:       eventType,
		CustomerID: customerID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers lifecycle events to interested consumers. Publishing is
// best-effort from the service's point of view: a failed publish never fails
// the originating request.
type Publisher interface {
	Publish(event Event) error
	Close() error
}

// AMQPPublisher publishes events to a RabbitMQ queue.
type AMQPPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	// amqp channels are not safe for concurrent use
	mu sync.Mutex
}

// NewAMQPPublisher dials the broker once and declares the durable queue.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to amqp broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening amqp channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring queue %s: %w", QueueName, err)
	}

	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) Publish(event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.Publish(
		"",
		QueueName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	p.ch.Close()
	return p.conn.Close()
}

// MemoryPublisher records events in memory. Used by tests to assert on what
// the service published.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *MemoryPublisher) Close() error { return nil }

// NoopPublisher discards every event. Wired when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(Event) error { return nil }
func (NoopPublisher) Close() error        { return nil }

var (
	_ Publisher = (*AMQPPublisher)(nil)
	_ Publisher = (*MemoryPublisher)(nil)
	_ Publisher = NoopPublisher{}
)
