package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

// DefaultBookingQueue receives booking submission events.
const DefaultBookingQueue = "booking.submitted"

var ErrPublisherClosed = errors.New("events: publisher closed")

// AMQPPublisher publishes persistent JSON messages to a durable RabbitMQ
// queue. The connection is opened lazily and reopened after it drops.
type AMQPPublisher struct {
	url    string
	queue  string
	logger *logging.Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewAMQPPublisher creates a publisher for queue on the broker at url.
func NewAMQPPublisher(url, queue string, logger *logging.Logger) (*AMQPPublisher, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("events: rabbitmq url required")
	}
	if strings.TrimSpace(queue) == "" {
		queue = DefaultBookingQueue
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AMQPPublisher{url: url, queue: queue, logger: logger}, nil
}

// Queue is the routing key messages are published with.
func (p *AMQPPublisher) Queue() string {
	return p.queue
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.closed {
		return nil, ErrPublisherClosed
	}
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("events: dial rabbitmq: %w", err)
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("events: open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("events: declare queue %s: %w", p.queue, err)
	}
	p.ch = ch
	return ch, nil
}

// Publish sends payload as a persistent JSON message typed eventType.
func (p *AMQPPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", eventType, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.ch = nil
		return fmt.Errorf("events: publish %s: %w", eventType, err)
	}
	p.logger.Debug("event published", "type", eventType, "queue", p.queue)
	return nil
}

// Close shuts the channel and connection down.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
		p.ch = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}
