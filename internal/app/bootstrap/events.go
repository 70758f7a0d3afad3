package bootstrap

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	appconfig "github.com/withsutham/SE-KPS-68-2/internal/config"
	"github.com/withsutham/SE-KPS-68-2/internal/events"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

// EventPipeline is the publisher handed to the booking service plus the
// background pieces that move events to the broker.
type EventPipeline struct {
	Publisher events.Publisher
	// Deliverer is nil unless events go through the Postgres outbox.
	Deliverer *events.Deliverer

	broker *events.AMQPPublisher
}

// Run drains the outbox until ctx is cancelled. It returns immediately when
// there is no outbox.
func (p *EventPipeline) Run(ctx context.Context) {
	if p == nil || p.Deliverer == nil {
		return
	}
	p.Deliverer.Start(ctx)
}

// Close releases the broker connection.
func (p *EventPipeline) Close() error {
	if p == nil || p.broker == nil {
		return nil
	}
	return p.broker.Close()
}

// BuildEventPipeline picks how booking.submitted events leave the process:
//
//	postgres + rabbitmq: outbox rows forwarded to the queue by a Deliverer
//	postgres only:       outbox rows, drained and logged
//	rabbitmq only:       published straight to the queue
//	neither:             dropped
func BuildEventPipeline(cfg *appconfig.Config, pool *pgxpool.Pool, logger *logging.Logger) (*EventPipeline, error) {
	if logger == nil {
		logger = logging.Default()
	}
	pipeline := &EventPipeline{}

	if cfg != nil && strings.TrimSpace(cfg.RabbitMQURL) != "" {
		broker, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.BookingEventsQueue, logger)
		if err != nil {
			return nil, err
		}
		pipeline.broker = broker
	}

	if pool == nil {
		if pipeline.broker != nil {
			pipeline.Publisher = pipeline.broker
			logger.Info("booking events published directly", "queue", pipeline.broker.Queue())
		} else {
			pipeline.Publisher = events.NoopPublisher{}
			logger.Info("booking events disabled")
		}
		return pipeline, nil
	}

	store := events.NewOutboxStore(pool)
	pipeline.Publisher = events.NewOutboxPublisher(store)

	var handler events.DeliveryHandler = logDelivery{logger: logger}
	if pipeline.broker != nil {
		handler = events.ForwardTo(pipeline.broker)
	}
	deliverer := events.NewDeliverer(store, handler, logger)
	if cfg != nil {
		deliverer = deliverer.WithInterval(cfg.OutboxPollInterval)
	}
	pipeline.Deliverer = deliverer
	logger.Info("booking events routed through outbox", "broker", pipeline.broker != nil)
	return pipeline, nil
}

type logDelivery struct {
	logger *logging.Logger
}

func (d logDelivery) Handle(_ context.Context, entry events.OutboxEntry) error {
	d.logger.Info("booking event delivered", "event_id", entry.ID, "type", entry.Type)
	return nil
}
