package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	q "github.com/iliyamo/movie-collection/internal/queue"
)

// defaultDialTimeout bounds connection setup when ctx has no deadline.
const defaultDialTimeout = 5 * time.Second

// RabbitPublisher publishes events to the collection.activity queue.  A
// connection is dialled per publish, which suits the low mutation rate of
// the service and survives broker restarts without reconnect logic.
type RabbitPublisher struct {
	URL string
}

func NewRabbitPublisher(url string) *RabbitPublisher { return &RabbitPublisher{URL: url} }

// Publish sends ev as a persistent JSON message on the default exchange.
// Dialling and the AMQP handshake finish before ctx's deadline or fail.
func (p *RabbitPublisher) Publish(ctx context.Context, ev q.CollectionEvent) error {
	timeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return ctx.Err()
		}
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		log.Error().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Error().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(q.ActivityQueueName, true, false, false, false, nil); err != nil {
		log.Error().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.ActivityQueueName, false, false, pub); err != nil {
		log.Error().Err(err).Str("event", ev.Type).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}

func (p *RabbitPublisher) Close() error { return nil }
