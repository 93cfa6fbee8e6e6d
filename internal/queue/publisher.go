package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const releasedQueueName = "reservation.released"

// Publisher emits best-effort audit events about released holds.  Any
// error is logged and returned so callers can ignore failures without
// interrupting the reservation flow; the lock service's own TTL expiry
// is the backstop when an event is lost.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher that dials the given broker URL.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// PublishReleased publishes a ReservationReleasedEvent to the
// "reservation.released" queue.  The queue is declared durable and the
// message persistent so audit trails survive broker restarts.
func (p *Publisher) PublishReleased(ctx context.Context, event ReservationReleasedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		releasedQueueName, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	if event.ReleasedAt == "" {
		event.ReleasedAt = time.Now().UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                // default exchange
		releasedQueueName, // routing key = queue name
		false,             // mandatory
		false,             // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
