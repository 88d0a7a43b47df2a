package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"castlebooking/internal/events"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one decoded event. A returned error rejects the
// delivery without requeueing it.
type Handler func(ctx context.Context, e events.Event) error

type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	// BindingKey defaults to "booking.#".
	BindingKey string
}

// Consume connects, binds cfg.Queue to the exchange and dispatches
// deliveries to h until ctx is done, reconnecting with backoff when the
// broker goes away.
func Consume(ctx context.Context, cfg ConsumerConfig, h Handler) error {
	if cfg.BindingKey == "" {
		cfg.BindingKey = "booking.#"
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Printf("events-consumer: dial failed error=%q retry_in=%s", err.Error(), backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg, h)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("events-consumer: consume loop ended error=%q; reconnecting", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig, h Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("events-consumer: set QoS failed error=%q", err.Error())
	}
	if err := declareExchange(ch, cfg.Exchange); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(cfg.Queue, cfg.BindingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := dispatch(ctx, d.Body, h); err != nil {
				log.Printf("events-consumer: handle message failed message_id=%s error=%q", d.MessageId, err.Error())
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func dispatch(ctx context.Context, body []byte, h Handler) error {
	var e events.Event
	if err := json.Unmarshal(body, &e); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if e.Type == "" {
		return errors.New("event without type")
	}
	return h(ctx, e)
}
