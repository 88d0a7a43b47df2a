package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"castlebooking/internal/config"
	"castlebooking/internal/events"
	"castlebooking/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	qcfg := queue.ConsumerConfig{
		URL:      cfg.AMQPURL,
		Exchange: cfg.AMQPExchange,
		Queue:    cfg.AMQPQueue,
	}
	err = queue.Consume(ctx, qcfg, func(_ context.Context, e events.Event) error {
		booking := "-"
		if e.Booking != nil {
			booking = e.Booking.ID.String()
		}
		log.Printf("booking_event type=%s castle_id=%s booking_id=%s actor_id=%s at=%s",
			e.Type, e.CastleID, booking, e.ActorID, e.OccurredAt.Format(time.RFC3339))
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("consumer stopped: %v", err)
	}
	log.Println("consumer stopped")
}
