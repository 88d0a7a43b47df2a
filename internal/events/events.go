// Package events describes booking lifecycle notifications and fans them
// out to any number of sinks.
package events

import (
	"context"
	"errors"
	"time"

	"castlebooking/internal/domain"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingUpdated   Type = "booking.updated"
	BookingConfirmed Type = "booking.confirmed"
	BookingCancelled Type = "booking.cancelled"
	BookingDeleted   Type = "booking.deleted"
)

type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	CastleID   uuid.UUID       `json:"castle_id"`
	ActorID    uuid.UUID       `json:"actor_id"`
	Booking    *domain.Booking `json:"booking"`
}

func New(t Type, actor uuid.UUID, b *domain.Booking) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		CastleID:   b.CastleID,
		ActorID:    actor,
		Booking:    b,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi publishes to every member and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
