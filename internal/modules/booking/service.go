package booking

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"castlebooking/internal/domain"
	"castlebooking/internal/events"
	"castlebooking/internal/pkg/validator"
	"castlebooking/internal/policy"
	"castlebooking/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	bookings  BookingRepository
	castles   CastleReader
	rooms     RoomReader
	publisher events.Publisher
	// recheck re-runs the overlap test when an update moves a booking.
	recheck bool
}

func NewService(bookings BookingRepository, castles CastleReader, rooms RoomReader, publisher events.Publisher, recheckOnUpdate bool) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		bookings:  bookings,
		castles:   castles,
		rooms:     rooms,
		publisher: publisher,
		recheck:   recheckOnUpdate,
	}
}

func (s *Service) CreateBooking(ctx context.Context, actor policy.Actor, castleID, roomID uuid.UUID, req CreateBookingRequest) (*domain.Booking, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.castleOwner(ctx, castleID); err != nil {
		return nil, err
	}
	room, err := s.room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.CastleID != castleID {
		return nil, ErrRoomNotInCastle
	}

	checkIn, checkOut, err := parseRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	if req.Guests > room.Capacity {
		return nil, ErrTooManyGuests
	}

	b := &domain.Booking{
		UserID:       actor.ID,
		CastleID:     castleID,
		RoomID:       roomID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Guests:       req.Guests,
		TotalPrice:   TotalPrice(room.Price, Nights(checkIn, checkOut)),
		Status:       domain.BookingPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, mapWriteErr(err, ErrRoomNotFound)
	}

	s.publish(ctx, events.BookingCreated, actor, b)
	return b, nil
}

func (s *Service) UpdateBooking(ctx context.Context, actor policy.Actor, id uuid.UUID, req UpdateBookingRequest) (*domain.Booking, error) {
	if req.Empty() {
		return nil, ErrNoChanges
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	b, err := s.authorizedBooking(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	checkIn, checkOut := b.CheckInDate.Format(time.RFC3339), b.CheckOutDate.Format(time.RFC3339)
	if req.CheckInDate != nil {
		checkIn = *req.CheckInDate
	}
	if req.CheckOutDate != nil {
		checkOut = *req.CheckOutDate
	}
	in, out, err := parseRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	room, err := s.room(ctx, b.RoomID)
	if err != nil {
		return nil, err
	}
	guests := b.Guests
	if req.Guests != nil {
		guests = *req.Guests
	}
	if guests > room.Capacity {
		return nil, ErrTooManyGuests
	}

	b.CheckInDate, b.CheckOutDate, b.Guests = in, out, guests
	b.TotalPrice = TotalPrice(room.Price, Nights(in, out))

	if err := s.bookings.Update(ctx, b, s.recheck); err != nil {
		return nil, mapWriteErr(err, ErrBookingNotFound)
	}

	s.publish(ctx, events.BookingUpdated, actor, b)
	return b, nil
}

func (s *Service) DeleteBooking(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	b, err := s.authorizedBooking(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, b); err != nil {
		return mapWriteErr(err, ErrBookingNotFound)
	}

	s.publish(ctx, events.BookingDeleted, actor, b)
	return nil
}

// UpdateBookingStatus confirms or cancels a booking. Only the castle owner
// or an admin may confirm; the creator may additionally cancel.
func (s *Service) UpdateBookingStatus(ctx context.Context, actor policy.Actor, id uuid.UUID, req UpdateStatusRequest) (*domain.Booking, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	next := domain.BookingStatus(req.Status)

	b, owner, err := s.bookingWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.BookingOwners(b, owner), actor); err != nil {
		return nil, err
	}

	var typ events.Type
	switch {
	case b.Status == domain.BookingPending && next == domain.BookingConfirmed:
		if err := policy.Authorize([]uuid.UUID{owner}, actor); err != nil {
			return nil, err
		}
		typ = events.BookingConfirmed
	case b.Active() && next == domain.BookingCancelled:
		typ = events.BookingCancelled
	default:
		return nil, ErrInvalidTransition.WithMessage("cannot change booking status from " + string(b.Status) + " to " + string(next))
	}

	if err := s.bookings.UpdateStatus(ctx, b.ID, next); err != nil {
		return nil, mapWriteErr(err, ErrBookingNotFound)
	}
	b.Status = next

	s.publish(ctx, typ, actor, b)
	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Booking, error) {
	return s.authorizedBooking(ctx, actor, id)
}

func (s *Service) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *Service) ListUserBookings(ctx context.Context, actor policy.Actor, userID uuid.UUID) ([]domain.Booking, error) {
	if err := policy.Authorize(policy.UserOwners(userID), actor); err != nil {
		return nil, err
	}
	return s.bookings.ListByUser(ctx, userID)
}

func (s *Service) ListCastleBookings(ctx context.Context, actor policy.Actor, castleID uuid.UUID) ([]domain.Booking, error) {
	owner, err := s.castleOwner(ctx, castleID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize([]uuid.UUID{owner}, actor); err != nil {
		return nil, err
	}
	return s.bookings.ListByCastle(ctx, castleID)
}

// GetAvailableRooms lists rooms of a castle that hold at least guests
// people. When both dates parse into a positive range, rooms with an active
// booking in that window are left out; otherwise the date filter is skipped.
func (s *Service) GetAvailableRooms(ctx context.Context, castleID uuid.UUID, q AvailabilityQuery) ([]domain.Room, error) {
	minCapacity := 0
	if g := strings.TrimSpace(q.Guests); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil {
			return nil, ErrInvalidGuests
		}
		if n > 0 {
			minCapacity = n
		}
	}

	if _, err := s.castleOwner(ctx, castleID); err != nil {
		return nil, err
	}

	rooms, err := s.rooms.ListByCastle(ctx, castleID, minCapacity)
	if err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}

	if q.CheckInDate == "" || q.CheckOutDate == "" {
		return rooms, nil
	}
	in, out, err := parseRange(q.CheckInDate, q.CheckOutDate)
	if err != nil {
		return rooms, nil
	}

	booked, err := s.bookings.BookedRoomIDs(ctx, castleID, in, out)
	if err != nil {
		return nil, err
	}
	taken := make(map[uuid.UUID]struct{}, len(booked))
	for _, id := range booked {
		taken[id] = struct{}{}
	}

	available := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		if _, ok := taken[r.ID]; !ok {
			available = append(available, r)
		}
	}
	return available, nil
}

func (s *Service) castleOwner(ctx context.Context, castleID uuid.UUID) (uuid.UUID, error) {
	owner, err := s.castles.OwnerID(ctx, castleID)
	if errors.Is(err, repository.ErrNotFound) {
		return uuid.Nil, ErrCastleNotFound
	}
	return owner, err
}

func (s *Service) room(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	return room, err
}

func (s *Service) bookingWithOwner(ctx context.Context, id uuid.UUID) (*domain.Booking, uuid.UUID, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, uuid.Nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, uuid.Nil, err
	}

	owner, err := s.castleOwner(ctx, b.CastleID)
	if errors.Is(err, ErrCastleNotFound) {
		// orphaned booking; only the creator and admins remain
		return b, uuid.Nil, nil
	}
	return b, owner, err
}

func (s *Service) authorizedBooking(ctx context.Context, actor policy.Actor, id uuid.UUID) (*domain.Booking, error) {
	b, owner, err := s.bookingWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.BookingOwners(b, owner), actor); err != nil {
		return nil, err
	}
	return b, nil
}

// publish runs after the write has committed; a failed delivery never
// fails the request.
func (s *Service) publish(ctx context.Context, typ events.Type, actor policy.Actor, b *domain.Booking) {
	if err := s.publisher.Publish(ctx, events.New(typ, actor.ID, b)); err != nil {
		log.Printf("event_publish_failed type=%s booking_id=%s error=%q", typ, b.ID, err.Error())
	}
}

func mapWriteErr(err, notFound error) error {
	switch {
	case errors.Is(err, repository.ErrOverlap):
		return ErrRoomUnavailable
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	}
	return err
}
