package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"castlebooking/internal/domain"
	"castlebooking/internal/events"
	"castlebooking/internal/pkg/apperror"
	"castlebooking/internal/policy"
	"castlebooking/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil && b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockBookingRepo) Update(ctx context.Context, b *domain.Booking, recheck bool) error {
	return m.Called(ctx, b, recheck).Error(0)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockBookingRepo) Delete(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) *domain.Booking); ok {
		return fn(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListByCastle(ctx context.Context, castleID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, castleID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) BookedRoomIDs(ctx context.Context, castleID uuid.UUID, checkIn, checkOut time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, castleID, checkIn, checkOut)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type mockCastles struct {
	mock.Mock
}

func (m *mockCastles) OwnerID(ctx context.Context, castleID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, castleID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type mockRooms struct {
	mock.Mock
}

func (m *mockRooms) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *mockRooms) ListByCastle(ctx context.Context, castleID uuid.UUID, minCapacity int) ([]domain.Room, error) {
	args := m.Called(ctx, castleID, minCapacity)
	return args.Get(0).([]domain.Room), args.Error(1)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	bookings *mockBookingRepo
	castles  *mockCastles
	rooms    *mockRooms
	events   *recorder
	service  *Service

	owner   policy.Actor
	guest   policy.Actor
	admin   policy.Actor
	other   policy.Actor
	castle  uuid.UUID
	room    *domain.Room
	booking *domain.Booking
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bookings: new(mockBookingRepo),
		castles:  new(mockCastles),
		rooms:    new(mockRooms),
		events:   &recorder{},
		owner:    policy.Actor{ID: uuid.New(), Role: domain.RoleOwner},
		guest:    policy.Actor{ID: uuid.New(), Role: domain.RoleGuest},
		admin:    policy.Actor{ID: uuid.New(), Role: domain.RoleAdmin},
		other:    policy.Actor{ID: uuid.New(), Role: domain.RoleGuest},
		castle:   uuid.New(),
	}
	f.room = &domain.Room{ID: uuid.New(), CastleID: f.castle, Name: "Tower", Capacity: 2, Price: 100}
	f.booking = &domain.Booking{
		ID:           uuid.New(),
		UserID:       f.guest.ID,
		CastleID:     f.castle,
		RoomID:       f.room.ID,
		CheckInDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		Guests:       2,
		TotalPrice:   200,
		Status:       domain.BookingPending,
	}
	f.castles.On("OwnerID", mock.Anything, f.castle).Return(f.owner.ID, nil).Maybe()
	f.rooms.On("GetByID", mock.Anything, f.room.ID).Return(f.room, nil).Maybe()
	f.service = NewService(f.bookings, f.castles, f.rooms, f.events, true)
	return f
}

// stored returns a fresh copy of the booking each time it is loaded.
func (f *fixture) stored() {
	f.bookings.On("GetByID", mock.Anything, f.booking.ID).Return(func(context.Context, uuid.UUID) *domain.Booking {
		cp := *f.booking
		return &cp
	}, nil)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestService_CreateBooking(t *testing.T) {
	req := CreateBookingRequest{CheckInDate: "2026-06-01", CheckOutDate: "2026-06-03", Guests: 2}

	t.Run("prices by nights", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.UserID == f.guest.ID && b.TotalPrice == 200 && b.Status == domain.BookingPending
		})).Return(nil)

		b, err := f.service.CreateBooking(context.Background(), f.guest, f.castle, f.room.ID, req)
		require.NoError(t, err)
		assert.Equal(t, 200.0, b.TotalPrice)
		assert.Equal(t, []events.Type{events.BookingCreated}, f.events.types())
		f.bookings.AssertExpectations(t)
	})

	t.Run("overlap is a conflict", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.On("Create", mock.Anything, mock.Anything).Return(repository.ErrOverlap)

		_, err := f.service.CreateBooking(context.Background(), f.guest, f.castle, f.room.ID, req)
		assert.ErrorIs(t, err, ErrRoomUnavailable)
		ae, _ := apperror.As(err)
		assert.Equal(t, 409, ae.Status)
		assert.Empty(t, f.events.types())
	})

	t.Run("missing field", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreateBooking(context.Background(), f.guest, f.castle, f.room.ID, CreateBookingRequest{CheckInDate: "2026-06-01", Guests: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "check_out_date is required")
	})

	t.Run("empty range", func(t *testing.T) {
		f := newFixture(t)
		r := req
		r.CheckOutDate = r.CheckInDate
		_, err := f.service.CreateBooking(context.Background(), f.guest, f.castle, f.room.ID, r)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("room of another castle", func(t *testing.T) {
		f := newFixture(t)
		elsewhere := uuid.New()
		f.castles.On("OwnerID", mock.Anything, elsewhere).Return(uuid.New(), nil)

		_, err := f.service.CreateBooking(context.Background(), f.guest, elsewhere, f.room.ID, req)
		assert.ErrorIs(t, err, ErrRoomNotInCastle)
	})

	t.Run("unknown castle and room", func(t *testing.T) {
		f := newFixture(t)
		missing := uuid.New()
		f.castles.On("OwnerID", mock.Anything, missing).Return(uuid.Nil, repository.ErrNotFound)
		f.rooms.On("GetByID", mock.Anything, missing).Return(nil, repository.ErrNotFound)

		_, err := f.service.CreateBooking(context.Background(), f.guest, missing, f.room.ID, req)
		assert.ErrorIs(t, err, ErrCastleNotFound)
		_, err = f.service.CreateBooking(context.Background(), f.guest, f.castle, missing, req)
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("guests over capacity", func(t *testing.T) {
		f := newFixture(t)
		r := req
		r.Guests = 3
		_, err := f.service.CreateBooking(context.Background(), f.guest, f.castle, f.room.ID, r)
		assert.ErrorIs(t, err, ErrTooManyGuests)
	})

	t.Run("publish failure is not fatal", func(t *testing.T) {
		f := newFixture(t)
		f.events.err = errors.New("broker down")
		f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.CreateBooking(context.Background(), f.guest, f.castle, f.room.ID, req)
		assert.NoError(t, err)
	})
}

func TestService_UpdateBooking_Policy(t *testing.T) {
	patch := UpdateBookingRequest{CheckOutDate: strPtr("2026-06-04")}

	for name, actor := range map[string]func(f *fixture) policy.Actor{
		"creator": func(f *fixture) policy.Actor { return f.guest },
		"owner":   func(f *fixture) policy.Actor { return f.owner },
		"admin":   func(f *fixture) policy.Actor { return f.admin },
	} {
		t.Run(name+" may update", func(t *testing.T) {
			f := newFixture(t)
			f.stored()
			f.bookings.On("Update", mock.Anything, mock.Anything, true).Return(nil)

			b, err := f.service.UpdateBooking(context.Background(), actor(f), f.booking.ID, patch)
			require.NoError(t, err)
			assert.Equal(t, 300.0, b.TotalPrice)
			assert.Equal(t, []events.Type{events.BookingUpdated}, f.events.types())
		})
	}

	t.Run("stranger is forbidden before any write", func(t *testing.T) {
		f := newFixture(t)
		f.stored()

		_, err := f.service.UpdateBooking(context.Background(), f.other, f.booking.ID, patch)
		assert.ErrorIs(t, err, policy.ErrForbidden)
		f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

		err = f.service.DeleteBooking(context.Background(), f.other, f.booking.ID)
		assert.ErrorIs(t, err, policy.ErrForbidden)
		f.bookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestService_UpdateBooking(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdateBooking(context.Background(), f.guest, f.booking.ID, UpdateBookingRequest{})
		assert.ErrorIs(t, err, ErrNoChanges)
	})

	t.Run("absent booking", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.bookings.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)
		_, err := f.service.UpdateBooking(context.Background(), f.guest, id, UpdateBookingRequest{Guests: intPtr(1)})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("price follows current room price", func(t *testing.T) {
		f := newFixture(t)
		f.stored()
		f.room.Price = 150
		f.bookings.On("Update", mock.Anything, mock.Anything, true).Return(nil)

		b, err := f.service.UpdateBooking(context.Background(), f.guest, f.booking.ID, UpdateBookingRequest{Guests: intPtr(1)})
		require.NoError(t, err)
		assert.Equal(t, 1, b.Guests)
		assert.Equal(t, 300.0, b.TotalPrice)
	})

	t.Run("inverted dates", func(t *testing.T) {
		f := newFixture(t)
		f.stored()
		_, err := f.service.UpdateBooking(context.Background(), f.guest, f.booking.ID, UpdateBookingRequest{CheckInDate: strPtr("2026-06-05")})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("guests over capacity", func(t *testing.T) {
		f := newFixture(t)
		f.stored()
		_, err := f.service.UpdateBooking(context.Background(), f.guest, f.booking.ID, UpdateBookingRequest{Guests: intPtr(5)})
		assert.ErrorIs(t, err, ErrTooManyGuests)
	})

	t.Run("overlap on move", func(t *testing.T) {
		f := newFixture(t)
		f.stored()
		f.bookings.On("Update", mock.Anything, mock.Anything, true).Return(repository.ErrOverlap)
		_, err := f.service.UpdateBooking(context.Background(), f.guest, f.booking.ID, UpdateBookingRequest{CheckInDate: strPtr("2026-06-02")})
		assert.ErrorIs(t, err, ErrRoomUnavailable)
	})

	t.Run("recheck disabled", func(t *testing.T) {
		f := newFixture(t)
		f.stored()
		f.service = NewService(f.bookings, f.castles, f.rooms, f.events, false)
		f.bookings.On("Update", mock.Anything, mock.Anything, false).Return(nil)
		_, err := f.service.UpdateBooking(context.Background(), f.guest, f.booking.ID, UpdateBookingRequest{Guests: intPtr(1)})
		require.NoError(t, err)
		f.bookings.AssertExpectations(t)
	})
}

func TestService_DeleteBooking(t *testing.T) {
	f := newFixture(t)
	f.stored()
	f.bookings.On("Delete", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool { return b.ID == f.booking.ID })).Return(nil)

	require.NoError(t, f.service.DeleteBooking(context.Background(), f.owner, f.booking.ID))
	assert.Equal(t, []events.Type{events.BookingDeleted}, f.events.types())
}

func TestService_UpdateBookingStatus(t *testing.T) {
	confirm := UpdateStatusRequest{Status: "confirmed"}
	cancel := UpdateStatusRequest{Status: "cancelled"}

	t.Run("owner confirms", func(t *testing.T) {
		f := newFixture(t)
		f.stored()
		f.bookings.On("UpdateStatus", mock.Anything, f.booking.ID, domain.BookingConfirmed).Return(nil)

		b, err := f.service.UpdateBookingStatus(context.Background(), f.owner, f.booking.ID, confirm)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, b.Status)
		assert.Equal(t, []events.Type{events.BookingConfirmed}, f.events.types())
	})

	t.Run("creator cannot confirm", func(t *testing.T) {
		f := newFixture(t)
		f.stored()
		_, err := f.service.UpdateBookingStatus(context.Background(), f.guest, f.booking.ID, confirm)
		assert.ErrorIs(t, err, policy.ErrForbidden)
	})

	t.Run("creator cancels confirmed", func(t *testing.T) {
		f := newFixture(t)
		f.booking.Status = domain.BookingConfirmed
		f.stored()
		f.bookings.On("UpdateStatus", mock.Anything, f.booking.ID, domain.BookingCancelled).Return(nil)

		b, err := f.service.UpdateBookingStatus(context.Background(), f.guest, f.booking.ID, cancel)
		require.NoError(t, err)
		assert.False(t, b.Active())
		assert.Equal(t, []events.Type{events.BookingCancelled}, f.events.types())
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		f := newFixture(t)
		f.stored()
		_, err := f.service.UpdateBookingStatus(context.Background(), f.other, f.booking.ID, cancel)
		assert.ErrorIs(t, err, policy.ErrForbidden)
	})

	t.Run("invalid transitions", func(t *testing.T) {
		f := newFixture(t)
		f.booking.Status = domain.BookingCancelled
		f.stored()
		for _, req := range []UpdateStatusRequest{confirm, cancel, {Status: "pending"}} {
			_, err := f.service.UpdateBookingStatus(context.Background(), f.admin, f.booking.ID, req)
			assert.ErrorIs(t, err, ErrInvalidTransition, req.Status)
		}
		f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.UpdateBookingStatus(context.Background(), f.admin, f.booking.ID, UpdateStatusRequest{Status: "paid"})
		ae, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	})
}

func TestService_Reads(t *testing.T) {
	t.Run("get booking", func(t *testing.T) {
		f := newFixture(t)
		f.stored()
		_, err := f.service.GetBooking(context.Background(), f.owner, f.booking.ID)
		assert.NoError(t, err)
		_, err = f.service.GetBooking(context.Background(), f.other, f.booking.ID)
		assert.ErrorIs(t, err, policy.ErrForbidden)
	})

	t.Run("user bookings are self or admin", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.On("ListByUser", mock.Anything, f.guest.ID).Return([]domain.Booking{*f.booking}, nil)

		list, err := f.service.ListUserBookings(context.Background(), f.guest, f.guest.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		_, err = f.service.ListUserBookings(context.Background(), f.admin, f.guest.ID)
		assert.NoError(t, err)
		_, err = f.service.ListUserBookings(context.Background(), f.other, f.guest.ID)
		assert.ErrorIs(t, err, policy.ErrForbidden)
	})

	t.Run("castle bookings are owner or admin", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.On("ListByCastle", mock.Anything, f.castle).Return([]domain.Booking{*f.booking}, nil)

		_, err := f.service.ListCastleBookings(context.Background(), f.owner, f.castle)
		assert.NoError(t, err)
		_, err = f.service.ListCastleBookings(context.Background(), f.guest, f.castle)
		assert.ErrorIs(t, err, policy.ErrForbidden)
	})
}

func TestService_GetAvailableRooms(t *testing.T) {
	f := newFixture(t)
	big := domain.Room{ID: uuid.New(), CastleID: f.castle, Capacity: 4}
	small := domain.Room{ID: uuid.New(), CastleID: f.castle, Capacity: 1}
	f.rooms.On("ListByCastle", mock.Anything, f.castle, 0).Return([]domain.Room{*f.room, big, small}, nil)
	f.rooms.On("ListByCastle", mock.Anything, f.castle, 2).Return([]domain.Room{*f.room, big}, nil)
	f.bookings.On("BookedRoomIDs", mock.Anything, f.castle, mock.Anything, mock.Anything).Return([]uuid.UUID{f.room.ID}, nil)

	ids := func(rooms []domain.Room) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(rooms))
		for _, r := range rooms {
			out = append(out, r.ID)
		}
		return out
	}

	rooms, err := f.service.GetAvailableRooms(context.Background(), f.castle, AvailabilityQuery{CheckInDate: "2026-06-02", CheckOutDate: "2026-06-04", Guests: "2"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{big.ID}, ids(rooms))

	rooms, err = f.service.GetAvailableRooms(context.Background(), f.castle, AvailabilityQuery{})
	require.NoError(t, err)
	assert.Len(t, rooms, 3)

	rooms, err = f.service.GetAvailableRooms(context.Background(), f.castle, AvailabilityQuery{CheckInDate: "2026-06-04", CheckOutDate: "2026-06-02", Guests: "2"})
	require.NoError(t, err)
	assert.Len(t, rooms, 2, "inverted dates skip the date filter")

	_, err = f.service.GetAvailableRooms(context.Background(), f.castle, AvailabilityQuery{Guests: "two"})
	assert.ErrorIs(t, err, ErrInvalidGuests)

	missing := uuid.New()
	f.castles.On("OwnerID", mock.Anything, missing).Return(uuid.Nil, repository.ErrNotFound)
	_, err = f.service.GetAvailableRooms(context.Background(), missing, AvailabilityQuery{})
	assert.ErrorIs(t, err, ErrCastleNotFound)

	f.bookings.AssertNumberOfCalls(t, "BookedRoomIDs", 1)
}
