package catalog

import (
	"context"
	"errors"
	"strings"

	"castlebooking/internal/domain"
	"castlebooking/internal/pkg/utils"
	"castlebooking/internal/pkg/validator"
	"castlebooking/internal/policy"
	"castlebooking/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	castles CastleRepository
	rooms   RoomRepository
}

func NewService(castles CastleRepository, rooms RoomRepository) *Service {
	return &Service{castles: castles, rooms: rooms}
}

/* ---------- CASTLE ---------- */

func (s *Service) CreateCastle(ctx context.Context, actor policy.Actor, req CreateCastleRequest) (*domain.Castle, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if err := validateCastleTags(req.Amenities, req.Facilities, req.Events); err != nil {
		return nil, err
	}

	owner := actor.ID
	if req.OwnerID != nil && *req.OwnerID != actor.ID {
		if !actor.IsAdmin() {
			return nil, ErrOwnerChange
		}
		owner = *req.OwnerID
	}

	castle := &domain.Castle{
		OwnerID:            owner,
		Name:               strings.TrimSpace(req.Name),
		Description:        strings.TrimSpace(req.Description),
		Address:            strings.TrimSpace(req.Address),
		Country:            strings.TrimSpace(req.Country),
		Images:             utils.CleanList(req.Images),
		Events:             utils.CleanList(req.Events),
		Facilities:         utils.CleanList(req.Facilities),
		Amenities:          utils.CleanList(req.Amenities),
		HouseRules:         utils.CleanList(req.HouseRules),
		SafetyFeatures:     utils.CleanList(req.SafetyFeatures),
		CheckIn:            req.CheckIn,
		CheckOut:           req.CheckOut,
		CancellationPolicy: domain.CancellationPolicy(req.CancellationPolicy),
		BookingIDs:         []uuid.UUID{},
	}
	if err := s.castles.Create(ctx, castle); err != nil {
		return nil, err
	}
	castle.Rooms = []domain.Room{}
	return castle, nil
}

func (s *Service) ListCastles(ctx context.Context) ([]domain.Castle, error) {
	return s.castles.List(ctx)
}

func (s *Service) GetCastle(ctx context.Context, id uuid.UUID) (*domain.Castle, error) {
	castle, err := s.castles.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCastleNotFound
	}
	return castle, err
}

func (s *Service) UpdateCastle(ctx context.Context, actor policy.Actor, id uuid.UUID, req UpdateCastleRequest) (*domain.Castle, error) {
	if req.Empty() {
		return nil, ErrNoChanges
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if err := validateCastleTags(req.Amenities, req.Facilities, req.Events); err != nil {
		return nil, err
	}

	castle, err := s.GetCastle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.CastleOwners(castle), actor); err != nil {
		return nil, err
	}
	if req.OwnerID != nil && *req.OwnerID != castle.OwnerID {
		if !actor.IsAdmin() {
			return nil, ErrOwnerChange
		}
		castle.OwnerID = *req.OwnerID
	}

	if req.Name != nil {
		castle.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		castle.Description = strings.TrimSpace(*req.Description)
	}
	if req.Address != nil {
		castle.Address = strings.TrimSpace(*req.Address)
	}
	if req.Country != nil {
		castle.Country = strings.TrimSpace(*req.Country)
	}
	if req.Images != nil {
		castle.Images = utils.CleanList(req.Images)
	}
	if req.Events != nil {
		castle.Events = utils.CleanList(req.Events)
	}
	if req.Facilities != nil {
		castle.Facilities = utils.CleanList(req.Facilities)
	}
	if req.Amenities != nil {
		castle.Amenities = utils.CleanList(req.Amenities)
	}
	if req.HouseRules != nil {
		castle.HouseRules = utils.CleanList(req.HouseRules)
	}
	if req.SafetyFeatures != nil {
		castle.SafetyFeatures = utils.CleanList(req.SafetyFeatures)
	}
	if req.CheckIn != nil {
		castle.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		castle.CheckOut = *req.CheckOut
	}
	if req.CancellationPolicy != nil {
		castle.CancellationPolicy = domain.CancellationPolicy(*req.CancellationPolicy)
	}

	if err := s.castles.Update(ctx, castle); err != nil {
		return nil, err
	}
	return castle, nil
}

func (s *Service) DeleteCastle(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	castle, err := s.GetCastle(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(policy.CastleOwners(castle), actor); err != nil {
		return err
	}
	if err := s.castles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCastleNotFound
		}
		return err
	}
	return nil
}

/* ---------- ROOM ---------- */

func (s *Service) CreateRoom(ctx context.Context, actor policy.Actor, castleID uuid.UUID, req CreateRoomRequest) (*domain.Room, error) {
	castle, err := s.GetCastle(ctx, castleID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.CastleOwners(castle), actor); err != nil {
		return nil, err
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if unknown := domain.RoomAmenities.Unknown(req.Amenities); len(unknown) > 0 {
		return nil, unknownTags("amenities", unknown)
	}

	room := &domain.Room{
		CastleID:  castle.ID,
		Name:      strings.TrimSpace(req.Name),
		Capacity:  req.Capacity,
		Beds:      req.Beds,
		Amenities: utils.CleanList(req.Amenities),
		Price:     req.Price,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, castleID uuid.UUID) ([]domain.Room, error) {
	if _, err := s.GetCastle(ctx, castleID); err != nil {
		return nil, err
	}
	return s.rooms.ListByCastle(ctx, castleID, 0)
}

// GetRoom returns the room only when it belongs to castleID.
func (s *Service) GetRoom(ctx context.Context, castleID, roomID uuid.UUID) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if room.CastleID != castleID {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *Service) UpdateRoom(ctx context.Context, actor policy.Actor, castleID, roomID uuid.UUID, req UpdateRoomRequest) (*domain.Room, error) {
	if req.Empty() {
		return nil, ErrNoChanges
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if unknown := domain.RoomAmenities.Unknown(req.Amenities); len(unknown) > 0 {
		return nil, unknownTags("amenities", unknown)
	}

	room, err := s.authorizeRoom(ctx, actor, castleID, roomID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Beds != nil {
		room.Beds = req.Beds
	}
	if req.Amenities != nil {
		room.Amenities = utils.CleanList(req.Amenities)
	}
	if req.Price != nil {
		room.Price = *req.Price
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) DeleteRoom(ctx context.Context, actor policy.Actor, castleID, roomID uuid.UUID) error {
	room, err := s.authorizeRoom(ctx, actor, castleID, roomID)
	if err != nil {
		return err
	}
	if err := s.rooms.Delete(ctx, room); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	return nil
}

func (s *Service) authorizeRoom(ctx context.Context, actor policy.Actor, castleID, roomID uuid.UUID) (*domain.Room, error) {
	castle, err := s.GetCastle(ctx, castleID)
	if err != nil {
		return nil, err
	}
	room, err := s.GetRoom(ctx, castleID, roomID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.CastleOwners(castle), actor); err != nil {
		return nil, err
	}
	return room, nil
}

func validateCastleTags(amenities, facilities, events []string) error {
	if unknown := domain.CastleAmenities.Unknown(amenities); len(unknown) > 0 {
		return unknownTags("amenities", unknown)
	}
	if unknown := domain.Facilities.Unknown(facilities); len(unknown) > 0 {
		return unknownTags("facilities", unknown)
	}
	if unknown := domain.Events.Unknown(events); len(unknown) > 0 {
		return unknownTags("events", unknown)
	}
	return nil
}

