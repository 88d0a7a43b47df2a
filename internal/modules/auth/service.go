package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"castlebooking/internal/domain"
	"castlebooking/internal/pkg/validator"
	"castlebooking/internal/policy"
	"castlebooking/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service contains all business logic for authentication
type Service struct {
	users      UserRepository
	tokens     TokenIssuer
	bcryptCost int
	// dummyHash is compared against on unknown emails so both login
	// failures take the same time.
	dummyHash []byte
}

func NewService(users UserRepository, tokens TokenIssuer, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	email := req.Email

	taken, err := s.users.EmailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         domain.RoleGuest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*UserPublic, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := toPublic(user)
	return &out, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]UserPublic, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserPublic, 0, len(users))
	for i := range users {
		out = append(out, toPublic(&users[i]))
	}
	return out, nil
}

func (s *Service) UpdateUser(ctx context.Context, actor policy.Actor, userID uuid.UUID, req UpdateUserRequest) (*UserPublic, error) {
	if req.Empty() {
		return nil, ErrNoChanges
	}
	if req.Email != nil {
		email := domain.NormalizeEmail(*req.Email)
		req.Email = &email
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.UserOwners(user.ID), actor); err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := *req.Email
		taken, err := s.users.EmailTaken(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = email
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Image != nil {
		user.Image = strings.TrimSpace(*req.Image)
	}
	if req.Password != nil {
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	out := toPublic(user)
	return &out, nil
}

func (s *Service) UpdateRole(ctx context.Context, userID uuid.UUID, rawRole string) (*UserPublic, error) {
	role, err := domain.ParseUserRole(rawRole)
	if err != nil {
		return nil, ErrInvalidRole
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Profile(ctx, userID)
}

func (s *Service) DeleteUser(ctx context.Context, actor policy.Actor, userID uuid.UUID) error {
	if err := policy.Authorize(policy.UserOwners(userID), actor); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *Service) getUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *Service) issue(user *domain.User) (*AuthResponse, error) {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	token, err := s.tokens.GenerateToken(user.ID, name, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{User: toPublic(user), Token: token}, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
