package policy

import (
	"testing"

	"castlebooking/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	creator, owner, stranger := uuid.New(), uuid.New(), uuid.New()
	b := &domain.Booking{UserID: creator}
	owners := BookingOwners(b, owner)

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"creator", Actor{ID: creator, Role: domain.RoleGuest}, true},
		{"castle owner", Actor{ID: owner, Role: domain.RoleOwner}, true},
		{"admin", Actor{ID: stranger, Role: domain.RoleAdmin}, true},
		{"other guest", Actor{ID: stranger, Role: domain.RoleGuest}, false},
		{"other owner", Actor{ID: stranger, Role: domain.RoleOwner}, false},
		{"anonymous", Actor{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(owners, tt.actor))
		})
	}
}

func TestCanMutate_NilOwnerNeverMatchesAnonymous(t *testing.T) {
	assert.False(t, CanMutate([]uuid.UUID{uuid.Nil}, Actor{}))
}

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	castle := &domain.Castle{OwnerID: owner}

	assert.NoError(t, Authorize(CastleOwners(castle), Actor{ID: owner, Role: domain.RoleOwner}))
	assert.ErrorIs(t, Authorize(CastleOwners(castle), Actor{ID: uuid.New(), Role: domain.RoleOwner}), ErrForbidden)
	assert.NoError(t, Authorize(UserOwners(owner), Actor{ID: owner}))
}
