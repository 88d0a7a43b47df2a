package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	s := New("test-secret", 30*time.Minute)
	id := uuid.New()

	token, err := s.GenerateToken(id, "Ada Lovelace", "owner")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "Ada Lovelace", claims.Name)
	assert.Equal(t, "owner", claims.Role)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("secret-a", time.Minute).GenerateToken(uuid.New(), "x", "guest")
	require.NoError(t, err)

	_, err = New("secret-b", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	s := New("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := s.GenerateToken(uuid.New(), "x", "guest")
	require.NoError(t, err)

	_, err = New("secret", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: uuid.New(),
		Role:   "admin",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, claims).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = New("secret", time.Minute).ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := New("secret", time.Minute).ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
