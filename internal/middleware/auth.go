package middleware

import (
	"net/http"
	"strings"

	"castlebooking/internal/domain"
	"castlebooking/internal/pkg/jwt"
	"castlebooking/internal/pkg/response"
	"castlebooking/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxName   = "name"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// JWTAuth requires a valid bearer token and stores the caller's identity in
// the context.
func JWTAuth(tokens TokenValidator) gin.HandlerFunc {
	return authenticate(tokens, false)
}

// JWTAuthWithQuery is JWTAuth that also accepts ?token= for clients that
// cannot set headers, such as browser WebSocket connections.
func JWTAuthWithQuery(tokens TokenValidator) gin.HandlerFunc {
	return authenticate(tokens, true)
}

func authenticate(tokens TokenValidator, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" && allowQuery && c.Query("token") != "" {
			h = "Bearer " + c.Query("token")
		}
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Empty token")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, domain.UserRole(claims.Role))
		c.Set(ctxName, claims.Name)

		c.Next()
	}
}

// UserID returns the authenticated caller's id, or uuid.Nil.
func UserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func Role(c *gin.Context) domain.UserRole {
	if v, ok := c.Get(ctxRole); ok {
		if r, ok := v.(domain.UserRole); ok {
			return r
		}
	}
	return ""
}

// Actor is the caller as seen by the authorization policy.
func Actor(c *gin.Context) policy.Actor {
	return policy.Actor{ID: UserID(c), Role: Role(c)}
}
