package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"castlebooking/internal/middleware"
	"castlebooking/internal/pkg/apperror"
	"castlebooking/internal/pkg/response"
	"castlebooking/internal/policy"
	"castlebooking/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var ErrCastleNotFound = apperror.NotFound("CASTLE_NOT_FOUND", "Castle not found")

type OwnerLookup interface {
	OwnerID(ctx context.Context, castleID uuid.UUID) (uuid.UUID, error)
}

type Handler struct {
	hub      *Hub
	owners   OwnerLookup
	upgrader websocket.Upgrader
}

// NewHandler accepts connections from any origin listed in allowedOrigins,
// or from any origin when the list is empty.
func NewHandler(hub *Hub, owners OwnerLookup, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub:    hub,
		owners: owners,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// RegisterRoutes mounts the stream; auth must accept ?token= since browsers
// cannot set headers on WebSocket requests.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	r.GET("/ws/castles/:castleId/bookings", auth, h.CastleBookings)
}

func (h *Handler) CastleBookings(c *gin.Context) {
	castleID, err := middleware.UUIDParam(c, "castleId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	owner, err := h.owners.OwnerID(c.Request.Context(), castleID)
	if errors.Is(err, repository.ErrNotFound) {
		response.FromError(c, ErrCastleNotFound)
		return
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := policy.Authorize([]uuid.UUID{owner}, middleware.Actor(c)); err != nil {
		response.FromError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed castle_id=%s error=%q", castleID, err.Error())
		return
	}

	client := h.hub.register(castleID, conn)
	defer h.hub.unregister(castleID, client)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go keepAlive(client, done)

	// inbound frames are ignored; reading drives pong and close handling
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// keepAlive pings at pingPeriod so an idle subscriber's pong keeps
// extending the read deadline.
func keepAlive(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
