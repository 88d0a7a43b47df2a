package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"castlebooking/internal/domain"
	"castlebooking/internal/events"
	"castlebooking/internal/middleware"
	"castlebooking/internal/pkg/jwt"
	"castlebooking/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type owners map[uuid.UUID]uuid.UUID

func (o owners) OwnerID(_ context.Context, castleID uuid.UUID) (uuid.UUID, error) {
	id, ok := o[castleID]
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	return id, nil
}

type harness struct {
	hub    *Hub
	server *httptest.Server
	tokens *jwt.Service
}

func newHarness(t *testing.T, castles owners) *harness {
	gin.SetMode(gin.TestMode)
	tokens := jwt.New("ws-secret", time.Hour)
	hub := NewHub()

	router := gin.New()
	NewHandler(hub, castles, nil).RegisterRoutes(&router.RouterGroup, middleware.JWTAuthWithQuery(tokens))

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return &harness{hub: hub, server: server, tokens: tokens}
}

func (h *harness) url(castleID uuid.UUID, token string) string {
	return "ws" + strings.TrimPrefix(h.server.URL, "http") + "/ws/castles/" + castleID.String() + "/bookings?token=" + token
}

func (h *harness) token(t *testing.T, id uuid.UUID, role domain.UserRole) string {
	tok, err := h.tokens.GenerateToken(id, "x", string(role))
	require.NoError(t, err)
	return tok
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_OwnerReceivesCastleEvents(t *testing.T) {
	ownerID, castleID, otherCastle := uuid.New(), uuid.New(), uuid.New()
	h := newHarness(t, owners{castleID: ownerID, otherCastle: uuid.New()})

	conn, _, err := websocket.DefaultDialer.Dial(h.url(castleID, h.token(t, ownerID, domain.RoleOwner)), nil)
	require.NoError(t, err)
	defer conn.Close()
	waitFor(t, func() bool { return h.hub.Subscribers(castleID) == 1 })

	b := &domain.Booking{ID: uuid.New(), CastleID: castleID}
	require.NoError(t, h.hub.Publish(context.Background(), events.New(events.BookingCreated, uuid.New(), &domain.Booking{CastleID: otherCastle})))
	require.NoError(t, h.hub.Publish(context.Background(), events.New(events.BookingCreated, uuid.New(), b)))

	var got events.Event
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, events.BookingCreated, got.Type)
	assert.Equal(t, b.ID, got.Booking.ID, "events of other castles are not delivered")
}

func TestHub_UnregistersOnClose(t *testing.T) {
	ownerID, castleID := uuid.New(), uuid.New()
	h := newHarness(t, owners{castleID: ownerID})

	conn, _, err := websocket.DefaultDialer.Dial(h.url(castleID, h.token(t, uuid.New(), domain.RoleAdmin)), nil)
	require.NoError(t, err)
	waitFor(t, func() bool { return h.hub.Subscribers(castleID) == 1 })

	require.NoError(t, conn.Close())
	waitFor(t, func() bool { return h.hub.Subscribers(castleID) == 0 })
}

func TestHandler_PingsKeepIdleSubscriberAlive(t *testing.T) {
	prevWait, prevPeriod := pongWait, pingPeriod
	pongWait, pingPeriod = 300*time.Millisecond, 100*time.Millisecond
	t.Cleanup(func() { pongWait, pingPeriod = prevWait, prevPeriod })

	ownerID, castleID := uuid.New(), uuid.New()
	h := newHarness(t, owners{castleID: ownerID})

	conn, _, err := websocket.DefaultDialer.Dial(h.url(castleID, h.token(t, ownerID, domain.RoleOwner)), nil)
	require.NoError(t, err)

	var pings atomic.Int32
	conn.SetPingHandler(func(data string) error {
		pings.Add(1)
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	waitFor(t, func() bool { return h.hub.Subscribers(castleID) == 1 })

	time.Sleep(2 * pongWait)
	assert.GreaterOrEqual(t, pings.Load(), int32(2))
	assert.Equal(t, 1, h.hub.Subscribers(castleID), "idle subscriber outlives the read deadline")

	require.NoError(t, conn.Close())
	waitFor(t, func() bool { return h.hub.Subscribers(castleID) == 0 })
}

func TestHandler_RejectsStrangersAndUnknownCastles(t *testing.T) {
	ownerID, castleID := uuid.New(), uuid.New()
	h := newHarness(t, owners{castleID: ownerID})

	_, resp, err := websocket.DefaultDialer.Dial(h.url(castleID, h.token(t, uuid.New(), domain.RoleOwner)), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(h.url(uuid.New(), h.token(t, ownerID, domain.RoleOwner)), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(h.url(castleID, "garbage"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
