package catalog

import (
	"net/http"

	"castlebooking/internal/domain"
	"castlebooking/internal/middleware"
	"castlebooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read-only catalog.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/castles", h.ListCastles)
	r.GET("/castles/:castleId", h.GetCastle)
	r.GET("/castles/:castleId/rooms", h.ListRooms)
	r.GET("/castles/:castleId/rooms/:roomId", h.GetRoom)
}

// RegisterProtectedRoutes mounts catalog writes; r must already require a
// valid token.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/castles", middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin), h.CreateCastle)
	r.PATCH("/castles/:castleId", h.UpdateCastle)
	r.PUT("/castles/:castleId", h.UpdateCastle)
	r.DELETE("/castles/:castleId", h.DeleteCastle)

	r.POST("/castles/:castleId/rooms", h.CreateRoom)
	r.PATCH("/castles/:castleId/rooms/:roomId", h.UpdateRoom)
	r.PUT("/castles/:castleId/rooms/:roomId", h.UpdateRoom)
	r.DELETE("/castles/:castleId/rooms/:roomId", h.DeleteRoom)
}

func (h *Handler) ListCastles(c *gin.Context) {
	castles, err := h.service.ListCastles(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"castles": castles})
}

func (h *Handler) GetCastle(c *gin.Context) {
	id, err := middleware.UUIDParam(c, "castleId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	castle, err := h.service.GetCastle(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"castle": castle})
}

func (h *Handler) CreateCastle(c *gin.Context) {
	var req CreateCastleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	castle, err := h.service.CreateCastle(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"castle": castle})
}

func (h *Handler) UpdateCastle(c *gin.Context) {
	id, err := middleware.UUIDParam(c, "castleId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req UpdateCastleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	castle, err := h.service.UpdateCastle(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"castle": castle})
}

func (h *Handler) DeleteCastle(c *gin.Context) {
	id, err := middleware.UUIDParam(c, "castleId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.DeleteCastle(c.Request.Context(), middleware.Actor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) ListRooms(c *gin.Context) {
	castleID, err := middleware.UUIDParam(c, "castleId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), castleID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) GetRoom(c *gin.Context) {
	castleID, roomID, ok := roomParams(c)
	if !ok {
		return
	}

	room, err := h.service.GetRoom(c.Request.Context(), castleID, roomID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

func (h *Handler) CreateRoom(c *gin.Context) {
	castleID, err := middleware.UUIDParam(c, "castleId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), middleware.Actor(c), castleID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	castleID, roomID, ok := roomParams(c)
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	room, err := h.service.UpdateRoom(c.Request.Context(), middleware.Actor(c), castleID, roomID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	castleID, roomID, ok := roomParams(c)
	if !ok {
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), middleware.Actor(c), castleID, roomID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": roomID})
}

func roomParams(c *gin.Context) (castleID, roomID uuid.UUID, ok bool) {
	castle, err := middleware.UUIDParam(c, "castleId")
	if err != nil {
		response.FromError(c, err)
		return castleID, roomID, false
	}
	room, err := middleware.UUIDParam(c, "roomId")
	if err != nil {
		response.FromError(c, err)
		return castleID, roomID, false
	}
	return castle, room, true
}
