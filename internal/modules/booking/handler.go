package booking

import (
	"net/http"

	"castlebooking/internal/middleware"
	"castlebooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the availability search. Its answer changes
// with every booking, so r must not cache responses.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/castles/:castleId/rooms/available", h.AvailableRooms)
}

// RegisterProtectedRoutes mounts booking reads and writes; r must already
// require a valid token.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/castles/:castleId/rooms/:roomId/bookings", h.CreateBooking)
	r.GET("/castles/:castleId/bookings", h.ListCastleBookings)

	bookings := r.Group("/bookings")
	{
		bookings.GET("", middleware.AdminOnly(), h.ListBookings)
		bookings.GET("/user/:userId", h.ListUserBookings)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.PATCH("/:bookingId", h.UpdateBooking)
		bookings.PUT("/:bookingId", h.UpdateBooking)
		bookings.PATCH("/:bookingId/status", h.UpdateStatus)
		bookings.DELETE("/:bookingId", h.DeleteBooking)
	}
}

func (h *Handler) AvailableRooms(c *gin.Context) {
	castleID, err := middleware.UUIDParam(c, "castleId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var q AvailabilityQuery
	_ = c.ShouldBindQuery(&q)

	rooms, err := h.service.GetAvailableRooms(c.Request.Context(), castleID, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) CreateBooking(c *gin.Context) {
	castleID, err := middleware.UUIDParam(c, "castleId")
	if err != nil {
		response.FromError(c, err)
		return
	}
	roomID, err := middleware.UUIDParam(c, "roomId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), middleware.Actor(c), castleID, roomID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListCastleBookings(c *gin.Context) {
	castleID, err := middleware.UUIDParam(c, "castleId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	list, err := h.service.ListCastleBookings(c.Request.Context(), middleware.Actor(c), castleID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ListBookings(c *gin.Context) {
	list, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ListUserBookings(c *gin.Context) {
	userID, err := middleware.UUIDParam(c, "userId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	list, err := h.service.ListUserBookings(c.Request.Context(), middleware.Actor(c), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := middleware.UUIDParam(c, "bookingId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	id, err := middleware.UUIDParam(c, "bookingId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateBooking(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := middleware.UUIDParam(c, "bookingId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateBookingStatus(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, err := middleware.UUIDParam(c, "bookingId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), middleware.Actor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}
