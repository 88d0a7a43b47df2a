// Package server assembles repositories, services and handlers into the
// HTTP engine.
package server

import (
	"net/http"

	"castlebooking/internal/config"
	"castlebooking/internal/events"
	"castlebooking/internal/middleware"
	"castlebooking/internal/modules/auth"
	"castlebooking/internal/modules/booking"
	"castlebooking/internal/modules/catalog"
	"castlebooking/internal/pkg/jwt"
	"castlebooking/internal/pkg/response"
	"castlebooking/internal/repository"
	"castlebooking/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	// Redis may be nil; caching and rate limiting are then skipped.
	Redis *redis.Client
	// Publisher receives booking events besides the WebSocket hub. May be nil.
	Publisher events.Publisher
	Hub       *ws.Hub
}

func New(d Deps) *gin.Engine {
	cfg := d.Config
	if d.Hub == nil {
		d.Hub = ws.NewHub()
	}
	publisher := events.Multi{d.Hub}
	if d.Publisher != nil {
		publisher = append(publisher, d.Publisher)
	}

	userRepo := repository.NewUserRepository(d.DB)
	castleRepo := repository.NewCastleRepository(d.DB)
	roomRepo := repository.NewRoomRepository(d.DB)
	bookingRepo := repository.NewBookingRepository(d.DB)

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authHandler := auth.NewHandler(auth.NewService(userRepo, tokens, cfg.BcryptCost))
	catalogHandler := catalog.NewHandler(catalog.NewService(castleRepo, roomRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, castleRepo, roomRepo, publisher, cfg.RecheckOverlapOnUpdate))
	wsHandler := ws.NewHandler(d.Hub, castleRepo, cfg.CORSAllowedOrigins)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	v1 := r.Group("/api/v1")
	v1.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler.RegisterPublicRoutes(v1, middleware.RateLimit(cfg.RateLimit, d.Redis))
	bookingHandler.RegisterPublicRoutes(v1)

	cached := v1.Group("")
	cached.Use(middleware.ResponseCache(cfg.Cache, d.Redis))
	catalogHandler.RegisterPublicRoutes(cached)

	wsHandler.RegisterRoutes(v1, middleware.JWTAuthWithQuery(tokens))

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(tokens))
	protected.Use(middleware.InvalidateCache(cfg.Cache, d.Redis))
	authHandler.RegisterProtectedRoutes(protected)
	catalogHandler.RegisterProtectedRoutes(protected)
	bookingHandler.RegisterProtectedRoutes(protected)

	return r
}
