package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/response"
)

type RouterConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
	RateLimit        int
	RateBurst        int
}

// NewRouter wires middleware and the /api/v1 routes. ctx bounds background
// work owned by the middleware.
func NewRouter(
	ctx context.Context,
	h *Handler,
	auth middleware.Authenticator,
	reg *prometheus.Registry,
	cfg RouterConfig,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.NewMetrics(reg).Handler())
	router.Use(middleware.NewHTTPRateLimitPerIP(ctx, cfg.RateLimit, cfg.RateBurst, 10_000, time.Hour))

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	verify := middleware.VerifyJWT(auth)
	api := router.Group("/api/v1")

	users := api.Group("/users")
	users.POST("/register", h.Register)
	users.POST("/login", h.Login)
	users.POST("/refresh-access-token", h.RefreshAccessToken)
	users.GET("/channel/:username", middleware.OptionalAuth(auth), h.ChannelProfile)

	secured := users.Group("", verify)
	secured.POST("/logout", h.Logout)
	secured.POST("/change-password", h.ChangePassword)
	secured.PATCH("/change-password", h.ChangePassword)
	secured.GET("/current-user", h.CurrentUser)
	secured.PATCH("/update-account-details", h.UpdateAccountDetails)
	secured.PATCH("/update-avatar", h.UpdateAvatar)
	secured.PATCH("/update-cover-image", h.UpdateCoverImage)
	secured.GET("/watch-history", h.WatchHistory)

	subs := api.Group("/subscriptions", verify)
	subs.POST("/c/:channelId", h.ToggleSubscription)
	subs.GET("/c/:channelId", h.ChannelSubscribers)
	subs.GET("/u/:subscriberId", h.SubscribedChannels)

	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		response.Abort(c, http.StatusNotFound, "route not found")
	})
	router.NoMethod(func(c *gin.Context) {
		response.Abort(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}
