package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"conduit-api/internal/app"
	"conduit-api/internal/bootstrap"
	"conduit-api/internal/cache"
	"conduit-api/internal/pkg/jwtutil"
	"conduit-api/internal/platform/rabbitmq"
	"conduit-api/internal/repository"
	"conduit-api/internal/transport/http/handler"
	"conduit-api/internal/transport/http/middleware"
)

// Handlers groups the /api handlers so routes can be mounted without the
// backing infrastructure.
type Handlers struct {
	Users    *handler.UserHandler
	Profiles *handler.ProfileHandler
	Tags     *handler.TagHandler
	Debug    *handler.DebugHandler
}

func NewRouter(a *bootstrap.App) *gin.Engine {
	cfg := a.Config
	gin.SetMode(cfg.App.GinMode)
	router := newEngine(cfg.App.TrustedProxies)

	router.GET("/", handler.Root)
	router.GET("/healthz", handler.NewHealthHandler(a).Check)

	userRepo := repository.NewUserRepository(a.MySQL)
	followRepo := repository.NewFollowRepository(a.MySQL)
	tagRepo := repository.NewTagRepository(a.MySQL)
	statsRepo := repository.NewStatsRepository(a.MySQL)

	signer := jwtutil.NewSigner(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute)
	publisher := rabbitmq.NewActivityPublisher(a.MQConn, cfg.RabbitMQ.ActivityQueue)
	tagCache := cache.NewTagCache(a.Redis, time.Duration(cfg.Redis.TagCacheTTLSeconds)*time.Second)

	authService := app.NewAuthService(userRepo, signer, publisher, cfg.Auth.BcryptCost)
	profileService := app.NewProfileService(userRepo, followRepo, publisher)
	tagService := app.NewTagService(userRepo, tagRepo, tagCache)

	handlers := Handlers{
		Users:    handler.NewUserHandler(authService),
		Profiles: handler.NewProfileHandler(profileService),
		Tags:     handler.NewTagHandler(tagService),
		Debug:    handler.NewDebugHandler(statsRepo, fmt.Sprintf("%s:%d/%s", cfg.MySQL.Host, cfg.MySQL.Port, cfg.MySQL.DB)),
	}
	authLimit := middleware.RateLimit(a.Redis, "auth", cfg.Redis.RateLimitMax,
		time.Duration(cfg.Redis.RateLimitWindowSecs)*time.Second)

	mountAPI(router, handlers, cfg.Auth.JWTSecret, authLimit)
	return router
}

// newEngine builds the bare engine. Only trustedProxies may set the client
// address through forwarding headers; the auth rate limit keys on it.
func newEngine(trustedProxies []string) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		logrus.WithError(err).WithField("trusted_proxies", trustedProxies).
			Warn("invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery(), middleware.RequestLogger())
	return router
}

func mountAPI(router gin.IRouter, h Handlers, jwtSecret string, authLimit gin.HandlerFunc) {
	required := middleware.AuthJWT(jwtSecret)
	optional := middleware.OptionalAuthJWT(jwtSecret)

	api := router.Group("/api")

	api.GET("/__debug/db", h.Debug.DB)
	api.GET("/__debug/whoami", optional, h.Debug.WhoAmI)

	api.GET("/tags", optional, h.Tags.List)

	profiles := api.Group("/profiles/:username")
	profiles.GET("", optional, h.Profiles.Get)
	profiles.POST("/follow", required, h.Profiles.Follow)
	profiles.DELETE("/follow", required, h.Profiles.Unfollow)

	api.POST("/users", authLimit, h.Users.Register)
	api.POST("/users/login", authLimit, h.Users.Login)
	api.GET("/user", required, h.Users.Current)
	api.PUT("/user", required, h.Users.Update)
}
