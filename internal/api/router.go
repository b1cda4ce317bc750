package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/devconnector/connector-api/docs"
	"github.com/devconnector/connector-api/internal/api/handler"
	"github.com/devconnector/connector-api/internal/api/middleware"
	"github.com/devconnector/connector-api/internal/core/ports"
	"github.com/devconnector/connector-api/internal/core/service"
	mongorepo "github.com/devconnector/connector-api/internal/infrastructure/db/mongo"
	redisstore "github.com/devconnector/connector-api/internal/infrastructure/db/redis"
	"github.com/devconnector/connector-api/internal/pkg/config"
	"github.com/devconnector/connector-api/internal/pkg/token"
)

// NewRouter wires repositories, services and handlers and returns the Echo
// instance with all routes registered. serial orders writes to the same post.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	serial ports.Serializer,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	// --- Dependencies ---
	users := mongorepo.NewUserRepository(db)
	posts := mongorepo.NewPostRepository(db)
	revocations := redisstore.NewRevocationStore(rdb)
	tokens := token.NewManager(cfg.JWTSecret, cfg.Auth.TokenTTL)

	authService := service.NewAuthService(users, tokens, revocations, cfg.Auth.BcryptCost, log)
	postService := service.NewPostService(posts, users, serial, cfg.Posts.ExclusiveReactions, log)

	return newServer(serverDeps{
		auth:       authService,
		posts:      postService,
		authHeader: cfg.Auth.Header,
		checks: map[string]handler.Check{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
		log:        log,
	})
}

type serverDeps struct {
	auth       ports.AuthService
	posts      ports.PostService
	authHeader string
	checks     map[string]handler.Check
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	log        zerolog.Logger
}

func newServer(deps serverDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: deps.registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.checks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(deps.auth)
	postHandler := handler.NewPostHandler(deps.posts)
	gate := middleware.Auth(deps.auth, deps.authHeader)

	api := e.Group("/api")

	// --- Account routes ---
	api.POST("/users", authHandler.Register)
	api.POST("/auth", authHandler.Login)
	api.GET("/auth", authHandler.Me, gate)
	api.POST("/auth/logout", authHandler.Logout, gate)

	// --- Post routes ---
	p := api.Group("/posts", gate)
	p.POST("", postHandler.Create)
	p.GET("", postHandler.List)
	p.GET("/:id", postHandler.Get)
	p.DELETE("/:id", postHandler.Delete)
	p.PUT("/like/:id", postHandler.Like)
	p.PUT("/unlike/:id", postHandler.Unlike)
	p.PUT("/dislike/:id", postHandler.Dislike)
	p.PUT("/undislike/:id", postHandler.Undislike)
	p.POST("/comment/:id", postHandler.Comment)
	p.DELETE("/comment/:id/:comment_id", postHandler.DeleteComment)

	return e
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
