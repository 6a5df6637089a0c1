package server

import (
	"errors"

	"backend-carbonwallet/internal/activity"
	"backend-carbonwallet/internal/analytics"
	"backend-carbonwallet/internal/auth"
	"backend-carbonwallet/internal/config"
	"backend-carbonwallet/internal/db"
	"backend-carbonwallet/internal/events"
	"backend-carbonwallet/internal/observability"
	"backend-carbonwallet/internal/profile"
	"backend-carbonwallet/internal/storage"
	"backend-carbonwallet/internal/stream"
	"backend-carbonwallet/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Events *events.Publisher
	Logger *zap.Logger
}

func NewServer(cfg config.Config, pg *pgxpool.Pool, redisClient *redis.Client, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(observability.Middleware())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     pg,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient, log),
		Events: events.NewPublisher(cfg.Brokers(), cfg.KafkaTopic),
		Logger: log,
	}

	registerRoutes(s)
	return s
}

// Close stops the stream relay and flushes event writers.
func (s *Server) Close() error {
	s.Stream.Close()
	return s.Events.Close()
}

func (s *Server) querier() db.Querier {
	if s.DB == nil {
		return nil
	}
	return s.DB
}

func (s *Server) trackingStore() tracking.Store {
	if s.Redis != nil {
		return tracking.NewRedisStore(s.Redis)
	}
	return tracking.NewPostgresStore(s.querier())
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", observability.Handler())

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	q := s.querier()

	profiles := profile.NewService(profile.NewPostgresStore(q))
	var publisher activity.EventPublisher
	if s.Events.Enabled() {
		publisher = s.Events
	}
	activities := activity.NewService(activity.NewPostgresStore(q), profiles, publisher, s.Logger.Named("activity"))
	sessions := tracking.NewService(s.trackingStore(), activities, s.Stream, s.Logger.Named("tracking"))

	authSvc := auth.NewService(s.Cfg.JWTSecret, q)

	auth.RegisterRoutes(s.App.Group("/auth"), authSvc, jwtMiddleware)
	profile.RegisterRoutes(s.App.Group("/profile"), profiles, jwtMiddleware)
	activity.RegisterRoutes(s.App.Group("/activities"), activities, jwtMiddleware)
	analytics.RegisterRoutes(s.App.Group("/analytics"), analytics.NewService(activities), jwtMiddleware)
	tracking.RegisterRoutes(s.App.Group("/tracking"), sessions, jwtMiddleware)
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(q, profiles, s.Cfg.StorageBaseURL), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, streamAuthorizer(authSvc, sessions))
}

// streamAuthorizer admits a websocket only with an access token belonging to
// the session's owner. The token travels as ?token= on the upgrade request.
func streamAuthorizer(tokens *auth.Service, sessions *tracking.Service) stream.Authorizer {
	return func(c *fiber.Ctx, sessionID string) error {
		userID, err := tokens.ValidateAccessToken(c.Query("token"))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		if _, err := sessions.Get(c.Context(), userID, sessionID); err != nil {
			if errors.Is(err, tracking.ErrSessionNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return nil
	}
}
