package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"devevent/config"
	_ "devevent/docs"
	"devevent/internal/adapters/email"
	"devevent/internal/database"
	deliveryhttp "devevent/internal/delivery/http"
	"devevent/internal/delivery/http/controllers"
	"devevent/internal/delivery/http/middleware"
	"devevent/internal/domain"
	"devevent/internal/repository/cache"
	mongorepo "devevent/internal/repository/mongo"
	"devevent/internal/repository/postgres"
	"devevent/internal/services"
)

// @title devevent API
// @version 1.0
// @description Developer event listings and bookings.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	store := newStore(cfg.DBUrl)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.reset(ctx); err != nil {
			logger.Error("close database", "err", err)
		}
	}()

	eventRepo := store.events
	if cfg.RedisURL != "" {
		rdb, err := newRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Error("redis disabled", "err", err)
		} else {
			defer rdb.Close()
			eventRepo = cache.NewEventRepository(eventRepo, rdb, cfg.EventCacheTTL, logger)
			logger.Info("event cache enabled", "ttl", cfg.EventCacheTTL)
		}
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	eventService := services.NewEventService(eventRepo, cfg.RequestTimeout)
	bookingService := services.NewBookingService(store.bookings, eventRepo, emailService, logger, cfg.RequestTimeout)

	router := deliveryhttp.NewRouter(
		controllers.NewEventController(logger, eventService),
		controllers.NewBookingController(logger, bookingService),
	)
	var handler http.Handler = router
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment, "driver", database.DriverFor(cfg.DBUrl))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	logger.Info("server stopped")
}

// store bundles the repositories of the configured database with the
// function that releases its connection.
type store struct {
	events   domain.EventRepository
	bookings domain.BookingRepository
	reset    func(context.Context) error
}

// newStore picks the driver from the connection string scheme. No I/O
// happens here; the first request connects.
func newStore(uri string) store {
	if database.DriverFor(uri) == database.DriverMongo {
		m := database.NewManager[*mongo.Database](uri, database.ConnectMongo, database.CloseMongo)
		return store{
			events:   mongorepo.NewEventRepository(m),
			bookings: mongorepo.NewBookingRepository(m),
			reset:    m.Reset,
		}
	}
	m := database.NewManager[*sql.DB](uri, database.ConnectPostgres, database.ClosePostgres)
	return store{
		events:   postgres.NewEventRepository(m),
		bookings: postgres.NewBookingRepository(m),
		reset:    m.Reset,
	}
}

func newRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
