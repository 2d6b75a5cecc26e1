package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/hotel-front-desk/internal/config"
	"github.com/iliyamo/hotel-front-desk/internal/events"
	"github.com/iliyamo/hotel-front-desk/internal/handler"
	"github.com/iliyamo/hotel-front-desk/internal/jobs"
	"github.com/iliyamo/hotel-front-desk/internal/middleware"
	"github.com/iliyamo/hotel-front-desk/internal/queue"
	"github.com/iliyamo/hotel-front-desk/internal/realtime"
	"github.com/iliyamo/hotel-front-desk/internal/repository"
	"github.com/iliyamo/hotel-front-desk/internal/router"
	"github.com/iliyamo/hotel-front-desk/internal/service"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg.Env, cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	storeOpts := repository.Options{Latency: repository.UniformLatency(cfg.StoreLatencyMin, cfg.StoreLatencyMax)}
	rooms := repository.NewRoomRepo(storeOpts)
	guests := repository.NewGuestRepo(storeOpts)
	reservations := repository.NewReservationRepo(storeOpts)
	if cfg.SeedDemoData {
		repository.SeedDemo(rooms, guests, reservations)
		logger.Info("demo data loaded")
	}

	bus := events.NewBus(logger.Named("events"))
	desk := service.New(rooms, guests, reservations,
		service.WithPublisher(bus),
		service.WithLogger(logger.Named("frontdesk")),
		service.WithLocation(cfg.Location),
	)

	g, ctx := errgroup.WithContext(ctx)

	hub := realtime.NewHub(logger.Named("realtime"))
	bus.Subscribe("realtime", hub.Publish)
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	if cfg.AMQP.Enabled {
		pub := queue.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger.Named("rabbitmq"))
		bus.Subscribe("rabbitmq", pub.Publish)
		g.Go(func() error { return ignoreCancel(pub.Run(ctx)) })

		activity, err := config.RotatingFile(cfg.LogDir, "activity.log")
		if err != nil {
			return err
		}
		defer func() { _ = activity.Close() }()
		consumer := queue.NewActivityConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, activity, logger.Named("activity"))
		g.Go(func() error { return ignoreCancel(consumer.Run(ctx)) })
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, response cache and rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}
	cache := middleware.NewRedisCache(cfg.Cache, rdb, logger.Named("cache"))
	bus.Subscribe("cache", cache.OnEvent)

	if cfg.NightAudit.Enabled {
		audit := jobs.NewNightAudit(desk, bus, logger.Named("night-audit"))
		if err := audit.Start(cfg.NightAudit.Schedule, cfg.Location, cfg.NightAudit.Timeout); err != nil {
			return err
		}
		defer audit.Stop(context.Background())
	}

	e := newServer(cfg, logger)
	apiMW := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(cfg.RateLimit, rdb, logger.Named("ratelimit")),
		cache.Middleware(),
	}
	router.RegisterRoutes(e)
	router.RegisterRooms(e, handler.NewRoomHandler(desk), apiMW...)
	router.RegisterGuests(e, handler.NewGuestHandler(desk), apiMW...)
	router.RegisterReservations(e, handler.NewReservationHandler(desk), apiMW...)
	router.RegisterReports(e, handler.NewReportHandler(desk), apiMW...)
	router.RegisterRealtime(e, hub.Handler(cfg.CORSAllowedOrigins))

	addr := ":" + cfg.Port
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("timezone", cfg.Location.String()))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newServer(cfg config.Config, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = service.Validator{}
	e.HTTPErrorHandler = handler.ErrorHandler(logger.Named("http"))

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(middleware.RequestLogger(logger.Named("http")))
	return e
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
