package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/backspace-weather/internal/api/http"
	"github.com/i474232898/backspace-weather/internal/config"
	"github.com/i474232898/backspace-weather/internal/location"
	"github.com/i474232898/backspace-weather/internal/logging"
	"github.com/i474232898/backspace-weather/internal/scheduler"
	"github.com/i474232898/backspace-weather/internal/store"
	"github.com/i474232898/backspace-weather/internal/weather"
	"github.com/i474232898/backspace-weather/internal/weather/providers"
)

const serviceName = "backspace-weather"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	opts := providers.Options{
		UserAgent: cfg.UserAgent,
		Breaker:   cfg.UpstreamBreaker,
		Logger:    zl,
	}

	// Google when a key is configured, Nominatim otherwise.
	var geocoder location.Geocoder
	if cfg.GoogleGeocoderAPIKey != "" {
		geocoder = providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey)
	} else {
		geocoder = providers.NewNominatimGeocoder(cfg.GeocodeBaseURL, cfg.GeocodeTimeout, opts)
	}
	resolver := location.NewResolver(geocoder, cfg.GeocodeTimeout, zl)

	reanalysis := providers.NewNASAPowerProvider(cfg.NASAPowerBaseURL, cfg.WeatherTimeout, opts)
	forecast := providers.NewOpenMeteoProvider(cfg.ForecastBaseURL, cfg.WeatherTimeout, opts)

	// In-memory probe store with configured retention.
	probes := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	service := weather.NewService(resolver, reanalysis, forecast,
		weather.WithSentinels(cfg.MissingSentinels),
		weather.WithDefaultLocation(cfg.DefaultLocation),
		weather.WithProbeStore(probes),
		weather.WithLogger(zl),
	)

	// Scheduler that periodically probes the upstreams.
	sched := scheduler.New(cfg.ProbeInterval, cfg.WeatherTimeout+cfg.GeocodeTimeout, service, zl)
	if err := sched.Start(); err != nil {
		zl.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler:          httpapi.NewErrorHandler(zl),
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
			"probes":  probes.Latest(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, probes, zl)

	go func() {
		zl.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Warn("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
}
