package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpapi "github.com/i474232898/weather-widget/internal/api/http"
	"github.com/i474232898/weather-widget/internal/config"
	"github.com/i474232898/weather-widget/internal/logging"
	"github.com/i474232898/weather-widget/internal/metrics"
	"github.com/i474232898/weather-widget/internal/scheduler"
	"github.com/i474232898/weather-widget/internal/store"
	"github.com/i474232898/weather-widget/internal/terminal"
	"github.com/i474232898/weather-widget/internal/weather/providers"
	"github.com/i474232898/weather-widget/internal/widget"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info", "console", os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	m := metrics.New()

	client := providers.NewOpenWeatherClient(httpClient, providers.Options{
		APIKey:       cfg.OpenWeatherAPIKey,
		BaseURL:      cfg.OpenWeatherURL,
		ForecastDays: cfg.ForecastDays,
		Metrics:      m,
	})

	var backend store.Backend
	switch cfg.PrefsBackend {
	case "memory":
		backend = store.NewMemoryBackend(cfg.PrefsMemoryMB, cfg.PrefsCacheDuration)
	default:
		backend = store.NewFileBackend(cfg.PrefsPath)
	}
	prefs := store.NewPreferences(backend, cfg.PrefsCacheDuration, cfg.DefaultUnits, store.WithMetrics(m))

	view := httpapi.NewViewPresenter()
	presenters := widget.MultiPresenter{view}
	if cfg.Terminal {
		presenters = append(presenters, terminal.NewPresenter(os.Stdout))
	}

	orch := widget.New(client, cfg.Locator(), prefs, presenters, widget.Options{
		DefaultCity:   cfg.DefaultCity,
		DebounceDelay: cfg.DebounceDelay,
		GeoTimeout:    cfg.GeoTimeout,
	}, widget.WithMetrics(m), widget.WithLogger(logging.Component(log, "widget")))
	defer orch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial load; failures leave the widget in its error state.
	if err := orch.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("initial load did not succeed")
	}

	// Scheduler that periodically refreshes the shown city.
	sched := scheduler.New(orch, cfg.RefreshInterval, logging.Component(log, "scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := newApp(log)

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-widget",
			"state":   orch.State().Status,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	// API routes.
	httpapi.RegisterRoutes(app, orch, view, logging.Component(log, "http"))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	if cfg.Terminal {
		go func() {
			if err := terminal.Run(ctx, os.Stdin, os.Stdout, orch, logging.Component(log, "terminal")); err != nil {
				log.Error().Err(err).Msg("terminal input failed")
			}
			stop()
		}()
	}

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}

func newApp(log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-widget",
		Immutable:             true,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          15 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	return app
}
