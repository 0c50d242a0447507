package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/dharmasatrya/flightoffers/internal/app"
	"github.com/dharmasatrya/flightoffers/internal/config"
	"github.com/dharmasatrya/flightoffers/internal/handler"
	"github.com/dharmasatrya/flightoffers/internal/session"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	gw, err := app.NewGateway(cfg, logger)
	if err != nil {
		slog.Error("failed to init search gateway", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	if cfg.InboundRPS > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.InboundRPS))))
	}

	searchHandler := handler.NewSearchHandler(gw.Gateway)
	sessionHandler := handler.NewSessionHandler(session.NewStore(cfg.SessionIdleTTL.Duration), gw.Gateway)

	e.GET("/search", searchHandler.Search)
	e.GET("/stats", searchHandler.Stats)
	e.GET("/airports", handler.AirportsHandler)
	e.GET("/health", handler.HealthHandler)

	sessions := e.Group("/sessions")
	sessions.POST("", sessionHandler.Create)
	sessions.GET("/:id", sessionHandler.Get)
	sessions.DELETE("/:id", sessionHandler.Delete)
	sessions.POST("/:id/search", sessionHandler.Search)
	sessions.PUT("/:id/filters", sessionHandler.SetFilters)
	sessions.POST("/:id/filters/reset", sessionHandler.ResetFilters)

	go func() {
		slog.Info("http server listening", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	<-sigint

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}
	gw.Close(ctx)

	slog.Info("application gracefully shutdown")
}
