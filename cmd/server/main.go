package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/heyama/objectboard/pkg/objectboard"
	"github.com/heyama/objectboard/pkg/objectboard/api"
	"github.com/heyama/objectboard/pkg/objectboard/config"
)

// processConfig holds the process-level knobs not owned by the library
// config.
type processConfig struct {
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"60s"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
}

func main() {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	var proc processConfig
	if err := cleanenv.ReadEnv(&proc); err != nil {
		slog.Error("failed to read process environment", "error", err)
		os.Exit(1)
	}
	setupLogger(proc.LogLevel)

	serverConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("failed to load server configuration", "error", err)
		os.Exit(1)
	}

	if serverConfig.DatabaseType == "postgres" {
		if err := config.PingPostgres(serverConfig.DatabaseURL); err != nil {
			slog.Error("postgres is not reachable", "error", err)
			os.Exit(1)
		}
	}

	svc, notifier, err := serverConfig.BuildService()
	if err != nil {
		slog.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: routes(svc, notifier, serverConfig, proc),
	}

	go func() {
		slog.Info("objectboard server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.Storage.Type)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), proc.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func routes(svc objectboard.Service, notifier *objectboard.Notifier, cfg *config.ServerConfig, proc processConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Subscriber connections are long-lived, so the websocket route stays
	// outside the request timeout group.
	r.Get("/ws", api.NewWSHandler(notifier).ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(proc.RequestTimeout))

		if cfg.Environment == "development" {
			r.Use(corsAllowAll)
		}

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Mount("/objects", api.NewObjectHandler(svc).Routes())
	})

	return r
}

func corsAllowAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
