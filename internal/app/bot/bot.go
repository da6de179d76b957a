// Package bot собирает приложение витрины: хранилище, сервисы, маршрутизатор
// обновлений и служебный HTTP-сервер.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	botrouter "github.com/financeacademytj/storefront-bot/internal/bot"
	"github.com/financeacademytj/storefront-bot/internal/config"
	"github.com/financeacademytj/storefront-bot/internal/http/handlers/health"
	"github.com/financeacademytj/storefront-bot/internal/lib/telegram"
	"github.com/financeacademytj/storefront-bot/internal/services/ledger"
	"github.com/financeacademytj/storefront-bot/internal/services/storefront"
	"github.com/financeacademytj/storefront-bot/internal/services/workflow"
	"github.com/financeacademytj/storefront-bot/internal/storage/jsonfile"
	"github.com/financeacademytj/storefront-bot/internal/storage/repository"
)

// App процесс бота: поток обновлений Bot API плюс служебный HTTP-сервер
// (health, metrics).
type App struct {
	server *http.Server
	client *telegram.Client
	router *botrouter.Router
	logger *slog.Logger
}

// New собирает зависимости приложения.
func New(cfg *config.Config, logger *slog.Logger) *App {
	store := jsonfile.New(cfg.UsersPath, logger)
	users := repository.New(store, logger)

	purchases := ledger.New(users, logger)
	client := telegram.New(cfg.Telegram, cfg.BotToken, logger)

	sf := storefront.New(users, purchases, client, cfg, logger)
	wf := workflow.New(purchases, users, client, cfg, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Method(http.MethodGet, "/health", health.New(logger))
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		client: client,
		router: botrouter.New(client, sf, wf, users, cfg, logger),
		logger: logger,
	}
}

// Run запускает HTTP-сервер и цикл обработки обновлений, блокируется до
// отмены контекста либо падения сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.logger.Info("update loop starting")
		a.router.Run(ctx, a.client.Updates(ctx))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		a.logger.Info("shutting down gracefully")
		err := a.server.Shutdown(timeoutCtx)

		// дождаться обработчиков, которые уже взяли обновления в работу
		select {
		case <-done:
		case <-timeoutCtx.Done():
			a.logger.Warn("update loop did not stop in time")
		}
		return err
	}
}
