package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/config"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/metrics"
	h "github.com/IvanChernomyrdin/go-jsonserver-auth/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-jsonserver-auth/internal/shared/logger"
)

// NewServeCmd создаёт команду запуска сервера.
//
//	jsonserver serve --db data/db.json --port 4000
func NewServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP-сервер",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app)
		},
	}
}

// NewLogger создаёт логгер по секции log конфига.
func NewLogger(cfg *config.Config) *logger.HTTPLogger {
	return logger.New(logger.Options{
		File:    cfg.Log.File,
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
	})
}

// runServe поднимает сервер и держит его до сигнала завершения.
//
// В errgroup живут: HTTP-сервер, graceful shutdown по сигналу и,
// если включено db.watch, слежение за файлом базы.
func runServe(cmd *cobra.Command, app *App) error {
	cfg := app.Cfg
	httpLogger := NewServerLogger(cfg)
	defer func() { _ = httpLogger.Sync() }()
	sugar := httpLogger.Logger.Sugar()

	srv, err := h.Assemble(cfg, httpLogger, metrics.New(nil))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		cmd.Context(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infof("server started on %s", server.Addr)
		sugar.Infof("Swagger docs available at %s", srv.DocsURL)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.DB.Watch {
		g.Go(func() error {
			return srv.Store.Watch(ctx)
		})
	}

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		// ctx уже отменён, таймаут считаем от нового контекста
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единая обработка ошибок
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		sugar.Errorf("server stopped with error: %v", err)
		return err
	}
	sugar.Info("server gracefully stopped")
	return nil
}
