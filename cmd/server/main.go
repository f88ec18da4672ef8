package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/janisto/htmx-playground/internal/config"
	applog "github.com/janisto/htmx-playground/internal/platform/logging"
	"github.com/janisto/htmx-playground/internal/routes"
	"github.com/janisto/htmx-playground/internal/service/catalog"
	countersvc "github.com/janisto/htmx-playground/internal/service/counter"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(context.Background(), "config load failed", err)
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		applog.LogWarn(context.Background(), "unknown log level, keeping default", zap.String("level", cfg.LogLevel))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		applog.LogError(context.Background(), "server failed", err)
		stop()
		os.Exit(1)
	}
	applog.LogInfo(context.Background(), "server exited")
}

func run(ctx context.Context, cfg config.Config) error {
	counter, closeCounter, err := openCounter(ctx, cfg.CounterDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCounter(); err != nil {
			applog.LogError(context.Background(), "counter close error", err)
		}
	}()

	handler, err := routes.New(routes.Options{
		Config:  cfg,
		Version: Version,
		Counter: counter,
		Catalog: catalog.Default(),
	})
	if err != nil {
		return err
	}

	srv := newServer(cfg.Addr(), handler)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	applog.LogInfo(ctx, "server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("headerMode", cfg.HeaderMode.String()),
	)
	return serve(ctx, srv, ln)
}

// openCounter returns the in-memory counter for an empty dsn and the SQLite
// counter otherwise.
func openCounter(ctx context.Context, dsn string) (countersvc.Service, func() error, error) {
	if dsn == "" {
		return countersvc.NewMemory(), func() error { return nil }, nil
	}
	store, err := countersvc.OpenSQLite(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	applog.LogInfo(ctx, "counter store opened", zap.String("driver", "sqlite"))
	return store, store.Close, nil
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	listenErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-listenErr
}
