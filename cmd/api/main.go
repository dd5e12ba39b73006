package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MoonieBruva/casino/internal/api"
	"github.com/MoonieBruva/casino/internal/infra/logging"
	"github.com/MoonieBruva/casino/internal/infra/pgutils"
	"github.com/MoonieBruva/casino/internal/services/accounts"
	"github.com/MoonieBruva/casino/internal/sessions"
	"github.com/MoonieBruva/casino/pkg/envconf"
	"github.com/MoonieBruva/casino/pkg/shutdownqueue"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	// Best-effort; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		return db.Close()
	})

	// --- Sessions ---
	sessionStore := sessions.NewMemory(cfg.SessionTTL)
	stopJanitor := sessionStore.StartCleanup(time.Minute)

	shutdownqueue.Add(func(context.Context) error {
		stopJanitor()
		return nil
	})

	sessionMgr := api.NewSessionManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL)

	// --- Service + HTTP server ---
	accountsSrv := accounts.New(db, cfg.BcryptCost)
	srv := api.NewServer(cfg.Port, accountsSrv, sessionMgr)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "addr", srv.Addr)

	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
