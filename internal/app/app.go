package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tophat51/notarobloxrevival/internal/auth"
	"github.com/tophat51/notarobloxrevival/internal/config"
	"github.com/tophat51/notarobloxrevival/internal/logger"
	"github.com/tophat51/notarobloxrevival/internal/metrics"
	"github.com/tophat51/notarobloxrevival/internal/session"
)

type App struct {
	httpServer *http.Server
	infra      io.Closer

	stopSweeper context.CancelFunc
	sweeperDone sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	adapter := session.Instrument(session.NewPostgresAdapter(infra.DB), m)
	a := auth.New(adapter, auth.WithSessionExpiresIn(cfg.SessionExpiresIn))

	router, err := setupHTTP(ctx, cfg, infra, a, m)
	if err != nil {
		infra.Close()
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	app := &App{
		httpServer: server,
		infra:      infra,
	}
	app.startSweeper(a, cfg.SessionSweepInterval)

	return app, nil
}

func (a *App) startSweeper(s expiredSweeper, every time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopSweeper = cancel

	if every <= 0 {
		return
	}

	a.sweeperDone.Add(1)
	go func() {
		defer a.sweeperDone.Done()
		sweepExpiredSessions(ctx, s, every)
	}()
}

func (a *App) Run() error {
	return a.httpServer.ListenAndServe()
}

// Shutdown drains HTTP, stops the sweeper and closes the pools. The
// pools are closed even when draining times out.
func (a *App) Shutdown(ctx context.Context) error {
	a.stopSweeper()

	shutdownErr := a.httpServer.Shutdown(ctx)
	if shutdownErr != nil {
		logger.Warn("http server did not drain", map[string]any{
			"error": shutdownErr.Error(),
		})
	}

	a.sweeperDone.Wait()
	return errors.Join(shutdownErr, a.infra.Close())
}

type expiredSweeper interface {
	DeleteExpiredSessions(ctx context.Context) error
}

// sweepExpiredSessions deletes expired sessions every interval until ctx
// is cancelled. Failures are logged and retried on the next tick.
func sweepExpiredSessions(ctx context.Context, s expiredSweeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.DeleteExpiredSessions(ctx); err != nil {
				logger.Error("expired session sweep failed", map[string]any{
					"error": err.Error(),
				})
				continue
			}
			logger.Debug("expired sessions swept", nil)
		}
	}
}
