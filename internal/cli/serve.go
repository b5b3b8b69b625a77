package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/tile-board/assets"
	"github.com/robalobadob/wordle/apps/tile-board/internal/config"
	"github.com/robalobadob/wordle/apps/tile-board/internal/history"
	"github.com/robalobadob/wordle/apps/tile-board/internal/httpserver"
	"github.com/robalobadob/wordle/apps/tile-board/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over HTTP and websockets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, c config.Config) error {
	st, closeStore, err := openStore(ctx, c.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	var hist *history.Store
	if c.History.DSN != "" {
		db, err := openHistory(c.History.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		hist = history.NewStore(db)
	}

	srv := httpserver.New(httpserver.Options{
		Game:     c.Game,
		Store:    st,
		History:  hist,
		Sessions: httpserver.NewSessions(c.Session.Secret, c.Session.Expires),
	})
	hs := &http.Server{
		Addr:              c.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", c.Server.Addr).Str("store", c.Store.Backend).Msg("starting tile-board")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore builds the session store for the configured backend.
func openStore(ctx context.Context, c config.StoreConfig) (store.Store, func(), error) {
	switch c.Backend {
	case config.BackendRedis:
		rc := store.DefaultRedisConfig()
		rc.URL = c.RedisURL
		rc.TTL = c.TTL
		r, err := store.NewRedisStore(ctx, rc)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return r, func() { _ = r.Close() }, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

// openHistory opens the SQLite history database and applies migrations.
func openHistory(dsn string) (*sql.DB, error) {
	db, err := history.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err := history.Migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return db, nil
}
