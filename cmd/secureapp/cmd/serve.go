package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookshelf/secureapp/internal/api"
	"github.com/bookshelf/secureapp/internal/core/service"
	redisdb "github.com/bookshelf/secureapp/internal/infrastructure/db/redis"
	"github.com/bookshelf/secureapp/internal/infrastructure/http/handlers"
	"github.com/bookshelf/secureapp/internal/infrastructure/queue"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.close(context.Background())

		if err := st.schema.EnsureIndexes(ctx); err != nil {
			return err
		}

		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

		// Audit trail workers stop with ctx.
		dispatcher := queue.NewDispatcher(cfg.Audit.Workers, st.authEvents, log)
		dispatcher.Start(ctx)

		sessions := service.NewSessionManager(redisdb.NewSessionStore(rdb), cfg.SecretKey, cfg.Session.Lifetime)
		identity := service.NewIdentityService(st.accounts, st.roles, st.assignments, log)
		auth := service.NewAuthService(st.accounts, st.roles, st.assignments, sessions, st.tx, dispatcher, log)
		books := service.NewBookService(st.books, log)
		entities := service.NewEntityService(st.accounts, st.roles, st.assignments, st.books, log)

		e := api.NewRouter(api.Services{
			Auth:     auth,
			Sessions: sessions,
			Identity: identity,
			Books:    books,
			Entities: entities,
		}, api.Options{
			CORSOrigins:  cfg.HTTP.CORSOrigins,
			SecureCookie: cfg.IsProduction(),
			Metrics:      true,
			Readiness: map[string]handlers.Pinger{
				"mongo": handlers.MongoPinger(st.db),
				"redis": handlers.RedisPinger(rdb),
			},
		}, log)

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Dur("session_lifetime", cfg.Session.Lifetime).Msg("server starting")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			stop()
			dispatcher.Wait()
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = e.Shutdown(shutdownCtx)
		// ctx is done, so the workers are draining what requests queued.
		dispatcher.Wait()
		return err
	},
}
