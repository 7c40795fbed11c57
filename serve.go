package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/kevinaaaquil/books-api/config"
	"github.com/kevinaaaquil/books-api/handlers"
	"github.com/kevinaaaquil/books-api/logging"
	"github.com/kevinaaaquil/books-api/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			log, flush := logging.New(cfg.Production, cfg.Log.Level)
			defer flush()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.InsecureSecret() {
		log.Warn("JWT_SECRET not set; signing tokens with the built-in fallback secret")
	}

	db, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer disconnect(db, log)
	if n, err := db.UsersCount(ctx); err == nil && n == 0 {
		log.Info("no users yet; register via POST /api/register or the useradd command")
	}

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: handlers.NewRouter(handlers.Deps{
			Books:       db,
			Users:       db,
			Health:      db,
			JWTSecret:   cfg.JWTSecret,
			Pagination:  cfg.Pagination,
			CORSOrigins: cfg.Server.CORSOrigins,
			Log:         log,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// connect opens the store and prepares its indexes within the configured connect timeout.
func connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer cancel()
	db, err := store.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.DBName, log)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Disconnect(context.Background())
		return nil, err
	}
	return db, nil
}

type disconnecter interface {
	Disconnect(ctx context.Context) error
}

// disconnect closes the store at the end of a command and logs any failure.
func disconnect(db disconnecter, log *zap.Logger) {
	if err := db.Disconnect(context.Background()); err != nil {
		log.Error("mongodb disconnect", zap.Error(err))
	}
}
