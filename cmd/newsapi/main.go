package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/newsapi/internal/config"
	"github.com/deppfellow/newsapi/internal/database"
	"github.com/deppfellow/newsapi/internal/handler"
	"github.com/deppfellow/newsapi/internal/logger"
	"github.com/deppfellow/newsapi/internal/repository"
	"github.com/deppfellow/newsapi/internal/router"
	"github.com/deppfellow/newsapi/internal/server"
	"github.com/deppfellow/newsapi/internal/service"
)

const DefaultContextTimeout = 30

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "newsapi",
		Short:         "News articles, comments, topics and users over a REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())
	return root
}

// bootstrap loads config and builds the root logger. Callers shut the
// logger service down to flush New Relic.
func bootstrap() (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, zerolog.Nop(), err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)
	return cfg, loggerService, log, nil
}

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, loggerService, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			if migrate || cfg.Primary.Env != "local" {
				if err := database.Migrate(cmd.Context(), &log, cfg); err != nil {
					log.Error().Err(err).Msg("failed to migrate database")
					return err
				}
			}

			return serve(cfg, loggerService, &log)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving (always on outside local)")
	return cmd
}

func serve(cfg *config.Config, loggerService *logger.LoggerService, log *zerolog.Logger) error {
	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	repos := repository.NewRepositories(srv.DB.Pool)
	services := service.NewServices(srv, repos)

	handlers, err := handler.NewHandlers(srv, services, srv.DB.Pool)
	if err != nil {
		log.Error().Err(err).Msg("failed to build handlers")
		return err
	}

	r := router.NewRouter(srv, handlers)
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}

func newMigrateCmd() *cobra.Command {
	var target int32

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, loggerService, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			if err := database.MigrateTo(cmd.Context(), &log, cfg, target); err != nil {
				log.Error().Err(err).Msg("failed to migrate database")
				return err
			}
			return nil
		},
	}

	cmd.Flags().Int32Var(&target, "to", -1, "target version; negative means latest, 0 drops everything")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all rows with the development dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, loggerService, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			db, err := database.New(cfg, &log, loggerService, nil)
			if err != nil {
				log.Error().Err(err).Msg("failed to connect to database")
				return err
			}
			defer db.Close() //nolint:errcheck

			data, err := database.TestDataset()
			if err != nil {
				return err
			}

			if err := database.Seed(cmd.Context(), db.Pool, &log, data); err != nil {
				log.Error().Err(err).Msg("failed to seed database")
				return err
			}
			return nil
		},
	}
}
