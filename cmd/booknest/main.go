// Command booknest is the local client gateway. It serves the browsing,
// ordering, and dashboard views for one signed-in person, backed by the
// BookNest API and a process-wide query cache.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/booknest/booknest/internal/client/bookstore"
	"github.com/booknest/booknest/internal/client/identity"
	"github.com/booknest/booknest/internal/client/imagehost"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/client/remote"
	"github.com/booknest/booknest/internal/client/roles"
	"github.com/booknest/booknest/internal/client/session"
	"github.com/booknest/booknest/internal/client/web"
	"github.com/booknest/booknest/internal/infrastructure/config"
	"github.com/booknest/booknest/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadClient()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	provider, err := identity.NewHTTP(cfg.BackendURL, cfg.TokenFile, logger.For("identity"))
	if err != nil {
		log.Fatal().Err(err).Msg("identity provider setup failed")
	}

	startCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	if err := provider.Start(startCtx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("session restore failed")
	}
	cancel()

	rc, err := remote.New(cfg.BackendURL, provider, logger.For("remote"))
	if err != nil {
		log.Fatal().Err(err).Msg("backend client setup failed")
	}
	api := bookstore.New(rc)

	images, err := imagehost.New(cfg.ImageHost.URL, cfg.ImageHost.APIKey, logger.For("imagehost"))
	if err != nil {
		log.Fatal().Err(err).Msg("image host client setup failed")
	}

	queries := query.New(logger.For("query"))
	sess := session.New(provider)
	resolver := roles.New(queries, sess, api, provider)

	e := web.NewRouter(web.RouterDeps{
		Queries:   queries,
		API:       api,
		Session:   sess,
		Resolver:  resolver,
		Images:    images,
		PublicURL: cfg.PublicURL,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("booknest gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	resolver.Close()
	sess.Close()
	queries.Close()
}
