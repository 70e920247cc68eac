package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/bloops-games/spelldown/internal/buildinfo"
	"github.com/bloops-games/spelldown/internal/cache"
	"github.com/bloops-games/spelldown/internal/database"
	setupDb "github.com/bloops-games/spelldown/internal/database/setup/database"
	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/bloops-games/spelldown/internal/server"
	"github.com/bloops-games/spelldown/internal/shutdown"
	"github.com/bloops-games/spelldown/internal/web"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(os.Stdout, buildinfo.GreetingCLI, buildinfo.ProjectName, buildinfo.Version, buildinfo.GithubURL)

	ctx, done := shutdown.New()
	defer done()

	config := web.Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, config); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config web.Config) error {
	logger := logging.FromContext(ctx).Named("main.realMain")

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	setupCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	srv, err := server.New(config.Addr)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	manager := web.NewManager(ctx, &config, setupDb.New(db, setupCache))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		manager.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return srv.ServeHTTP(gctx, &http.Server{Handler: manager.Routes(gctx)})
	})

	logger.Infof("open http://localhost%s to play", config.Addr)
	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}
