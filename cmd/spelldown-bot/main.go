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
	userDb "github.com/bloops-games/spelldown/internal/database/user/database"
	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/bloops-games/spelldown/internal/server"
	"github.com/bloops-games/spelldown/internal/shutdown"
	"github.com/bloops-games/spelldown/internal/spelldownbot"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(os.Stdout, buildinfo.GreetingCLI, buildinfo.ProjectName, buildinfo.Version, buildinfo.GithubURL)

	ctx, done := shutdown.New()
	defer done()

	config := spelldownbot.Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, config); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config spelldownbot.Config) error {
	if config.BotToken == "" {
		return fmt.Errorf(
			"bot token not found, please visit %s to register your bot and get a token",
			buildinfo.BotFatherURL,
		)
	}

	tg, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return fmt.Errorf("bot api: %w", err)
	}

	tg.Debug = config.Debug

	_, _ = fmt.Fprint(os.Stdout, "Authorization in telegram was successful: ", tg.Self.UserName, "\n")

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	userCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	setupCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	srv, err := server.New(":" + config.Port)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/health", server.HandleHealth(ctx))

	manager := spelldownbot.NewManager(tg, &config, userDb.New(db, userCache), setupDb.New(db, setupCache))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ServeHTTP(gctx, &http.Server{Handler: mux})
	})
	g.Go(func() error {
		defer tg.StopReceivingUpdates()
		if err := manager.Run(gctx); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		return nil
	})

	return g.Wait()
}
