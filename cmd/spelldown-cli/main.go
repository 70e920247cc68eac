package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bloops-games/spelldown/internal/buildinfo"
	"github.com/bloops-games/spelldown/internal/console"
	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/bloops-games/spelldown/internal/shutdown"
	"github.com/bloops-games/spelldown/internal/spelldown/match"
	"go.uber.org/zap"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(os.Stdout, buildinfo.GreetingCLI, buildinfo.ProjectName, buildinfo.Version, buildinfo.GithubURL)

	ctx, done := shutdown.New()
	defer done()

	cfg := &Config{}
	if err := newCmd(cfg).ExecuteContext(ctx); err != nil {
		logging.DefaultLogger().Fatalf("spelldown-cli: %v", err)
	}
}

func play(ctx context.Context, cfg *Config, in match.StartInput) error {
	// the terminal belongs to the game unless asked otherwise
	logger := zap.NewNop().Sugar()
	if cfg.verbose {
		logger = logging.NewLogger(true)
	}
	ctx = logging.WithLogger(ctx, logger)

	if err := console.New(os.Stdin, os.Stdout, cfg.timing()).Run(ctx, in); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}
