package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ougirez/canlotto/internal/app"
	"github.com/ougirez/canlotto/internal/config"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/logger"
	"github.com/ougirez/canlotto/internal/pkg/notify"
	"github.com/ougirez/canlotto/internal/pkg/store"
	"github.com/ougirez/canlotto/internal/pkg/store/xpgx"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML/JSON/TOML config file")
	only := pflag.StringSliceP("game", "g", nil, "games to backfill, all when empty")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err = logger.Init(cfg.IsProd(), cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	games := make([]domain.GameName, 0, len(*only))
	for _, name := range *only {
		game, err := domain.ParseGameName(name)
		if err != nil {
			logger.Fatal(ctx, err)
		}
		games = append(games, game)
	}

	pool, err := xpgx.New(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	st := store.NewStore(pool)
	if err = st.Migrate(ctx); err != nil {
		logger.Fatal(ctx, err)
	}

	// backfill does not page anyone per draw
	a, err := app.New(cfg, st, notify.Log{})
	if err != nil {
		logger.Fatal(ctx, err)
	}

	summaries, err := a.Backfill.Run(ctx, games...)
	for _, s := range summaries {
		logger.Info(ctx, "backfill finished",
			"game", string(s.Game),
			"years", len(s.Years),
			"stored", s.Stored,
			"failed_years", s.Failed,
			"took", s.Took,
		)
	}
	if err != nil {
		logger.Error(ctx, "backfill incomplete", "error", err)
		stop()
		logger.Sync()
		os.Exit(1)
	}
}
