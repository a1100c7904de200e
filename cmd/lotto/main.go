package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/canlotto/internal/api"
	"github.com/ougirez/canlotto/internal/app"
	"github.com/ougirez/canlotto/internal/config"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/logger"
	"github.com/ougirez/canlotto/internal/pkg/store"
	"github.com/ougirez/canlotto/internal/pkg/store/xpgx"
	"github.com/ougirez/canlotto/internal/scheduler"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML/JSON/TOML config file")
	pflag.String("addr", "", "listen address, overrides server.addr")
	runNow := pflag.StringSlice("run-now", nil, "ingest yesterday's draw of these games at startup")
	pflag.Parse()
	if f := pflag.Lookup("addr"); f.Changed {
		_ = viper.BindPFlag(constants.ViperServerAddrKey, f)
	}

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

	pool, err := xpgx.New(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	st := store.NewStore(pool)
	if err = st.Migrate(ctx); err != nil {
		logger.Fatal(ctx, err)
	}

	a, err := app.New(cfg, st, nil)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	loc, err := scheduler.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	sched := scheduler.New(a.Ingest, loc)
	if cfg.Scheduler.Enabled {
		for _, game := range a.Ingest.Games() {
			spec := cfg.Scheduler.Specs[game]
			if spec == "" {
				continue
			}
			if err = sched.Add(game, spec); err != nil {
				logger.Fatal(ctx, err)
			}
		}
		sched.Start()
	}

	for _, name := range *runNow {
		game, err := domain.ParseGameName(name)
		if err != nil {
			logger.Fatal(ctx, err)
		}
		go sched.RunOnce(ctx, game)
	}

	svc := api.NewAPIService(api.Options{
		RootPath:       cfg.Server.RootPath,
		RapidAPISecret: cfg.Server.RapidAPISecret,
		Version:        version,
		Debug:          !cfg.IsProd(),
	}, api.Services{
		LottoMax:     a.LottoMax,
		DailyGrand:   a.DailyGrand,
		SixFortyNine: a.SixFortyNine,
		Ingester:     a.Ingest,
		Metrics:      a.Metrics,
	})

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "addr", cfg.Server.Addr, "env", cfg.Env, "version", version)
		serveErr <- svc.Serve(cfg.Server.Addr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if err != nil {
			logger.Error(ctx, "server stopped", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = svc.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(shutdownCtx, "api shutdown", "error", err)
	}
	if err = sched.Stop(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "scheduler shutdown", "error", err)
	}
	logger.Info(shutdownCtx, "stopped")
}
