// Package app assembles the per-game sources, ingestors and services shared
// by the server and the backfill command.
package app

import (
	"fmt"

	"github.com/ougirez/canlotto/internal/config"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/fetch"
	"github.com/ougirez/canlotto/internal/pkg/metrics"
	"github.com/ougirez/canlotto/internal/pkg/notify"
	"github.com/ougirez/canlotto/internal/pkg/store"
	"github.com/ougirez/canlotto/internal/service/backfill"
	"github.com/ougirez/canlotto/internal/service/dailygrand"
	"github.com/ougirez/canlotto/internal/service/ingest"
	"github.com/ougirez/canlotto/internal/service/lottomax"
	"github.com/ougirez/canlotto/internal/service/sixfortynine"
)

type App struct {
	Store   store.Store
	Metrics *metrics.Recorder

	LottoMax     *lottomax.Service
	DailyGrand   *dailygrand.Service
	SixFortyNine *sixfortynine.Service

	LottoMaxIngestor     *lottomax.Ingestor
	DailyGrandIngestor   *dailygrand.Ingestor
	SixFortyNineIngestor *sixfortynine.Ingestor

	Ingest   *ingest.Service
	Backfill *backfill.Service
}

// New wires every game against st. notifier may be nil, in which case the
// notifiers enabled in cfg are used.
func New(cfg *config.Config, st store.Store, notifier notify.Notifier) (*App, error) {
	mode, err := sixfortynine.ParseGoldBallMode(cfg.Sources.GoldBallFlag)
	if err != nil {
		return nil, err
	}

	if notifier == nil {
		notifier, err = Notifier(cfg)
		if err != nil {
			return nil, err
		}
	}

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.HTTP.Timeout),
		fetch.WithRetries(cfg.HTTP.Retries, cfg.HTTP.RetryInterval),
		fetch.WithUserAgent(cfg.HTTP.UserAgent),
	)

	a := &App{
		Store:        st,
		Metrics:      metrics.NewRecorder(),
		LottoMax:     lottomax.NewService(st, st.LottoMax()),
		DailyGrand:   dailygrand.NewService(st, st.DailyGrand()),
		SixFortyNine: sixfortynine.NewService(st, st.SixFortyNine()),

		LottoMaxIngestor: lottomax.NewIngestor(
			lottomax.NewSource(client, cfg.Sources.LottoMaxURL),
			st.LottoMax(),
		),
		DailyGrandIngestor: dailygrand.NewIngestor(
			dailygrand.NewSource(client, cfg.Sources.PlayNowURL),
			st.DailyGrand(),
		),
		SixFortyNineIngestor: sixfortynine.NewIngestor(
			sixfortynine.NewSource(
				client,
				cfg.Sources.LottoNumbersURL,
				cfg.Sources.PlayNowURL,
				mode,
			),
			st.SixFortyNine(),
		),
	}

	a.Ingest = ingest.NewService(st, notifier, a.Metrics)
	ingest.Register[domain.LottoMaxResult, domain.LottoMaxBreakdown](a.Ingest, a.LottoMaxIngestor)
	ingest.Register[domain.DailyGrandResult, domain.DailyGrandBreakdown](a.Ingest, a.DailyGrandIngestor)
	ingest.Register[domain.SixFortyNineResult, domain.Breakdown](a.Ingest, a.SixFortyNineIngestor)

	a.Backfill = backfill.NewService(st, a.Metrics, a.LottoMaxIngestor, a.DailyGrandIngestor, a.SixFortyNineIngestor)

	return a, nil
}

// Notifier returns the notifiers enabled in cfg. The log notifier is always on.
func Notifier(cfg *config.Config) (notify.Notifier, error) {
	sinks := notify.Multi{notify.Log{}}

	if cfg.SMTP.Enabled() {
		sinks = append(sinks, notify.NewEmail(notify.EmailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
			Timeout:  cfg.HTTP.Timeout,
		}))
	}

	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("telegram: %w", err)
		}
		sinks = append(sinks, tg)
	}

	return sinks, nil
}
