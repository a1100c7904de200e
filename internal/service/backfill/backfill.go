// Package backfill performs the initial load: every game is registered with
// all of its upstream years and every draw of those years is stored.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/logger"
	"github.com/ougirez/canlotto/internal/pkg/metrics"
	"github.com/ougirez/canlotto/internal/pkg/store"
	"golang.org/x/sync/errgroup"
)

// Loader loads the history of one game.
type Loader interface {
	Game() domain.GameName
	ListYears(ctx context.Context) ([]int, error)
	LoadYear(ctx context.Context, year int) (int, error)
}

type Summary struct {
	Game   domain.GameName
	Years  []int
	Stored int
	Failed []int
	Took   time.Duration
}

type Service struct {
	games   store.GameStore
	loaders []Loader
	metrics *metrics.Recorder
}

func NewService(games store.GameStore, recorder *metrics.Recorder, loaders ...Loader) *Service {
	return &Service{games: games, loaders: loaders, metrics: recorder}
}

// Run loads every game concurrently; the years of one game load in order.
// A failed year does not stop the others and is reported in the summary.
func (s *Service) Run(ctx context.Context, only ...domain.GameName) ([]Summary, error) {
	loaders := s.selected(only)
	summaries := make([]Summary, len(loaders))

	var g errgroup.Group
	for i, l := range loaders {
		i, l := i, l
		g.Go(func() error {
			summary, err := s.load(ctx, l)
			summaries[i] = summary
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return summaries, err
	}

	var errs []error
	for _, summary := range summaries {
		if len(summary.Failed) > 0 {
			errs = append(errs, fmt.Errorf("%s: years %v failed", summary.Game, summary.Failed))
		}
	}
	return summaries, errors.Join(errs...)
}

func (s *Service) selected(only []domain.GameName) []Loader {
	if len(only) == 0 {
		return s.loaders
	}

	wanted := make(map[domain.GameName]struct{}, len(only))
	for _, g := range only {
		wanted[g] = struct{}{}
	}

	loaders := make([]Loader, 0, len(only))
	for _, l := range s.loaders {
		if _, ok := wanted[l.Game()]; ok {
			loaders = append(loaders, l)
		}
	}
	return loaders
}

func (s *Service) load(ctx context.Context, l Loader) (summary Summary, err error) {
	game := l.Game()
	ctx = logger.WithFields(ctx, "game", string(game))
	summary.Game = game
	start := time.Now()
	defer func() { summary.Took = time.Since(start) }()

	years, err := l.ListYears(ctx)
	if err != nil {
		return summary, fmt.Errorf("%s ListYears: %w", game, err)
	}
	summary.Years = years

	if err = s.games.UpsertGame(ctx, game, years); err != nil {
		return summary, fmt.Errorf("%s UpsertGame: %w", game, err)
	}
	logger.Infof(ctx, "%s: loading %d years", game, len(years))

	for _, year := range years {
		if err = ctx.Err(); err != nil {
			return summary, err
		}

		stored, err := l.LoadYear(ctx, year)
		s.metrics.RecordBackfillYear(string(game), err)
		summary.Stored += stored
		if err != nil {
			logger.Errorf(ctx, "%s %d: %v", game, year, err)
			summary.Failed = append(summary.Failed, year)
			continue
		}
		logger.Infof(ctx, "%s %d: %d draws stored", game, year, stored)
	}

	return summary, nil
}
