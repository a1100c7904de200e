package sixfortynine

import (
	"context"
	"fmt"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/store"
)

type Service struct {
	games   store.GameStore
	results store.ResultStore[domain.SixFortyNineRecord]
}

func NewService(games store.GameStore, results store.ResultStore[domain.SixFortyNineRecord]) *Service {
	return &Service{games: games, results: results}
}

func (s *Service) Years(ctx context.Context) ([]int, error) {
	return s.games.GetYears(ctx, domain.GameSixFortyNine)
}

func (s *Service) ResultsByYear(ctx context.Context, year int) ([]domain.SixFortyNineResult, error) {
	records, err := s.results.FindByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("results.FindByYear: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("year %d: %w", year, constants.ErrNotFound)
	}

	return DeserializeResults(records)
}

func (s *Service) BreakdownByDate(ctx context.Context, date domain.Date) (*domain.Breakdown, error) {
	record, err := s.results.FindByDate(ctx, date.Time)
	if err != nil {
		return nil, fmt.Errorf("date %s: %w", date, err)
	}

	return DeserializeBreakdown(record)
}
