package dailygrand

import (
	"context"
	"errors"
	"fmt"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/logger"
	"github.com/ougirez/canlotto/internal/pkg/store"
)

type Ingestor struct {
	source  *Source
	results store.ResultStore[domain.DailyGrandRecord]
}

func NewIngestor(source *Source, results store.ResultStore[domain.DailyGrandRecord]) *Ingestor {
	return &Ingestor{source: source, results: results}
}

func (i *Ingestor) Game() domain.GameName {
	return domain.GameDailyGrand
}

func (i *Ingestor) Exists(ctx context.Context, date domain.Date) (bool, error) {
	return i.results.Exists(ctx, date.Time)
}

func (i *Ingestor) FetchNumbers(ctx context.Context, date domain.Date) (*domain.DailyGrandResult, error) {
	return i.source.FetchResult(ctx, date)
}

func (i *Ingestor) FetchBreakdown(ctx context.Context, date domain.Date) (*domain.DailyGrandBreakdown, error) {
	return i.source.FetchBreakdown(ctx, date)
}

func (i *Ingestor) Save(ctx context.Context, result *domain.DailyGrandResult, breakdown *domain.DailyGrandBreakdown) error {
	record, err := Serialize(result, breakdown)
	if err != nil {
		return fmt.Errorf("Serialize: %w", err)
	}
	return i.results.Insert(ctx, record)
}

func (i *Ingestor) Render(result *domain.DailyGrandResult, breakdown *domain.DailyGrandBreakdown) string {
	return Render(result, breakdown)
}

func (i *Ingestor) ListYears(ctx context.Context) ([]int, error) {
	return i.source.ListYears(ctx)
}

// LoadYear stores every draw of year not stored yet. Numbers and breakdown
// share one detail payload, so each draw costs a single request.
func (i *Ingestor) LoadYear(ctx context.Context, year int) (int, error) {
	dates, err := i.source.drawDates(ctx)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, date := range dates {
		if date.Year() != year {
			continue
		}

		exists, err := i.Exists(ctx, date)
		if err != nil {
			return stored, err
		}
		if exists {
			continue
		}

		draw, err := i.source.detail(ctx, date)
		if errors.Is(err, constants.ErrNotFound) {
			logger.Warnf(ctx, "daily grand %s: no detail payload, skipped", date)
			continue
		}
		if err != nil {
			return stored, err
		}
		if len(draw.DrawNbrs) == 0 || len(draw.GameBreakdown) == 0 {
			logger.Warnf(ctx, "daily grand %s: incomplete detail payload, skipped", date)
			continue
		}

		if err = i.Save(ctx, buildResult(date, draw), buildBreakdown(draw)); err != nil {
			if errors.Is(err, constants.ErrDuplicateResult) {
				continue
			}
			return stored, fmt.Errorf("save %s: %w", date, err)
		}
		stored++
	}

	return stored, nil
}
