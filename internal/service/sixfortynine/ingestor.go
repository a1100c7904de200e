package sixfortynine

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
	results store.ResultStore[domain.SixFortyNineRecord]
}

func NewIngestor(source *Source, results store.ResultStore[domain.SixFortyNineRecord]) *Ingestor {
	return &Ingestor{source: source, results: results}
}

func (i *Ingestor) Game() domain.GameName {
	return domain.GameSixFortyNine
}

func (i *Ingestor) Exists(ctx context.Context, date domain.Date) (bool, error) {
	return i.results.Exists(ctx, date.Time)
}

func (i *Ingestor) FetchNumbers(ctx context.Context, date domain.Date) (*domain.SixFortyNineResult, error) {
	return i.source.FetchResult(ctx, date)
}

func (i *Ingestor) FetchBreakdown(ctx context.Context, date domain.Date) (*domain.Breakdown, error) {
	return i.source.FetchBreakdown(ctx, date)
}

func (i *Ingestor) Save(ctx context.Context, result *domain.SixFortyNineResult, breakdown *domain.Breakdown) error {
	record, err := Serialize(result, breakdown)
	if err != nil {
		return fmt.Errorf("Serialize: %w", err)
	}
	return i.results.Insert(ctx, record)
}

func (i *Ingestor) Render(result *domain.SixFortyNineResult, breakdown *domain.Breakdown) string {
	return Render(result, breakdown)
}

func (i *Ingestor) ListYears(ctx context.Context) ([]int, error) {
	return i.source.ListYears(ctx)
}

// LoadYear stores every draw of year not stored yet. The detail page of a
// draw serves both its jackpot and its breakdown.
func (i *Ingestor) LoadYear(ctx context.Context, year int) (int, error) {
	results, err := i.source.archived(ctx, func(d domain.Date) bool { return d.Year() == year })
	if err != nil {
		return 0, err
	}

	stored := 0
	for idx := range results {
		result := &results[idx]

		exists, err := i.Exists(ctx, result.Date)
		if err != nil {
			return stored, err
		}
		if exists {
			continue
		}

		doc, err := i.source.detailPage(ctx, result.Date)
		if errors.Is(err, constants.ErrNotFound) {
			logger.Warnf(ctx, "6/49 %s: no detail page, skipped", result.Date)
			continue
		}
		if err != nil {
			return stored, err
		}

		if result.Classic.Prize, err = parseJackpot(doc, result.Date); err != nil {
			return stored, err
		}
		breakdown, err := parseBreakdown(doc, result.Date)
		if errors.Is(err, constants.ErrNotFound) {
			logger.Warnf(ctx, "6/49 %s: no prize breakdown, skipped", result.Date)
			continue
		}
		if err != nil {
			return stored, err
		}

		if err = i.Save(ctx, result, breakdown); err != nil {
			if errors.Is(err, constants.ErrDuplicateResult) {
				continue
			}
			return stored, fmt.Errorf("save %s: %w", result.Date, err)
		}
		stored++
	}

	return stored, nil
}
