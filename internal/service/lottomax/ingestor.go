package lottomax

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/logger"
	"github.com/ougirez/canlotto/internal/pkg/store"
)

// Ingestor stores Lotto Max draws fetched from the Source, one draw at a
// time for the scheduled workflow or a whole year for the initial load.
type Ingestor struct {
	source  *Source
	results store.ResultStore[domain.LottoMaxRecord]

	// lookups holds the year table outcome of FetchNumbers until the
	// matching FetchBreakdown consumes it.
	mu      sync.Mutex
	lookups map[domain.Date]error
}

func NewIngestor(source *Source, results store.ResultStore[domain.LottoMaxRecord]) *Ingestor {
	return &Ingestor{
		source:  source,
		results: results,
		lookups: make(map[domain.Date]error),
	}
}

func (i *Ingestor) Game() domain.GameName {
	return domain.GameLottoMax
}

func (i *Ingestor) Exists(ctx context.Context, date domain.Date) (bool, error) {
	return i.results.Exists(ctx, date.Time)
}

func (i *Ingestor) FetchNumbers(ctx context.Context, date domain.Date) (*domain.LottoMaxResult, error) {
	result, err := i.source.FetchResult(ctx, date)
	if err == nil || errors.Is(err, constants.ErrNotFound) {
		i.mu.Lock()
		i.lookups[date] = err
		i.mu.Unlock()
	}
	return result, err
}

// FetchBreakdown skips the year table when FetchNumbers already looked the
// date up.
func (i *Ingestor) FetchBreakdown(ctx context.Context, date domain.Date) (*domain.LottoMaxBreakdown, error) {
	i.mu.Lock()
	lookupErr, ok := i.lookups[date]
	delete(i.lookups, date)
	i.mu.Unlock()

	if !ok {
		return i.source.FetchBreakdown(ctx, date)
	}
	if lookupErr != nil {
		return nil, lookupErr
	}
	return i.source.breakdown(ctx, date)
}

func (i *Ingestor) Save(ctx context.Context, result *domain.LottoMaxResult, breakdown *domain.LottoMaxBreakdown) error {
	record, err := Serialize(result, breakdown)
	if err != nil {
		return fmt.Errorf("Serialize: %w", err)
	}
	return i.results.Insert(ctx, record)
}

func (i *Ingestor) Render(result *domain.LottoMaxResult, breakdown *domain.LottoMaxBreakdown) string {
	return Render(result, breakdown)
}

func (i *Ingestor) ListYears(ctx context.Context) ([]int, error) {
	return i.source.ListYears(ctx)
}

// LoadYear stores every draw of year that is not stored yet and returns how
// many were added. Draws without a published breakdown are skipped.
func (i *Ingestor) LoadYear(ctx context.Context, year int) (int, error) {
	results, err := i.source.FetchResults(ctx, year)
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

		breakdown, err := i.source.breakdown(ctx, result.Date)
		if errors.Is(err, constants.ErrNotFound) {
			logger.Warnf(ctx, "lotto max %s: no breakdown, skipped", result.Date)
			continue
		}
		if err != nil {
			return stored, fmt.Errorf("breakdown %s: %w", result.Date, err)
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
