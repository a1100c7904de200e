package store

import (
	"context"
	"time"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// ResultStore persists the draws of one game, keyed by (date, game_id).
type ResultStore[R any] interface {
	FindByDate(ctx context.Context, date time.Time) (*R, error)
	FindByYear(ctx context.Context, year int) ([]*R, error)
	Exists(ctx context.Context, date time.Time) (bool, error)
	// Insert fails with constants.ErrDuplicateResult when the draw is already stored.
	Insert(ctx context.Context, record *R) error
}

type GameStore interface {
	GetYears(ctx context.Context, name domain.GameName) ([]int, error)
	// AppendYear adds year to the game once; added reports whether this call added it.
	AppendYear(ctx context.Context, name domain.GameName, year int) (added bool, err error)
	UpsertGame(ctx context.Context, name domain.GameName, years []int) error
}

type Store interface {
	GameStore
	LottoMax() ResultStore[domain.LottoMaxRecord]
	DailyGrand() ResultStore[domain.DailyGrandRecord]
	SixFortyNine() ResultStore[domain.SixFortyNineRecord]
	Migrate(ctx context.Context) error
}

type store struct {
	pool         *Pool
	lottoMax     *resultTable[domain.LottoMaxRecord]
	dailyGrand   *resultTable[domain.DailyGrandRecord]
	sixFortyNine *resultTable[domain.SixFortyNineRecord]
}

func NewStore(pool *Pool) Store {
	return &store{
		pool:         pool,
		lottoMax:     newLottoMaxTable(pool),
		dailyGrand:   newDailyGrandTable(pool),
		sixFortyNine: newSixFortyNineTable(pool),
	}
}

func (s *store) LottoMax() ResultStore[domain.LottoMaxRecord] {
	return s.lottoMax
}

func (s *store) DailyGrand() ResultStore[domain.DailyGrandRecord] {
	return s.dailyGrand
}

func (s *store) SixFortyNine() ResultStore[domain.SixFortyNineRecord] {
	return s.sixFortyNine
}
