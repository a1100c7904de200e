package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/logger"
	"github.com/ougirez/canlotto/internal/pkg/store/xpgx"
)

var (
	lottoMaxColumns = []string{
		"date", "game_id", "numbers", "bonus", "prize::text AS prize", "summary", "numbers_matched",
		"numbers_matched_atlantic", "numbers_matched_british_columbia", "numbers_matched_ontario",
		"numbers_matched_quebec", "numbers_matched_western_canada",
	}
	dailyGrandColumns = []string{
		"date", "game_id", "numbers", "grand_number", "bonuses_draw", "prize::text AS prize",
		"main_breakdown", "bonus_breakdown",
	}
	sixFortyNineColumns = []string{
		"date", "game_id", "classic", "guaranteed", "gold_ball", "summary", "numbers_matched",
	}
)

type resultTable[R any] struct {
	pool    *Pool
	table   string
	gameID  int32
	columns []string
	values  func(*R) map[string]interface{}
}

func newLottoMaxTable(pool *Pool) *resultTable[domain.LottoMaxRecord] {
	return &resultTable[domain.LottoMaxRecord]{
		pool:    pool,
		table:   tableLottoMax,
		gameID:  domain.GameLottoMax.ID(),
		columns: lottoMaxColumns,
		values: func(r *domain.LottoMaxRecord) map[string]interface{} {
			return map[string]interface{}{
				"date":                             r.Date,
				"game_id":                          r.GameID,
				"numbers":                          r.Numbers,
				"bonus":                            r.Bonus,
				"prize":                            numeric(r.Prize),
				"summary":                          r.Summary,
				"numbers_matched":                  r.NumbersMatched,
				"numbers_matched_atlantic":         r.NumbersMatchedAtlantic,
				"numbers_matched_british_columbia": r.NumbersMatchedBritishColumbia,
				"numbers_matched_ontario":          r.NumbersMatchedOntario,
				"numbers_matched_quebec":           r.NumbersMatchedQuebec,
				"numbers_matched_western_canada":   r.NumbersMatchedWesternCanada,
			}
		},
	}
}

func newDailyGrandTable(pool *Pool) *resultTable[domain.DailyGrandRecord] {
	return &resultTable[domain.DailyGrandRecord]{
		pool:    pool,
		table:   tableDailyGrand,
		gameID:  domain.GameDailyGrand.ID(),
		columns: dailyGrandColumns,
		values: func(r *domain.DailyGrandRecord) map[string]interface{} {
			return map[string]interface{}{
				"date":            r.Date,
				"game_id":         r.GameID,
				"numbers":         r.Numbers,
				"grand_number":    r.GrandNumber,
				"bonuses_draw":    nullableJSON(r.BonusesDraw),
				"prize":           numeric(r.Prize),
				"main_breakdown":  r.MainBreakdown,
				"bonus_breakdown": nullableJSON(r.BonusBreakdown),
			}
		},
	}
}

func newSixFortyNineTable(pool *Pool) *resultTable[domain.SixFortyNineRecord] {
	return &resultTable[domain.SixFortyNineRecord]{
		pool:    pool,
		table:   tableSixFortyNine,
		gameID:  domain.GameSixFortyNine.ID(),
		columns: sixFortyNineColumns,
		values: func(r *domain.SixFortyNineRecord) map[string]interface{} {
			return map[string]interface{}{
				"date":            r.Date,
				"game_id":         r.GameID,
				"classic":         r.Classic,
				"guaranteed":      nullableJSON(r.Guaranteed),
				"gold_ball":       nullableJSON(r.GoldBall),
				"summary":         r.Summary,
				"numbers_matched": r.NumbersMatched,
			}
		},
	}
}

func (t *resultTable[R]) FindByDate(ctx context.Context, date time.Time) (*R, error) {
	query := builder().Select(t.columns...).
		From(t.table).
		Where(sq.Eq{"game_id": t.gameID, "date": date})

	selected, err := xpgx.Getx[R](ctx, t.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (t *resultTable[R]) FindByYear(ctx context.Context, year int) ([]*R, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	query := builder().Select(t.columns...).
		From(t.table).
		Where(sq.Eq{"game_id": t.gameID}).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.Lt{"date": from.AddDate(1, 0, 0)}).
		OrderBy("date DESC")

	selected, err := xpgx.Selectx[R](ctx, t.pool, query)
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (t *resultTable[R]) Exists(ctx context.Context, date time.Time) (bool, error) {
	query := builder().Select("count(*) AS n").
		From(t.table).
		Where(sq.Eq{"game_id": t.gameID, "date": date})

	type counted struct {
		N int64 `db:"n"`
	}

	selected, err := xpgx.Getx[counted](ctx, t.pool, query)
	if err != nil {
		return false, wrapErr(err)
	}

	return selected.N > 0, nil
}

func (t *resultTable[R]) Insert(ctx context.Context, record *R) error {
	query := builder().Insert(t.table).SetMap(t.values(record))

	if _, err := t.pool.Execx(ctx, query); err != nil {
		logger.Errorf(ctx, "insert %s: %s", t.table, err.Error())
		return fmt.Errorf("insert %s: %w", t.table, wrapErr(err))
	}

	return nil
}
