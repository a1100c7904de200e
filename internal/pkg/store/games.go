package store

import (
	"context"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/logger"
	"github.com/ougirez/canlotto/internal/pkg/store/xpgx"
)

var gameColumns = []string{"id", "name", "years"}

func (s *store) getGame(ctx context.Context, name domain.GameName) (*domain.Game, error) {
	query := builder().Select(gameColumns...).
		From(tableGames).
		Where(sq.Eq{"name": string(name)})

	selected, err := xpgx.Getx[domain.Game](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) GetYears(ctx context.Context, name domain.GameName) ([]int, error) {
	game, err := s.getGame(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("getGame %s: %w", name, err)
	}

	return game.YearList(), nil
}

func (s *store) AppendYear(ctx context.Context, name domain.GameName, year int) (bool, error) {
	query := builder().Update(tableGames).
		Set("years", sq.Expr("array_append(years, CAST(? AS integer))", year)).
		Where(sq.Eq{"name": string(name)}).
		Where("NOT (CAST(? AS integer) = ANY(years))", year)

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		logger.Errorf(ctx, "append year %d to %s: %s", year, name, err.Error())
		return false, fmt.Errorf("append year: %w", wrapErr(err))
	}

	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// nothing updated: either the year is known or the game is missing
	if _, err = s.getGame(ctx, name); err != nil {
		return false, fmt.Errorf("getGame %s: %w", name, err)
	}

	return false, nil
}

func (s *store) UpsertGame(ctx context.Context, name domain.GameName, years []int) error {
	sorted := append([]int(nil), years...)
	sort.Ints(sorted)

	years32 := make([]int32, 0, len(sorted))
	for _, y := range sorted {
		years32 = append(years32, int32(y))
	}

	query := builder().Insert(tableGames).
		Columns(gameColumns...).
		Values(name.ID(), string(name), years32).
		Suffix(`
on conflict (name)
do update
set
	years = array(select distinct y from unnest(games.years || excluded.years) as y order by y)`)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		logger.Error(ctx, err.Error())
		return fmt.Errorf("upsert game %s: %w", name, wrapErr(err))
	}

	return nil
}
