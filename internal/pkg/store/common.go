package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ougirez/canlotto/internal/pkg/constants"
)

const (
	tableGames        = "games"
	tableLottoMax     = "lotto_max_draw_results"
	tableDailyGrand   = "daily_grand_draw_results"
	tableSixFortyNine = "six_forty_nine_draw_results"
)

const pgUniqueViolation = "23505"

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return constants.ErrDuplicateResult
	}
	return err
}

// builder returns a squirrel builder with Postgres placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// numeric binds an optional decimal string to a numeric column.
func numeric(s *string) interface{} {
	if s == nil {
		return nil
	}
	return squirrel.Expr("CAST(CAST(? AS text) AS numeric)", *s)
}

// nullableJSON stores an empty document as SQL NULL.
func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
