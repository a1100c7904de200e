// Package storetest provides in-memory implementations of the store
// interfaces for tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/store"
)

type Results[R any] struct {
	mu     sync.Mutex
	rows   map[time.Time]*R
	dateOf func(*R) time.Time

	// FailWith, when set, is returned by every call.
	FailWith error
}

func NewResults[R any](dateOf func(*R) time.Time) *Results[R] {
	return &Results[R]{rows: make(map[time.Time]*R), dateOf: dateOf}
}

func (r *Results[R]) FindByDate(_ context.Context, date time.Time) (*R, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return nil, r.FailWith
	}
	row, ok := r.rows[date]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return row, nil
}

func (r *Results[R]) FindByYear(_ context.Context, year int) ([]*R, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return nil, r.FailWith
	}
	rows := make([]*R, 0)
	for date, row := range r.rows {
		if date.Year() == year {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return r.dateOf(rows[i]).After(r.dateOf(rows[j]))
	})
	return rows, nil
}

func (r *Results[R]) Exists(_ context.Context, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return false, r.FailWith
	}
	_, ok := r.rows[date]
	return ok, nil
}

func (r *Results[R]) Insert(_ context.Context, record *R) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}
	date := r.dateOf(record)
	if _, ok := r.rows[date]; ok {
		return fmt.Errorf("insert %s: %w", date.Format(domain.DateLayout), constants.ErrDuplicateResult)
	}
	r.rows[date] = record
	return nil
}

func (r *Results[R]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type Games struct {
	mu    sync.Mutex
	years map[domain.GameName][]int
}

// NewGames registers every game with no years.
func NewGames() *Games {
	g := &Games{years: make(map[domain.GameName][]int)}
	for _, name := range domain.Games() {
		g.years[name] = []int{}
	}
	return g
}

func (g *Games) GetYears(_ context.Context, name domain.GameName) ([]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	years, ok := g.years[name]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return append([]int(nil), years...), nil
}

func (g *Games) AppendYear(_ context.Context, name domain.GameName, year int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	years, ok := g.years[name]
	if !ok {
		return false, constants.ErrDBNotFound
	}
	for _, y := range years {
		if y == year {
			return false, nil
		}
	}
	g.years[name] = append(years, year)
	return true, nil
}

func (g *Games) UpsertGame(_ context.Context, name domain.GameName, years []int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	merged := make(map[int]struct{})
	for _, y := range g.years[name] {
		merged[y] = struct{}{}
	}
	for _, y := range years {
		merged[y] = struct{}{}
	}

	list := make([]int, 0, len(merged))
	for y := range merged {
		list = append(list, y)
	}
	sort.Ints(list)
	g.years[name] = list
	return nil
}

// Store is an in-memory store.Store.
type Store struct {
	*Games
	LottoMaxResults     *Results[domain.LottoMaxRecord]
	DailyGrandResults   *Results[domain.DailyGrandRecord]
	SixFortyNineResults *Results[domain.SixFortyNineRecord]
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		Games:               NewGames(),
		LottoMaxResults:     NewResults(func(r *domain.LottoMaxRecord) time.Time { return r.Date }),
		DailyGrandResults:   NewResults(func(r *domain.DailyGrandRecord) time.Time { return r.Date }),
		SixFortyNineResults: NewResults(func(r *domain.SixFortyNineRecord) time.Time { return r.Date }),
	}
}

func (s *Store) LottoMax() store.ResultStore[domain.LottoMaxRecord] {
	return s.LottoMaxResults
}

func (s *Store) DailyGrand() store.ResultStore[domain.DailyGrandRecord] {
	return s.DailyGrandResults
}

func (s *Store) SixFortyNine() store.ResultStore[domain.SixFortyNineRecord] {
	return s.SixFortyNineResults
}

func (s *Store) Migrate(context.Context) error {
	return nil
}
