// Package ingest runs the per-draw ingestion workflow: existence check,
// numbers and breakdown fetch, year registration, persistence and a single
// terminal notification.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/constants"
	"github.com/ougirez/canlotto/internal/pkg/logger"
	"github.com/ougirez/canlotto/internal/pkg/metrics"
	"github.com/ougirez/canlotto/internal/pkg/notify"
	"github.com/ougirez/canlotto/internal/pkg/store"
)

type Outcome string

const (
	OutcomeStored           Outcome = "stored"
	OutcomeAlreadyExists    Outcome = "already_exists"
	OutcomeMissingNumbers   Outcome = "missing_numbers"
	OutcomeMissingBreakdown Outcome = "missing_breakdown"
	OutcomeFailed           Outcome = "failed"
)

// Source is what one game contributes to the workflow. N is the game's draw
// result and B its prize breakdown.
type Source[N, B any] interface {
	Game() domain.GameName
	Exists(ctx context.Context, date domain.Date) (bool, error)
	FetchNumbers(ctx context.Context, date domain.Date) (*N, error)
	FetchBreakdown(ctx context.Context, date domain.Date) (*B, error)
	Save(ctx context.Context, numbers *N, breakdown *B) error
	Render(numbers *N, breakdown *B) string
}

// Report describes one ingestion attempt.
type Report struct {
	RunID     string
	Game      domain.GameName
	Date      domain.Date
	Outcome   Outcome
	YearAdded bool
	Err       error
}

// workflow runs the game specific steps and returns the notification body.
type workflow func(ctx context.Context, date domain.Date, rep *Report) string

type Service struct {
	games     store.GameStore
	notifier  notify.Notifier
	metrics   *metrics.Recorder
	workflows map[domain.GameName]workflow
}

func NewService(games store.GameStore, notifier notify.Notifier, recorder *metrics.Recorder) *Service {
	if notifier == nil {
		notifier = notify.Log{}
	}
	return &Service{
		games:     games,
		notifier:  notifier,
		metrics:   recorder,
		workflows: make(map[domain.GameName]workflow),
	}
}

// Register makes src ingestible under its game name. It is not safe to call
// concurrently with Ingest.
func Register[N, B any](s *Service, src Source[N, B]) {
	s.workflows[src.Game()] = func(ctx context.Context, date domain.Date, rep *Report) string {
		return run(ctx, s, src, date, rep)
	}
}

func (s *Service) Games() []domain.GameName {
	games := make([]domain.GameName, 0, len(s.workflows))
	for _, g := range domain.Games() {
		if _, ok := s.workflows[g]; ok {
			games = append(games, g)
		}
	}
	return games
}

// Ingest stores the draw of game on date if it is not stored yet. Every
// fault ends up in the report; the error is reserved for unregistered games.
func (s *Service) Ingest(ctx context.Context, game domain.GameName, date domain.Date) (Report, error) {
	wf, ok := s.workflows[game]
	if !ok {
		return Report{}, fmt.Errorf("game %q is not registered: %w", game, constants.ErrUnknownGame)
	}

	rep := Report{RunID: uuid.NewString(), Game: game, Date: date}
	ctx = logger.WithFields(ctx, "run_id", rep.RunID, "game", string(game), "date", date.String())

	start := time.Now()
	logger.Info(ctx, "ingestion started")

	body := s.execute(ctx, wf, date, &rep)

	took := time.Since(start)
	s.metrics.RecordIngestion(string(game), string(rep.Outcome), took)
	if rep.Err != nil {
		logger.Error(ctx, "ingestion failed", "outcome", rep.Outcome, "error", rep.Err, "took", took)
	} else {
		logger.Info(ctx, "ingestion finished", "outcome", rep.Outcome, "year_added", rep.YearAdded, "took", took)
	}

	s.notifier.Notify(ctx, Subject(rep), body)
	return rep, nil
}

func (s *Service) execute(ctx context.Context, wf workflow, date domain.Date, rep *Report) (body string) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			rep.Outcome = OutcomeFailed
			rep.Err = fmt.Errorf("panic: %v", r)
			body = failureBody(rep, stack)
		}
	}()

	return wf(ctx, date, rep)
}

func run[N, B any](ctx context.Context, s *Service, src Source[N, B], date domain.Date, rep *Report) string {
	title := src.Game().Title()

	exists, err := src.Exists(ctx, date)
	if err != nil {
		return s.fail(rep, fmt.Errorf("check existing: %w", err))
	}
	if exists {
		rep.Outcome = OutcomeAlreadyExists
		return notify.Text(title, fmt.Sprintf("The draw of %s is already stored.", date))
	}

	numbers, err := src.FetchNumbers(ctx, date)
	if err != nil && !errors.Is(err, constants.ErrNotFound) {
		return s.fail(rep, fmt.Errorf("fetch numbers: %w", err))
	}

	breakdown, err := src.FetchBreakdown(ctx, date)
	if err != nil && !errors.Is(err, constants.ErrNotFound) {
		return s.fail(rep, fmt.Errorf("fetch breakdown: %w", err))
	}

	if numbers == nil {
		rep.Outcome = OutcomeMissingNumbers
		return notify.Text(title, fmt.Sprintf("The numbers of %s are not published yet.", date))
	}
	if breakdown == nil {
		rep.Outcome = OutcomeMissingBreakdown
		return notify.Text(title, fmt.Sprintf("The prize breakdown of %s is not published yet.", date))
	}

	if err = s.registerYear(ctx, src.Game(), date.Year(), rep); err != nil {
		return s.fail(rep, fmt.Errorf("register year: %w", err))
	}

	if err = src.Save(ctx, numbers, breakdown); err != nil {
		if errors.Is(err, constants.ErrDuplicateResult) {
			rep.Outcome = OutcomeAlreadyExists
			return notify.Text(title, fmt.Sprintf("The draw of %s was stored by another run.", date))
		}
		return s.fail(rep, fmt.Errorf("save: %w", err))
	}

	rep.Outcome = OutcomeStored
	return src.Render(numbers, breakdown)
}

// registerYear appends year to the game and announces it the first time.
func (s *Service) registerYear(ctx context.Context, game domain.GameName, year int, rep *Report) error {
	added, err := s.games.AppendYear(ctx, game, year)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}

	rep.YearAdded = true
	logger.Infof(ctx, "year %d added to %s", year, game)
	s.notifier.Notify(ctx,
		fmt.Sprintf("%s: year %d added", game.Title(), year),
		notify.Text(game.Title(), fmt.Sprintf("Year %d is now available.", year)),
	)
	return nil
}

func (s *Service) fail(rep *Report, err error) string {
	rep.Outcome = OutcomeFailed
	rep.Err = err
	return failureBody(rep, nil)
}

// Subject is the notification subject of a terminal outcome.
func Subject(rep Report) string {
	subject := fmt.Sprintf("%s results for %s", rep.Game.Title(), rep.Date)
	switch rep.Outcome {
	case OutcomeAlreadyExists:
		return subject + ": already stored"
	case OutcomeMissingNumbers:
		return subject + ": numbers missing"
	case OutcomeMissingBreakdown:
		return subject + ": breakdown missing"
	case OutcomeFailed:
		return subject + ": failed"
	}
	return subject
}

func failureBody(rep *Report, stack []byte) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run: %s\ngame: %s\ndate: %s\n\n", rep.RunID, rep.Game, rep.Date)
	sb.WriteString(errorChain(rep.Err))
	if len(stack) > 0 {
		sb.WriteString("\n")
		sb.Write(stack)
	}
	return notify.Text("Ingestion failed", sb.String())
}

// errorChain lists err and every error it wraps, outermost first.
func errorChain(err error) string {
	var sb strings.Builder
	for depth := 0; err != nil; depth++ {
		fmt.Fprintf(&sb, "%s%s\n", strings.Repeat("  ", depth), err.Error())
		err = errors.Unwrap(err)
	}
	return sb.String()
}
