// Package scheduler triggers the ingestion of yesterday's draw on a cron cadence.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ougirez/canlotto/internal/domain"
	"github.com/ougirez/canlotto/internal/pkg/logger"
	"github.com/ougirez/canlotto/internal/service/ingest"
	"github.com/robfig/cron/v3"
)

const DefaultTimezone = "America/Toronto"

type Ingester interface {
	Ingest(ctx context.Context, game domain.GameName, date domain.Date) (ingest.Report, error)
}

type Scheduler struct {
	cron     *cron.Cron
	ingester Ingester
	loc      *time.Location
	now      func() time.Time
}

func New(ingester Ingester, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	l := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		ingester: ingester,
		loc:      loc,
		now:      time.Now,
	}
}

// LoadLocation resolves a timezone name, defaulting to DefaultTimezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", name, err)
	}
	return loc, nil
}

// Add schedules the ingestion of game with a standard five field cron spec.
func (s *Scheduler) Add(game domain.GameName, spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background(), game) }); err != nil {
		return fmt.Errorf("schedule %s %q: %w", game, spec, err)
	}
	return nil
}

// RunOnce ingests the draw of game dated yesterday in the scheduler timezone.
func (s *Scheduler) RunOnce(ctx context.Context, game domain.GameName) ingest.Report {
	date := Yesterday(s.now(), s.loc)
	rep, err := s.ingester.Ingest(ctx, game, date)
	if err != nil {
		logger.Errorf(ctx, "scheduled ingestion of %s %s: %v", game, date, err)
	}
	return rep
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func Yesterday(now time.Time, loc *time.Location) domain.Date {
	y, m, d := now.In(loc).AddDate(0, 0, -1).Date()
	return domain.NewDate(y, m, d)
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug(context.Background(), "cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error(context.Background(), "cron: "+msg, append(keysAndValues, "error", err)...)
}
