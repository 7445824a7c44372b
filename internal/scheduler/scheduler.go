package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Reporter renders the messages the scheduler broadcasts.
type Reporter interface {
	GetRanking() string
	GetMatches() string
}

type Scheduler struct {
	s           gocron.Scheduler
	reporter    Reporter
	rankingCron string
	sendMessage func(string) error
}

func NewScheduler(reporter Reporter, rankingCron, timezone string, sendMessage func(string) error) (*Scheduler, error) {
	var opts []gocron.SchedulerOption
	location, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Error("Failed to load location", "timezone", timezone, "error", err)
	} else {
		opts = append(opts, gocron.WithLocation(location))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		reporter:    reporter,
		rankingCron: rankingCron,
		sendMessage: sendMessage,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.CronJob(s.rankingCron, false),
		gocron.NewTask(s.sendRanking),
	)
	if err != nil {
		return fmt.Errorf("failed to create ranking job: %w", err)
	}

	// Match card - Sunday 10:00 local
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Sunday), gocron.NewAtTimes(gocron.NewAtTime(10, 0, 0))),
		gocron.NewTask(s.sendMatches),
	)
	if err != nil {
		return fmt.Errorf("failed to create matches job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) sendRanking() {
	if err := s.sendMessage(s.reporter.GetRanking()); err != nil {
		slog.Error("Failed to send ranking", "error", err)
	}
}

func (s *Scheduler) sendMatches() {
	if err := s.sendMessage(s.reporter.GetMatches()); err != nil {
		slog.Error("Failed to send matches", "error", err)
	}
}
