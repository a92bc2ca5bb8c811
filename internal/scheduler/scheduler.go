package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/widget"
)

// Refresher re-runs the widget's last search.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler periodically refreshes the displayed weather.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Refresher
	interval  time.Duration
	timeout   time.Duration
	log       zerolog.Logger
}

// New creates a new Scheduler. A zero interval disables refreshing.
func New(target Refresher, interval time.Duration, log zerolog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
		timeout:   30 * time.Second,
		log:       log,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info().Msg("auto-refresh disabled")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}

	_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.log.Info().Int("minutes", minutes).Msg("auto-refresh scheduled")
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.target.Refresh(ctx)
	var ue *weather.UserError
	switch {
	case err == nil, errors.Is(err, widget.ErrSuperseded):
		s.log.Debug().Msg("refresh completed")
	case errors.As(err, &ue):
		s.log.Warn().Str("kind", string(ue.Kind)).Msg("refresh ended in error state")
	default:
		s.log.Error().Err(err).Msg("refresh failed")
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
