package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/backspace-weather/internal/logging"
	"github.com/i474232898/backspace-weather/internal/weather"
)

// Prober is the part of the weather service the scheduler drives.
type Prober interface {
	Probe(ctx context.Context) []weather.ProbeResult
}

// Scheduler periodically probes the upstream services.
type Scheduler struct {
	scheduler *gocron.Scheduler
	prober    Prober
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler. timeout bounds a single probe run.
func New(interval, timeout time.Duration, prober Prober, logger *zap.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		prober:    prober,
		interval:  interval,
		timeout:   timeout,
		logger:    logging.Subsystem(logger, "probe"),
	}
}

// Start schedules the probe job and starts the underlying scheduler. A
// non-positive interval disables probing.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: probe interval not set; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	s.logger.Debug("scheduler: running upstream probe")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	results := s.prober.Probe(ctx)

	failed := 0
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}
	s.logger.Info("scheduler: completed upstream probe",
		zap.Int("checked", len(results)),
		zap.Int("failed", failed))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
