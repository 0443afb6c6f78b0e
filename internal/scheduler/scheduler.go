package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/commercecopilot/atomic-analyzer/internal/analyzer"
	"github.com/commercecopilot/atomic-analyzer/internal/config"
)

// Scheduler runs the full analysis on a cron schedule and prunes old
// runs afterwards
type Scheduler struct {
	cfg     config.SchedulerConfig
	service *analyzer.Service
	cron    *cron.Cron
	logger  *slog.Logger
}

// New creates a scheduler. Call Start to begin running jobs.
func New(cfg config.SchedulerConfig, service *analyzer.Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		service: service,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the analysis job and starts the cron loop. Disabled
// configuration makes Start a no-op.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("Scheduled analysis disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Schedule, s.runOnce)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Scheduled analysis enabled", "schedule", s.cfg.Schedule)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runOnce() {
	ctx := context.Background()

	result, err := s.service.RunFull(ctx)
	if err != nil {
		s.logger.Error("Scheduled analysis failed", "error", err)
		return
	}
	s.logger.Info("Scheduled analysis finished", "analysis_id", result.ID, "score", result.OverallScore)

	if _, err := s.service.Prune(ctx); err != nil {
		s.logger.Error("Failed to prune old analyses", "error", err)
	}
}
