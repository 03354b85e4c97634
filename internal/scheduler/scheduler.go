package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ghostplan/matrix/internal/config"
	"github.com/ghostplan/matrix/internal/service/editor"
	"github.com/ghostplan/matrix/internal/service/snapshot"
)

// sweepSchedule reclaims abandoned edit sessions every ten minutes.
const sweepSchedule = "*/10 * * * *"

// Scheduler manages scheduled tasks: matrix snapshot exports and edit
// session sweeps.
type Scheduler struct {
	cron        *cron.Cron
	snapshotSvc *snapshot.Service
	registry    *editor.Registry
	cfg         config.Config
	logger      *zap.Logger
}

// NewScheduler creates a new scheduler instance. snapshotSvc may be nil
// when snapshot export is disabled.
func NewScheduler(cfg config.Config, snapshotSvc *snapshot.Service, registry *editor.Registry, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour,
	// dom, month, dow).
	c := cron.New()

	return &Scheduler{
		cron:        c,
		snapshotSvc: snapshotSvc,
		registry:    registry,
		cfg:         cfg,
		logger:      logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if s.cfg.Snapshot.Enabled && s.snapshotSvc != nil {
		if _, err := s.cron.AddFunc(s.cfg.Snapshot.CronSchedule, s.exportSnapshots); err != nil {
			s.logger.Error("failed to schedule snapshot export", zap.Error(err))
		}
	}

	if s.registry != nil {
		if _, err := s.cron.AddFunc(sweepSchedule, s.sweepSessions); err != nil {
			s.logger.Error("failed to schedule session sweep", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) exportSnapshots() {
	s.logger.Info("exporting matrix snapshots", zap.Int("jobs", len(s.cfg.Snapshot.Jobs)))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.snapshotSvc.ExportAll(ctx, s.cfg.Snapshot.Jobs)
}

func (s *Scheduler) sweepSessions() {
	if evicted := s.registry.SweepExpired(); evicted > 0 {
		s.logger.Info("swept expired edit sessions", zap.Int("evicted", evicted))
	}
}
