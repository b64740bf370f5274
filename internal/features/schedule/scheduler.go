package schedule

import (
	"context"
	"fmt"
	"sync"

	"go-studio-crm/internal/config"
	"go-studio-crm/internal/features/comments"
	"go-studio-crm/internal/features/export"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic maintenance jobs: a nightly comment sync
// sweep over all converted clients and, when a reporting database is
// configured, a reporting export right after it.
type Scheduler struct {
	mu        sync.Mutex
	scheduler *cron.Cron
	comments  comments.CommentService
	export    export.ExportService
	config    *config.Config
	logger    *zap.Logger
}

func NewScheduler(
	commentService comments.CommentService,
	exportService export.ExportService,
	cfg *config.Config,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		comments: commentService,
		export:   exportService,
		config:   cfg,
		logger:   logger,
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler = cron.New()

	if _, err := s.scheduler.AddFunc(s.config.SyncSweepSpec, s.runSweep); err != nil {
		return fmt.Errorf("failed to register sync sweep job: %w", err)
	}
	if s.export.Enabled() {
		if _, err := s.scheduler.AddFunc(s.config.SyncSweepSpec, s.runExport); err != nil {
			return fmt.Errorf("failed to register export job: %w", err)
		}
	}

	s.scheduler.Start()
	s.logger.Info("scheduler started", zap.String("sweepSpec", s.config.SyncSweepSpec))
	return nil
}

func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *Scheduler) runSweep() {
	result, err := s.comments.Diagnostics().Sweep(context.Background())
	if err != nil {
		s.logger.Error("scheduled sync sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled sync sweep finished",
		zap.Int("clients", result.Clients),
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed))
}

func (s *Scheduler) runExport() {
	if _, err := s.export.Run(context.Background()); err != nil {
		s.logger.Error("scheduled reporting export failed", zap.Error(err))
	}
}
