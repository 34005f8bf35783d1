package scheduler

import (
	"context"
	"fmt"
	"time"

	"student_dropout_map/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DigestSender delivers one status digest.
type DigestSender interface {
	SendDigest(ctx context.Context, trigger string) error
}

type DigestScheduler struct {
	cronEngine     *cron.Cron
	digestService  DigestSender
	logger         *logrus.Entry
	cronSpecDigest string
	jobTimeout     time.Duration
}

func NewDigestScheduler(
	digestService DigestSender,
	logger *logrus.Entry,
	cronSpecDigest string, // e.g., "0 8 * * 1" (08:00 on Mondays)
) *DigestScheduler {
	return &DigestScheduler{
		cronEngine:     cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		digestService:  digestService,
		logger:         logger,
		cronSpecDigest: cronSpecDigest,
		jobTimeout:     2 * time.Minute,
	}
}

// Start registers the digest job and starts the cron engine.
func (s *DigestScheduler) Start() error {
	s.logger.Info("Starting digest scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpecDigest, s.runDigest); err != nil {
		return fmt.Errorf("could not add digest cron job %q: %w", s.cronSpecDigest, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecDigest).Info("Digest scheduler started")
	return nil
}

func (s *DigestScheduler) runDigest() {
	s.logger.Info("Cron job triggered for status digest")
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if err := s.digestService.SendDigest(ctx, app.TriggerScheduled); err != nil {
		s.logger.WithError(err).Error("Error during scheduled digest")
		return
	}
	s.logger.Info("Scheduled digest delivered")
}

func (s *DigestScheduler) Stop() {
	s.logger.Info("Stopping digest scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Digest scheduler gracefully stopped")
}
