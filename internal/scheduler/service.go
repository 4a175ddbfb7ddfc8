package scheduler

import (
	"context"
	"time"

	"github.com/brandpulse/mentions-dashboard/internal/config"
	"github.com/brandpulse/mentions-dashboard/internal/mentions"
	"github.com/brandpulse/mentions-dashboard/internal/models"
	"github.com/brandpulse/mentions-dashboard/internal/notifications"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// digestPageSize bounds how many negative mentions one digest carries.
const digestPageSize = 10

// Service runs the negative-mentions digest on a cron schedule. Each run
// queries the live pipeline; a failed run is logged and skipped, it never
// affects API queries.
type Service struct {
	config              *config.Config
	mentionService      *mentions.Service
	notificationService notifications.NotificationInterface
	cron                *cron.Cron
}

// NewService creates a new digest scheduler
func NewService(cfg *config.Config, mentionService *mentions.Service, notificationService notifications.NotificationInterface) *Service {
	return &Service{
		config:              cfg,
		mentionService:      mentionService,
		notificationService: notificationService,
		cron:                cron.New(),
	}
}

// Start begins the scheduled digest runs. A missing schedule disables the
// digest entirely.
func (s *Service) Start() error {
	if s.config.DigestSchedule == "" {
		logrus.Info("No digest schedule configured, digest disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.DigestSchedule, func() {
		logrus.Info("Starting scheduled digest run")
		if err := s.RunDigest(context.Background()); err != nil {
			logrus.Errorf("Scheduled digest run failed: %v", err)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Digest scheduler started with schedule %q", s.config.DigestSchedule)
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Digest scheduler stopped")
	}
}

// RunDigest queries the highest-impact negative mentions and sends a
// digest when any exist.
func (s *Service) RunDigest(ctx context.Context) error {
	resp, err := s.mentionService.QueryMentions(ctx, models.Query{
		Network:   "all",
		Sentiment: "negative",
		SortField: "impact",
		SortDir:   "desc",
		Page:      1,
		PageSize:  digestPageSize,
	})
	if err != nil {
		return err
	}

	if resp.Summary.Negative == 0 {
		logrus.Info("No negative mentions found, skipping digest")
		return nil
	}

	digest := &notifications.Digest{
		GeneratedAt: time.Now().UTC(),
		PageName:    s.config.FBPageName,
		Summary:     resp.Summary,
		Mentions:    resp.Mentions,
	}

	logrus.Infof("Sending digest with %d negative mentions", resp.Summary.Negative)
	return s.notificationService.SendDigest(digest)
}
