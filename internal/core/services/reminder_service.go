package services

import (
	"context"
	"time"

	"creditline/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderService scans for overdue installments every morning and hands the
// result to the notification service.
type ReminderService struct {
	installmentRepo repositories.InstallmentRepository
	notifyService   *NotificationService
	cron            *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(installmentRepo repositories.InstallmentRepository, notifyService *NotificationService) *ReminderService {
	return &ReminderService{
		installmentRepo: installmentRepo,
		notifyService:   notifyService,
		cron:            cron.New(),
	}
}

// Start schedules the daily overdue scan at 08:30
func (s *ReminderService) Start() {
	if _, err := s.cron.AddFunc("30 8 * * *", s.RunOverdueScan); err != nil {
		logrus.WithError(err).Error("failed to schedule overdue scan")
		return
	}
	s.cron.Start()
	logrus.Info("reminder service started, overdue scan at 08:30 daily")
}

// Stop stops the scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
	logrus.Info("reminder service stopped")
}

// RunOverdueScan finds unpaid installments due before today and reports them
func (s *ReminderService) RunOverdueScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	overdue, err := s.installmentRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		logrus.WithError(err).Error("overdue scan failed")
		return
	}

	if len(overdue) == 0 {
		logrus.Debug("overdue scan found nothing")
		return
	}

	logrus.WithField("count", len(overdue)).Warn("overdue installments found")
	if s.notifyService != nil {
		s.notifyService.NotifyOverdueDigest(overdue)
	}
}
