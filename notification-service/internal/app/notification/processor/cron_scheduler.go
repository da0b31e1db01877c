package processor

import (
	"context"

	"booknest/notification-service/internal/app/notification/service"
	"booknest/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler запускает утренние напоминания по расписанию.
// Два задания: срок возврата сегодня и просрочка ровно в 3 дня.
type CronScheduler struct {
	cron        *cron.Cron
	reminderSvc *service.ReminderService
}

func NewCronScheduler(reminderSvc *service.ReminderService) *CronScheduler {
	return &CronScheduler{
		cron:        cron.New(),
		reminderSvc: reminderSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, dueTodaySchedule, postDueSchedule string) error {
	logger.Info().
		Str("due_today", dueTodaySchedule).
		Str("post_due", postDueSchedule).
		Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(dueTodaySchedule, func() {
		logger.Info().Msg("Cron job triggered: due-today reminders")
		if err := s.reminderSvc.SendDueTodayReminders(ctx); err != nil {
			logger.Error().Err(err).Msg("Due-today reminder run failed")
		}
	})
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc(postDueSchedule, func() {
		logger.Info().Msg("Cron job triggered: post-due reminders")
		if err := s.reminderSvc.SendPostDueReminders(ctx); err != nil {
			logger.Error().Err(err).Msg("Post-due reminder run failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")

	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
