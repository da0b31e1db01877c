package service

import (
	"context"
	"time"

	"booknest/notification-service/internal/app/notification/entity"
	"booknest/notification-service/internal/app/notification/repository"
	"booknest/pkg/logger"
	"booknest/pkg/metrics"
)

// Сколько дней просрочки должно накопиться для повторного напоминания
const postDueDays = 3

// ReminderService рассылает cron-напоминания о сроках возврата.
// Обходит читателей с книгами на руках и сверяет срок каждой выдачи
// с сегодняшней датой.
type ReminderService struct {
	repo   repository.ReminderRepository
	mailer Mailer
}

func NewReminderService(repo repository.ReminderRepository, mailer Mailer) *ReminderService {
	return &ReminderService{repo: repo, mailer: mailer}
}

// SendDueTodayReminders шлет напоминания по книгам со сроком возврата сегодня
func (s *ReminderService) SendDueTodayReminders(ctx context.Context) error {
	return s.run(ctx, "due_today", TemplateDueReminder, func(due, today time.Time) bool {
		return due.Equal(today)
	})
}

// SendPostDueReminders шлет напоминания по книгам, просроченным ровно на 3 дня.
// Ровно, а не "не меньше": иначе читатель получал бы письмо каждый день.
func (s *ReminderService) SendPostDueReminders(ctx context.Context) error {
	return s.run(ctx, "post_due", TemplatePostDue, func(due, today time.Time) bool {
		// AddDate вместо арифметики на Duration, чтобы переход на летнее
		// время не ломал сравнение дат
		return due.AddDate(0, 0, postDueDays).Equal(today)
	})
}

func (s *ReminderService) run(ctx context.Context, job, templateName string, match func(due, today time.Time) bool) error {
	today := midnight(time.Now())

	members, err := s.repo.ListMembersWithBorrows(ctx)
	if err != nil {
		metrics.ReminderRuns.WithLabelValues(job, "failed").Inc()
		return err
	}

	sent := 0
	for _, member := range members {
		for _, record := range member.BorrowedBooks {
			if !match(midnight(record.DueDate), today) {
				continue
			}

			if err := s.sendReminder(ctx, templateName, &member, record); err != nil {
				// Одно неотправленное письмо не должно останавливать рассылку
				logger.Warn().
					Err(err).
					Str("member_id", member.ID).
					Str("book_id", record.BookID.Hex()).
					Msg("failed to send reminder")
				continue
			}
			sent++
		}
	}

	metrics.ReminderRuns.WithLabelValues(job, "success").Inc()
	logger.Info().
		Str("job", job).
		Int("emails_sent", sent).
		Msg("Reminder run completed")

	return nil
}

func (s *ReminderService) sendReminder(ctx context.Context, templateName string, member *entity.Member, record entity.BorrowRecord) error {
	bookName := "Your borrowed book"
	if book, err := s.repo.GetBook(ctx, record.BookID); err == nil {
		bookName = book.Name
	}

	subject, body, err := renderEmail(templateName, map[string]string{
		"MemberName": member.Name,
		"BookName":   bookName,
		"DueDate":    formatEmailDate(record.DueDate),
	})
	if err != nil {
		metrics.EmailsSent.WithLabelValues(templateName, "failed").Inc()
		return err
	}

	if err := s.mailer.Send(ctx, member.Email, subject, body); err != nil {
		metrics.EmailsSent.WithLabelValues(templateName, "failed").Inc()
		return err
	}

	metrics.EmailsSent.WithLabelValues(templateName, "success").Inc()
	return nil
}

// midnight обнуляет время, оставляя дату
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
