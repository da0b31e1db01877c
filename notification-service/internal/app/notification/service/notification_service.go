package service

import (
	"context"
	"fmt"

	"booknest/notification-service/internal/app/notification/entity"
	"booknest/pkg/logger"
	"booknest/pkg/metrics"
)

// NotificationService превращает события Kafka в письма.
// Письма по выдаче и возврату уходят читателю, письма о новых отзывах
// и заявках на регистрацию - администратору.
type NotificationService struct {
	mailer     Mailer
	adminEmail string
}

func NewNotificationService(mailer Mailer, adminEmail string) *NotificationService {
	return &NotificationService{
		mailer:     mailer,
		adminEmail: adminEmail,
	}
}

// HandleLibraryEvent обрабатывает событие Library Service
func (s *NotificationService) HandleLibraryEvent(ctx context.Context, event *entity.NotificationEvent) error {
	switch event.EventType {
	case entity.EventBookBorrowed:
		return s.send(ctx, TemplateBorrowed, event.MemberEmail, map[string]string{
			"MemberName": event.MemberName,
			"BookName":   event.BookName,
			"DueDate":    formatEmailDate(event.DueDate),
		})

	case entity.EventBookReturned:
		return s.send(ctx, TemplateReturned, event.MemberEmail, map[string]string{
			"MemberName": event.MemberName,
			"BookName":   event.BookName,
			"BorrowedAt": formatEmailDate(event.BorrowedAt),
			"DueDate":    formatEmailDate(event.DueDate),
			"ReturnedAt": formatEmailDate(event.ReturnedAt),
		})

	case entity.EventReviewCreated:
		return s.send(ctx, TemplateReview, s.adminEmail, map[string]string{
			"MemberName": event.MemberName,
			"BookName":   event.BookName,
		})

	default:
		// Неизвестный тип события не является ошибкой обработки:
		// producer новее consumer при раскатке
		logger.Warn().Str("event_type", event.EventType).Msg("skipping unknown library event")
		return nil
	}
}

// HandleRegistrationEvent обрабатывает событие Auth Service
func (s *NotificationService) HandleRegistrationEvent(ctx context.Context, event *entity.RegistrationEvent) error {
	if event.EventType != entity.EventStudentRegistered {
		logger.Warn().Str("event_type", event.EventType).Msg("skipping unknown auth event")
		return nil
	}

	return s.send(ctx, TemplateNewStudent, s.adminEmail, map[string]string{
		"Name":  event.Name,
		"Email": event.Email,
	})
}

func (s *NotificationService) send(ctx context.Context, templateName, to string, data map[string]string) error {
	subject, body, err := renderEmail(templateName, data)
	if err != nil {
		metrics.EmailsSent.WithLabelValues(templateName, "failed").Inc()
		return err
	}

	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		metrics.EmailsSent.WithLabelValues(templateName, "failed").Inc()
		return fmt.Errorf("failed to send %s email to %s: %w", templateName, to, err)
	}

	metrics.EmailsSent.WithLabelValues(templateName, "success").Inc()
	logger.Info().
		Str("template", templateName).
		Str("to", to).
		Msg("Email sent")

	return nil
}
