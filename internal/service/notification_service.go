package service

import (
	"context"

	"eduassist/internal/domain"
	"eduassist/internal/dto"
	"eduassist/internal/logger"
	"eduassist/internal/metrics"

	"go.uber.org/zap"
)

// NotifyOutcome is the result of one parent notification.
type NotifyOutcome string

const (
	OutcomeSent    NotifyOutcome = "sent"
	OutcomeFailed  NotifyOutcome = "failed"
	OutcomeSkipped NotifyOutcome = "skipped"
)

// NotificationService delivers messages to a student's parent.
type NotificationService interface {
	NotifyParent(ctx context.Context, student *domain.Student, subject, body string) NotifyOutcome
}

type notificationService struct {
	email domain.Notifier
	sms   domain.Notifier
}

// NewNotificationService takes nil for a disabled channel.
func NewNotificationService(email, sms domain.Notifier) NotificationService {
	return &notificationService{email: email, sms: sms}
}

// NotifyParent prefers email, then SMS; it skips students without a usable contact.
func (s *notificationService) NotifyParent(ctx context.Context, student *domain.Student, subject, body string) NotifyOutcome {
	var notifier domain.Notifier
	var to string
	switch {
	case student.ParentEmail != "" && s.email != nil:
		notifier, to = s.email, student.ParentEmail
	case student.ParentPhone != "" && s.sms != nil:
		notifier, to = s.sms, student.ParentPhone
	default:
		logger.Get().Debug("No parent contact for notification", zap.String("student_id", student.ID))
		metrics.Notifications.WithLabelValues("none", string(OutcomeSkipped)).Inc()
		return OutcomeSkipped
	}

	recipient := student.ParentName
	if recipient == "" {
		recipient = "Phụ huynh"
	}
	err := notifier.Send(ctx, domain.Notification{
		Channel:       notifier.Channel(),
		RecipientName: recipient,
		To:            to,
		Subject:       subject,
		Body:          body,
	})
	channel := string(notifier.Channel())
	if err != nil {
		logger.Get().Warn("Parent notification failed",
			zap.String("student_id", student.ID),
			zap.String("channel", channel),
			zap.Error(err))
		metrics.Notifications.WithLabelValues(channel, string(OutcomeFailed)).Inc()
		return OutcomeFailed
	}
	metrics.Notifications.WithLabelValues(channel, string(OutcomeSent)).Inc()
	return OutcomeSent
}

// tally adds one outcome to a fan-out result.
func tally(r *dto.NotifyResult, o NotifyOutcome) {
	switch o {
	case OutcomeSent:
		r.Notified++
	case OutcomeFailed:
		r.Failed++
	default:
		r.Skipped++
	}
}
