package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/dto"
	"eduassist/internal/logger"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// HomeworkService assigns homework and reminds parents.
type HomeworkService interface {
	List(ctx context.Context) ([]dto.HomeworkResponse, error)
	Create(ctx context.Context, hw *domain.Homework) (*dto.CreateHomeworkResponse, error)
	Delete(ctx context.Context, id string) error
}

type homeworkService struct {
	repo     domain.HomeworkRepository
	students domain.StudentRepository
	messages MessageService
	notifier NotificationService
	now      func() time.Time
}

func NewHomeworkService(
	repo domain.HomeworkRepository,
	students domain.StudentRepository,
	messages MessageService,
	notifier NotificationService,
) HomeworkService {
	return &homeworkService{
		repo:     repo,
		students: students,
		messages: messages,
		notifier: notifier,
		now:      time.Now,
	}
}

// List is sorted by deadline, soonest first, with flags computed now.
func (s *homeworkService) List(ctx context.Context) ([]dto.HomeworkResponse, error) {
	items, err := s.repo.ListHomework(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b *domain.Homework) int {
		return a.Deadline.Compare(b.Deadline)
	})
	now := s.now()
	return lo.Map(items, func(h *domain.Homework, _ int) dto.HomeworkResponse {
		return dto.ToHomeworkResponse(h, now)
	}), nil
}

// Create saves the homework, then reminds every parent in the class. The
// homework is marked notified once at least one reminder was delivered.
func (s *homeworkService) Create(ctx context.Context, hw *domain.Homework) (*dto.CreateHomeworkResponse, error) {
	now := s.now()
	hw.Subject = strings.TrimSpace(hw.Subject)
	hw.ClassName = strings.TrimSpace(hw.ClassName)
	hw.Content = strings.TrimSpace(hw.Content)
	hw.Notified = false
	if err := hw.Validate(now); err != nil {
		return nil, err
	}
	if err := s.repo.CreateHomework(ctx, hw); err != nil {
		return nil, err
	}

	resp := &dto.CreateHomeworkResponse{}
	students, err := s.students.ListStudentsByClass(ctx, hw.ClassName)
	if err != nil {
		// The homework is saved; only the reminder is lost.
		logger.Get().Warn("Failed to load class for homework reminder", zap.String("class", hw.ClassName), zap.Error(err))
		resp.Homework = dto.ToHomeworkResponse(hw, now)
		return resp, nil
	}

	resp.Reminder.Saved = 1
	if len(students) > 0 {
		body := s.messages.HomeworkReminder(ctx, hw.Subject, hw.Content, hw.Deadline)
		for _, st := range students {
			tally(&resp.Reminder, s.notifier.NotifyParent(ctx, st, "Nhắc bài tập - "+st.Name, body))
		}
	}

	if resp.Reminder.Notified > 0 {
		if err := s.repo.MarkNotified(ctx, hw.ID); err != nil {
			logger.Get().Warn("Failed to mark homework notified", zap.String("homework_id", hw.ID), zap.Error(err))
		} else {
			hw.Notified = true
		}
	}
	logger.Get().Info("Homework assigned",
		zap.String("homework_id", hw.ID),
		zap.String("class", hw.ClassName),
		zap.Int("notified", resp.Reminder.Notified),
		zap.Int("failed", resp.Reminder.Failed),
		zap.Int("skipped", resp.Reminder.Skipped))

	resp.Homework = dto.ToHomeworkResponse(hw, now)
	return resp, nil
}

func (s *homeworkService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteHomework(ctx, id)
}
