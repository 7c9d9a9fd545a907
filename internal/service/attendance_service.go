package service

import (
	"context"
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/dto"
	"eduassist/internal/logger"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const weekDays = 7

// AttendanceService records daily attendance and notifies parents of absences.
type AttendanceService interface {
	Get(ctx context.Context, date time.Time) (*dto.AttendanceResponse, error)
	Save(ctx context.Context, date time.Time, statuses map[string]domain.AttendanceStatus, notify bool) (dto.NotifyResult, error)
	Summary(ctx context.Context, date time.Time) (dto.AttendanceSummaryResponse, error)
	Week(ctx context.Context, end time.Time) ([]dto.AttendanceSummaryResponse, error)
}

type attendanceService struct {
	students domain.StudentRepository
	repo     domain.AttendanceRepository
	tx       domain.TransactionManager
	messages MessageService
	notifier NotificationService
	now      func() time.Time
}

func NewAttendanceService(
	students domain.StudentRepository,
	repo domain.AttendanceRepository,
	tx domain.TransactionManager,
	messages MessageService,
	notifier NotificationService,
) AttendanceService {
	return &attendanceService{
		students: students,
		repo:     repo,
		tx:       tx,
		messages: messages,
		notifier: notifier,
		now:      time.Now,
	}
}

// Get lists every student for date; unrecorded students are present.
func (s *attendanceService) Get(ctx context.Context, date time.Time) (*dto.AttendanceResponse, error) {
	day := date.Format(domain.DateLayout)
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	sheet, err := s.repo.GetSheet(ctx, day)
	if err != nil {
		return nil, err
	}

	resp := &dto.AttendanceResponse{
		Date: day,
		Entries: lo.Map(students, func(st *domain.Student, _ int) dto.AttendanceEntry {
			return dto.AttendanceEntry{
				StudentID: st.ID,
				Name:      st.Name,
				ClassName: st.ClassName,
				Status:    string(sheet.StatusOf(st.ID)),
			}
		}),
	}
	if !sheet.UpdatedAt.IsZero() {
		updated := sheet.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp, nil
}

// Save replaces the sheet for date in one transaction and then, when notify
// is set, messages the parents of absent students.
func (s *attendanceService) Save(ctx context.Context, date time.Time, statuses map[string]domain.AttendanceStatus, notify bool) (dto.NotifyResult, error) {
	var result dto.NotifyResult
	day := date.Format(domain.DateLayout)

	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return result, err
	}
	known := lo.KeyBy(students, func(st *domain.Student) string { return st.ID })

	var errs domain.ValidationErrors
	for id, status := range statuses {
		if _, ok := known[id]; !ok {
			errs = append(errs, domain.NewInvalidFormatError("statuses."+id, id))
		} else if !status.Valid() {
			errs = append(errs, domain.NewInvalidFormatError("statuses."+id, status))
		}
	}
	if len(errs) > 0 {
		return result, errs
	}

	sheet := &domain.AttendanceSheet{
		Date:      day,
		Statuses:  make(map[string]domain.AttendanceStatus, len(students)),
		UpdatedAt: s.now().UTC(),
	}
	for _, st := range students {
		status, ok := statuses[st.ID]
		if !ok {
			status = domain.StatusPresent
		}
		sheet.Statuses[st.ID] = status
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.ReplaceSheet(txCtx, sheet)
	})
	if err != nil {
		return result, err
	}

	absent := lo.Filter(students, func(st *domain.Student, _ int) bool {
		return sheet.Statuses[st.ID] == domain.StatusAbsent
	})
	result.Saved = len(sheet.Statuses)
	result.Absent = len(absent)
	logger.Get().Info("Attendance saved", zap.String("date", day), zap.Int("students", result.Saved), zap.Int("absent", result.Absent))

	if !notify {
		result.Skipped = len(absent)
		return result, nil
	}
	for _, st := range absent {
		body := s.messages.AbsenceNotice(ctx, st, date)
		tally(&result, s.notifier.NotifyParent(ctx, st, "Thông báo vắng mặt - "+st.Name, body))
	}
	return result, nil
}

func (s *attendanceService) Summary(ctx context.Context, date time.Time) (dto.AttendanceSummaryResponse, error) {
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return dto.AttendanceSummaryResponse{}, err
	}
	return s.summarize(ctx, students, date)
}

// Week returns seven daily summaries ending at end, oldest first.
func (s *attendanceService) Week(ctx context.Context, end time.Time) ([]dto.AttendanceSummaryResponse, error) {
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AttendanceSummaryResponse, 0, weekDays)
	for i := weekDays - 1; i >= 0; i-- {
		summary, err := s.summarize(ctx, students, end.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *attendanceService) summarize(ctx context.Context, students []*domain.Student, date time.Time) (dto.AttendanceSummaryResponse, error) {
	day := date.Format(domain.DateLayout)
	sheet, err := s.repo.GetSheet(ctx, day)
	if err != nil {
		return dto.AttendanceSummaryResponse{}, err
	}
	absent := lo.CountBy(students, func(st *domain.Student) bool {
		return sheet.StatusOf(st.ID) == domain.StatusAbsent
	})
	return dto.AttendanceSummaryResponse{
		Date:    day,
		Present: len(students) - absent,
		Absent:  absent,
	}, nil
}
