package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"eduassist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func roster() []*domain.Student {
	return []*domain.Student{
		{ID: "s1", Name: "Nguyễn Văn An", ClassName: "8A", ParentEmail: "an.parent@example.com"},
		{ID: "s2", Name: "Trần Thị Bình", ClassName: "8A", ParentPhone: "0912345678"},
		{ID: "s3", Name: "Lê Văn Cường", ClassName: "8A"},
	}
}

type classroomMocks struct {
	students *MockStudentRepository
	sheets   *MockAttendanceRepository
	homework *MockHomeworkRepository
	tx       *MockTransactionManager
	email    *MockNotifier
	sms      *MockNotifier
}

func newClassroomMocks() *classroomMocks {
	return &classroomMocks{
		students: new(MockStudentRepository),
		sheets:   new(MockAttendanceRepository),
		homework: new(MockHomeworkRepository),
		tx:       new(MockTransactionManager),
		email:    &MockNotifier{channel: domain.ChannelEmail},
		sms:      &MockNotifier{channel: domain.ChannelSMS},
	}
}

func (m *classroomMocks) attendance() *attendanceService {
	svc := NewAttendanceService(m.students, m.sheets, m.tx, NewMessageService(nil), NewNotificationService(m.email, m.sms))
	return svc.(*attendanceService)
}

func (m *classroomMocks) homeworkSvc(now time.Time) *homeworkService {
	svc := NewHomeworkService(m.homework, m.students, NewMessageService(nil), NewNotificationService(m.email, m.sms)).(*homeworkService)
	svc.now = func() time.Time { return now }
	return svc
}

var attendanceDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestAttendanceService_Get_DefaultsToPresent(t *testing.T) {
	m := newClassroomMocks()
	m.students.On("ListStudents", mock.Anything).Return(roster(), nil)
	updated := time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
	m.sheets.On("GetSheet", mock.Anything, "2025-03-10").Return(&domain.AttendanceSheet{
		Date:      "2025-03-10",
		Statuses:  map[string]domain.AttendanceStatus{"s2": domain.StatusAbsent},
		UpdatedAt: updated,
	}, nil)

	resp, err := m.attendance().Get(context.Background(), attendanceDay)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Date)
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, "present", resp.Entries[0].Status)
	assert.Equal(t, "absent", resp.Entries[1].Status)
	assert.Equal(t, "present", resp.Entries[2].Status)
	require.NotNil(t, resp.UpdatedAt)
	assert.Equal(t, updated, *resp.UpdatedAt)
}

func TestAttendanceService_Save_NotifiesAbsentParents(t *testing.T) {
	m := newClassroomMocks()
	m.students.On("ListStudents", mock.Anything).Return(roster(), nil)
	m.tx.On("WithTransaction", mock.Anything).Return(nil).Once()
	m.sheets.On("ReplaceSheet", mock.Anything, mock.MatchedBy(func(s *domain.AttendanceSheet) bool {
		return s.Date == "2025-03-10" && len(s.Statuses) == 3 &&
			s.Statuses["s1"] == domain.StatusAbsent &&
			s.Statuses["s2"] == domain.StatusAbsent &&
			s.Statuses["s3"] == domain.StatusAbsent
	})).Return(nil).Once()
	m.email.On("Send", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.To == "an.parent@example.com" && n.Subject == "Thông báo vắng mặt - Nguyễn Văn An"
	})).Return(nil).Once()
	m.sms.On("Send", mock.Anything, mock.Anything).Return(errors.New("gateway error")).Once()

	statuses := map[string]domain.AttendanceStatus{
		"s1": domain.StatusAbsent,
		"s2": domain.StatusAbsent,
		"s3": domain.StatusAbsent,
	}
	result, err := m.attendance().Save(context.Background(), attendanceDay, statuses, true)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Saved)
	assert.Equal(t, 3, result.Absent)
	assert.Equal(t, 1, result.Notified)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	m.tx.AssertExpectations(t)
	m.sheets.AssertExpectations(t)
	m.email.AssertExpectations(t)
}

func TestAttendanceService_Save_WithoutNotify(t *testing.T) {
	m := newClassroomMocks()
	m.students.On("ListStudents", mock.Anything).Return(roster(), nil)
	m.tx.On("WithTransaction", mock.Anything).Return(nil)
	m.sheets.On("ReplaceSheet", mock.Anything, mock.MatchedBy(func(s *domain.AttendanceSheet) bool {
		return s.Statuses["s1"] == domain.StatusAbsent && s.Statuses["s2"] == domain.StatusPresent
	})).Return(nil)

	result, err := m.attendance().Save(context.Background(), attendanceDay, map[string]domain.AttendanceStatus{"s1": domain.StatusAbsent}, false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Absent)
	assert.Equal(t, 1, result.Skipped)
	m.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestAttendanceService_Save_RejectsUnknownStudent(t *testing.T) {
	m := newClassroomMocks()
	m.students.On("ListStudents", mock.Anything).Return(roster(), nil)

	_, err := m.attendance().Save(context.Background(), attendanceDay, map[string]domain.AttendanceStatus{
		"ghost": domain.StatusAbsent,
		"s1":    "late",
	}, true)

	var fieldErrs domain.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)
	m.sheets.AssertNotCalled(t, "ReplaceSheet", mock.Anything, mock.Anything)
}

func TestAttendanceService_Save_StoreFailure(t *testing.T) {
	m := newClassroomMocks()
	m.students.On("ListStudents", mock.Anything).Return(roster(), nil)
	m.tx.On("WithTransaction", mock.Anything).Return(nil)
	m.sheets.On("ReplaceSheet", mock.Anything, mock.Anything).Return(domain.NewStoreUnavailableError(errors.New("down")))

	_, err := m.attendance().Save(context.Background(), attendanceDay, map[string]domain.AttendanceStatus{"s1": domain.StatusAbsent}, true)
	assert.True(t, domain.IsCode(err, domain.CodeStoreUnavailable))
	m.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestAttendanceService_Week(t *testing.T) {
	m := newClassroomMocks()
	m.students.On("ListStudents", mock.Anything).Return(roster(), nil).Once()
	m.sheets.On("GetSheet", mock.Anything, "2025-03-10").Return(&domain.AttendanceSheet{
		Statuses: map[string]domain.AttendanceStatus{"s1": domain.StatusAbsent, "s2": domain.StatusAbsent},
	}, nil)
	m.sheets.On("GetSheet", mock.Anything, mock.Anything).Return(&domain.AttendanceSheet{}, nil)

	week, err := m.attendance().Week(context.Background(), attendanceDay)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, "2025-03-04", week[0].Date)
	assert.Equal(t, 3, week[0].Present)
	assert.Equal(t, "2025-03-10", week[6].Date)
	assert.Equal(t, 1, week[6].Present)
	assert.Equal(t, 2, week[6].Absent)
}

func TestHomeworkService_Create_RemindsClass(t *testing.T) {
	m := newClassroomMocks()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	deadline := now.Add(48 * time.Hour)

	m.homework.On("CreateHomework", mock.Anything, mock.AnythingOfType("*domain.Homework")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Homework).ID = "hw1" }).
		Return(nil).Once()
	m.students.On("ListStudentsByClass", mock.Anything, "8A").Return(roster(), nil)
	m.email.On("Send", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Subject == "Nhắc bài tập - Nguyễn Văn An"
	})).Return(nil).Once()
	m.sms.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
	m.homework.On("MarkNotified", mock.Anything, "hw1").Return(nil).Once()

	resp, err := m.homeworkSvc(now).Create(context.Background(), &domain.Homework{
		Subject: " Toán ", ClassName: "8A", Content: "Bài 1-5 trang 40", Deadline: deadline,
	})

	require.NoError(t, err)
	assert.Equal(t, "hw1", resp.Homework.ID)
	assert.Equal(t, "Toán", resp.Homework.Subject)
	assert.True(t, resp.Homework.Notified)
	assert.Equal(t, 2, resp.Reminder.Notified)
	assert.Equal(t, 1, resp.Reminder.Skipped)
	m.homework.AssertExpectations(t)
}

func TestHomeworkService_Create_NobodyReached(t *testing.T) {
	m := newClassroomMocks()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	m.homework.On("CreateHomework", mock.Anything, mock.Anything).Return(nil)
	m.students.On("ListStudentsByClass", mock.Anything, "9B").Return([]*domain.Student{}, nil)

	resp, err := m.homeworkSvc(now).Create(context.Background(), &domain.Homework{
		Subject: "Văn", ClassName: "9B", Content: "Soạn bài", Deadline: now.Add(time.Hour),
	})

	require.NoError(t, err)
	assert.False(t, resp.Homework.Notified)
	m.homework.AssertNotCalled(t, "MarkNotified", mock.Anything, mock.Anything)
}

func TestHomeworkService_Create_PastDeadline(t *testing.T) {
	m := newClassroomMocks()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := m.homeworkSvc(now).Create(context.Background(), &domain.Homework{
		Subject: "Toán", ClassName: "8A", Content: "x", Deadline: now.Add(-time.Hour),
	})

	var fieldErrs domain.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "deadline", fieldErrs[0].Field)
	m.homework.AssertNotCalled(t, "CreateHomework", mock.Anything, mock.Anything)
}

func TestHomeworkService_List_SortedWithFlags(t *testing.T) {
	m := newClassroomMocks()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	m.homework.On("ListHomework", mock.Anything).Return([]*domain.Homework{
		{ID: "later", Deadline: now.Add(72 * time.Hour)},
		{ID: "overdue", Deadline: now.Add(-time.Hour)},
		{ID: "urgent", Deadline: now.Add(3 * time.Hour)},
	}, nil)

	list, err := m.homeworkSvc(now).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "overdue", list[0].ID)
	assert.True(t, list[0].Overdue)
	assert.Equal(t, "urgent", list[1].ID)
	assert.True(t, list[1].Urgent)
	assert.Equal(t, "later", list[2].ID)
	assert.False(t, list[2].Urgent)
}

func TestStudentService(t *testing.T) {
	ctx := context.Background()

	t.Run("list by class sorted by name", func(t *testing.T) {
		repo := new(MockStudentRepository)
		repo.On("ListStudentsByClass", mock.Anything, "8A").Return([]*domain.Student{
			{ID: "2", Name: "Bình"}, {ID: "1", Name: "an"},
		}, nil)

		list, err := NewStudentService(repo).List(ctx, " 8A ")
		require.NoError(t, err)
		assert.Equal(t, "1", list[0].ID)
		repo.AssertNotCalled(t, "ListStudents", mock.Anything)
	})

	t.Run("create normalizes", func(t *testing.T) {
		repo := new(MockStudentRepository)
		repo.On("CreateStudent", mock.Anything, mock.MatchedBy(func(s *domain.Student) bool {
			return s.Name == "An" && s.ParentEmail == "parent@example.com"
		})).Return(nil).Once()

		st, err := NewStudentService(repo).Create(ctx, &domain.Student{Name: " An ", ClassName: "8A", ParentEmail: " Parent@Example.com "})
		require.NoError(t, err)
		assert.Equal(t, "An", st.Name)
		repo.AssertExpectations(t)
	})

	t.Run("create requires name and class", func(t *testing.T) {
		repo := new(MockStudentRepository)
		_, err := NewStudentService(repo).Create(ctx, &domain.Student{Name: "  "})

		var fieldErrs domain.ValidationErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Len(t, fieldErrs, 2)
	})

	t.Run("update keeps created at", func(t *testing.T) {
		repo := new(MockStudentRepository)
		created := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
		repo.On("GetStudentByID", mock.Anything, "s1").Return(&domain.Student{ID: "s1", CreatedAt: created}, nil)
		repo.On("UpdateStudent", mock.Anything, mock.Anything).Return(nil)

		st, err := NewStudentService(repo).Update(ctx, "s1", &domain.Student{Name: "An", ClassName: "9A"})
		require.NoError(t, err)
		assert.Equal(t, "s1", st.ID)
		assert.Equal(t, created, st.CreatedAt)
	})

	t.Run("update unknown", func(t *testing.T) {
		repo := new(MockStudentRepository)
		repo.On("GetStudentByID", mock.Anything, "nope").Return(nil, domain.NewNotFoundError("student not found"))

		_, err := NewStudentService(repo).Update(ctx, "nope", &domain.Student{Name: "An", ClassName: "9A"})
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})
}
