package handler_test

import (
	"context"
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/dto"
	"eduassist/internal/player"
	"eduassist/internal/service"
)

// --- Manual Mocks ---

type MockQuizService struct {
	GenerateFunc     func(ctx context.Context, spec domain.QuizSpec) ([]domain.Question, error)
	CreateFunc       func(ctx context.Context, ownerID string, draft *domain.Quiz) (*domain.Quiz, error)
	GetFunc          func(ctx context.Context, id string) (*domain.Quiz, error)
	ListFunc         func(ctx context.Context) ([]*domain.Quiz, error)
	DeleteFunc       func(ctx context.Context, ownerID, id string) error
	ListAttemptsFunc func(ctx context.Context, ownerID, quizID string) ([]*domain.Attempt, error)
}

func (m *MockQuizService) Generate(ctx context.Context, spec domain.QuizSpec) ([]domain.Question, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, spec)
	}
	panic("MockQuizService.GenerateFunc not implemented")
}

func (m *MockQuizService) Create(ctx context.Context, ownerID string, draft *domain.Quiz) (*domain.Quiz, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, draft)
	}
	panic("MockQuizService.CreateFunc not implemented")
}

func (m *MockQuizService) Get(ctx context.Context, id string) (*domain.Quiz, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	panic("MockQuizService.GetFunc not implemented")
}

func (m *MockQuizService) List(ctx context.Context) ([]*domain.Quiz, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	panic("MockQuizService.ListFunc not implemented")
}

func (m *MockQuizService) Delete(ctx context.Context, ownerID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, id)
	}
	panic("MockQuizService.DeleteFunc not implemented")
}

func (m *MockQuizService) ListAttempts(ctx context.Context, ownerID, quizID string) ([]*domain.Attempt, error) {
	if m.ListAttemptsFunc != nil {
		return m.ListAttemptsFunc(ctx, ownerID, quizID)
	}
	panic("MockQuizService.ListAttemptsFunc not implemented")
}

func (m *MockQuizService) ShareLink(id string) string {
	return service.BuildShareLink("https://eduassist.test", service.ShareModeHash, id)
}

type MockPlayerService struct {
	StartFunc  func(ctx context.Context, quizIDOrLink string) (*player.Session, error)
	GetFunc    func(ctx context.Context, sessionID string) (*player.Session, error)
	BeginFunc  func(ctx context.Context, sessionID, name string) (*player.Session, error)
	SelectFunc func(ctx context.Context, sessionID string, index, option int) (*player.Session, error)
	SubmitFunc func(ctx context.Context, sessionID string) (*player.Session, error)
	RetryFunc  func(ctx context.Context, sessionID string) (*player.Session, error)
}

func (m *MockPlayerService) Start(ctx context.Context, quizIDOrLink string) (*player.Session, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, quizIDOrLink)
	}
	panic("MockPlayerService.StartFunc not implemented")
}

func (m *MockPlayerService) Get(ctx context.Context, sessionID string) (*player.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, sessionID)
	}
	panic("MockPlayerService.GetFunc not implemented")
}

func (m *MockPlayerService) Begin(ctx context.Context, sessionID, name string) (*player.Session, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, sessionID, name)
	}
	panic("MockPlayerService.BeginFunc not implemented")
}

func (m *MockPlayerService) Select(ctx context.Context, sessionID string, index, option int) (*player.Session, error) {
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, sessionID, index, option)
	}
	panic("MockPlayerService.SelectFunc not implemented")
}

func (m *MockPlayerService) Submit(ctx context.Context, sessionID string) (*player.Session, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, sessionID)
	}
	panic("MockPlayerService.SubmitFunc not implemented")
}

func (m *MockPlayerService) Retry(ctx context.Context, sessionID string) (*player.Session, error) {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, sessionID)
	}
	panic("MockPlayerService.RetryFunc not implemented")
}

type MockAttendanceService struct {
	GetFunc     func(ctx context.Context, date time.Time) (*dto.AttendanceResponse, error)
	SaveFunc    func(ctx context.Context, date time.Time, statuses map[string]domain.AttendanceStatus, notify bool) (dto.NotifyResult, error)
	SummaryFunc func(ctx context.Context, date time.Time) (dto.AttendanceSummaryResponse, error)
	WeekFunc    func(ctx context.Context, end time.Time) ([]dto.AttendanceSummaryResponse, error)
}

func (m *MockAttendanceService) Get(ctx context.Context, date time.Time) (*dto.AttendanceResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, date)
	}
	panic("MockAttendanceService.GetFunc not implemented")
}

func (m *MockAttendanceService) Save(ctx context.Context, date time.Time, statuses map[string]domain.AttendanceStatus, notify bool) (dto.NotifyResult, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, date, statuses, notify)
	}
	panic("MockAttendanceService.SaveFunc not implemented")
}

func (m *MockAttendanceService) Summary(ctx context.Context, date time.Time) (dto.AttendanceSummaryResponse, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, date)
	}
	panic("MockAttendanceService.SummaryFunc not implemented")
}

func (m *MockAttendanceService) Week(ctx context.Context, end time.Time) ([]dto.AttendanceSummaryResponse, error) {
	if m.WeekFunc != nil {
		return m.WeekFunc(ctx, end)
	}
	panic("MockAttendanceService.WeekFunc not implemented")
}

type MockHomeworkService struct {
	ListFunc   func(ctx context.Context) ([]dto.HomeworkResponse, error)
	CreateFunc func(ctx context.Context, hw *domain.Homework) (*dto.CreateHomeworkResponse, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockHomeworkService) List(ctx context.Context) ([]dto.HomeworkResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	panic("MockHomeworkService.ListFunc not implemented")
}

func (m *MockHomeworkService) Create(ctx context.Context, hw *domain.Homework) (*dto.CreateHomeworkResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, hw)
	}
	panic("MockHomeworkService.CreateFunc not implemented")
}

func (m *MockHomeworkService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	panic("MockHomeworkService.DeleteFunc not implemented")
}

type MockStudentService struct {
	ListFunc   func(ctx context.Context, className string) ([]*domain.Student, error)
	GetFunc    func(ctx context.Context, id string) (*domain.Student, error)
	CreateFunc func(ctx context.Context, student *domain.Student) (*domain.Student, error)
	UpdateFunc func(ctx context.Context, id string, student *domain.Student) (*domain.Student, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockStudentService) List(ctx context.Context, className string) ([]*domain.Student, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, className)
	}
	panic("MockStudentService.ListFunc not implemented")
}

func (m *MockStudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	panic("MockStudentService.GetFunc not implemented")
}

func (m *MockStudentService) Create(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, student)
	}
	panic("MockStudentService.CreateFunc not implemented")
}

func (m *MockStudentService) Update(ctx context.Context, id string, student *domain.Student) (*domain.Student, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, student)
	}
	panic("MockStudentService.UpdateFunc not implemented")
}

func (m *MockStudentService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	panic("MockStudentService.DeleteFunc not implemented")
}

type MockClassService struct {
	ListFunc   func(ctx context.Context) ([]*domain.Class, error)
	CreateFunc func(ctx context.Context, class *domain.Class) (*domain.Class, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockClassService) List(ctx context.Context) ([]*domain.Class, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	panic("MockClassService.ListFunc not implemented")
}

func (m *MockClassService) Create(ctx context.Context, class *domain.Class) (*domain.Class, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, class)
	}
	panic("MockClassService.CreateFunc not implemented")
}

func (m *MockClassService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	panic("MockClassService.DeleteFunc not implemented")
}

type MockAuthService struct {
	LoginURLFunc    func(state string) string
	CallbackFunc    func(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error)
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (m *MockAuthService) GetGoogleLoginURL(state string) string {
	if m.LoginURLFunc != nil {
		return m.LoginURLFunc(state)
	}
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *MockAuthService) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error) {
	if m.CallbackFunc != nil {
		return m.CallbackFunc(ctx, code, receivedState, expectedState)
	}
	panic("MockAuthService.CallbackFunc not implemented")
}

func (m *MockAuthService) CreateJWT(email, name string) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	return nil, domain.NewUnauthorizedError("invalid token")
}

var (
	_ service.QuizService       = (*MockQuizService)(nil)
	_ service.PlayerService     = (*MockPlayerService)(nil)
	_ service.AttendanceService = (*MockAttendanceService)(nil)
	_ service.HomeworkService   = (*MockHomeworkService)(nil)
	_ service.StudentService    = (*MockStudentService)(nil)
	_ service.ClassService      = (*MockClassService)(nil)
	_ service.AuthService       = (*MockAuthService)(nil)
)
