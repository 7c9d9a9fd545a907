package service

import (
	"context"
	"time"

	"eduassist/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) DeleteQuiz(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockAttemptRepository ---
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) SaveAttempt(ctx context.Context, attempt *domain.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) ListAttemptsByQuiz(ctx context.Context, quizID string) ([]*domain.Attempt, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Attempt), args.Error(1)
}

// --- MockStudentRepository ---
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) ListStudents(ctx context.Context) ([]*domain.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) ListStudentsByClass(ctx context.Context, className string) ([]*domain.Student, error) {
	args := m.Called(ctx, className)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) GetStudentByID(ctx context.Context, id string) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) CreateStudent(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) UpdateStudent(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) DeleteStudent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockAttendanceRepository ---
type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) GetSheet(ctx context.Context, date string) (*domain.AttendanceSheet, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttendanceSheet), args.Error(1)
}

func (m *MockAttendanceRepository) ReplaceSheet(ctx context.Context, sheet *domain.AttendanceSheet) error {
	args := m.Called(ctx, sheet)
	return args.Error(0)
}

// --- MockHomeworkRepository ---
type MockHomeworkRepository struct {
	mock.Mock
}

func (m *MockHomeworkRepository) ListHomework(ctx context.Context) ([]*domain.Homework, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Homework), args.Error(1)
}

func (m *MockHomeworkRepository) CreateHomework(ctx context.Context, hw *domain.Homework) error {
	args := m.Called(ctx, hw)
	return args.Error(0)
}

func (m *MockHomeworkRepository) MarkNotified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHomeworkRepository) DeleteHomework(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockTransactionManager runs fn inline ---
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// --- MockQuestionGenerator ---
type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) GenerateQuestions(ctx context.Context, spec domain.QuizSpec) ([]domain.Question, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

// --- MockTextGenerator ---
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// --- MockNotifier ---
type MockNotifier struct {
	mock.Mock
	channel domain.Channel
}

func (m *MockNotifier) Channel() domain.Channel {
	return m.channel
}

func (m *MockNotifier) Send(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	args := m.Called(ctx, key, expiration)
	return args.Error(0)
}

// Ensure all required methods for interfaces are present in the mocks
var (
	_ domain.QuizRepository       = (*MockQuizRepository)(nil)
	_ domain.AttemptRepository    = (*MockAttemptRepository)(nil)
	_ domain.StudentRepository    = (*MockStudentRepository)(nil)
	_ domain.AttendanceRepository = (*MockAttendanceRepository)(nil)
	_ domain.HomeworkRepository   = (*MockHomeworkRepository)(nil)
	_ domain.TransactionManager   = (*MockTransactionManager)(nil)
	_ domain.QuestionGenerator    = (*MockQuestionGenerator)(nil)
	_ domain.TextGenerator        = (*MockTextGenerator)(nil)
	_ domain.Notifier             = (*MockNotifier)(nil)
	_ domain.Cache                = (*MockCache)(nil)
)
