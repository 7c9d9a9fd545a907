package domain

import "context"

// QuizRepository defines the interface for quiz persistence.
type QuizRepository interface {
	// CreateQuiz assigns ID and CreatedAt on the passed quiz.
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	// GetQuizByID returns a QUIZ_NOT_FOUND error when absent.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	// ListQuizzes returns quizzes in no particular order.
	ListQuizzes(ctx context.Context) ([]*Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
}

// AttemptRepository stores graded player submissions.
type AttemptRepository interface {
	SaveAttempt(ctx context.Context, attempt *Attempt) error
	ListAttemptsByQuiz(ctx context.Context, quizID string) ([]*Attempt, error)
}

type StudentRepository interface {
	ListStudents(ctx context.Context) ([]*Student, error)
	ListStudentsByClass(ctx context.Context, className string) ([]*Student, error)
	GetStudentByID(ctx context.Context, id string) (*Student, error)
	CreateStudent(ctx context.Context, student *Student) error
	UpdateStudent(ctx context.Context, student *Student) error
	DeleteStudent(ctx context.Context, id string) error
}

type ClassRepository interface {
	ListClasses(ctx context.Context) ([]*Class, error)
	CreateClass(ctx context.Context, class *Class) error
	DeleteClass(ctx context.Context, id string) error
}

type AttendanceRepository interface {
	// GetSheet returns an empty sheet when nothing was recorded for date.
	GetSheet(ctx context.Context, date string) (*AttendanceSheet, error)
	// ReplaceSheet overwrites every status recorded for the sheet's date.
	ReplaceSheet(ctx context.Context, sheet *AttendanceSheet) error
}

type HomeworkRepository interface {
	ListHomework(ctx context.Context) ([]*Homework, error)
	CreateHomework(ctx context.Context, hw *Homework) error
	MarkNotified(ctx context.Context, id string) error
	DeleteHomework(ctx context.Context, id string) error
}

// TransactionManager runs fn inside one database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
