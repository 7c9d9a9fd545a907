package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/repository/models"
	"eduassist/internal/util"

	"github.com/jmoiron/sqlx"
)

const quizColumns = `
		id "id",
		owner_id "owner_id",
		name "name",
		grade "grade",
		topic "topic",
		difficulty "difficulty",
		questions "questions",
		question_count "question_count",
		created_at "created_at"`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// CreateQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	row := toModelQuiz(quiz)
	row.ID = util.NewULID()
	row.CreatedAt = time.Now().UTC()

	query := `INSERT INTO quizzes (
		id, owner_id, name, grade, topic, difficulty, questions, question_count, created_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9
	)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		row.ID,
		row.OwnerID,
		row.Name,
		row.Grade,
		row.Topic,
		row.Difficulty,
		row.Questions,
		row.QuestionCount,
		row.CreatedAt,
	)
	if err != nil {
		return storeError("insert quiz", err)
	}

	quiz.ID = row.ID
	quiz.CreatedAt = row.CreatedAt
	quiz.Count = row.QuestionCount
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var row models.Quiz
	query := `SELECT` + quizColumns + `
	FROM quizzes
	WHERE id = :1`

	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, storeError("get quiz", err)
	}
	return toDomainQuiz(&row), nil
}

// ListQuizzes implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	var rows []models.Quiz
	query := `SELECT` + quizColumns + `
	FROM quizzes`

	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, storeError("list quizzes", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, toDomainQuiz(&rows[i]))
	}
	return quizzes, nil
}

// DeleteQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, id string) error {
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM quizzes WHERE id = :1`, id)
	if err != nil {
		return storeError("delete quiz", err)
	}
	return affectedOrNotFound(res, "delete quiz", domain.NewQuizNotFoundError(id))
}

func toModelQuiz(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:            q.ID,
		OwnerID:       q.OwnerID,
		Name:          q.Name,
		Grade:         string(q.Grade),
		Topic:         q.Topic,
		Difficulty:    string(q.Difficulty),
		Questions:     models.QuestionList(q.Questions),
		QuestionCount: len(q.Questions),
		CreatedAt:     q.CreatedAt,
	}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	questions := []domain.Question(m.Questions)
	return &domain.Quiz{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		Name:       m.Name,
		Grade:      domain.Grade(m.Grade),
		Topic:      m.Topic,
		Difficulty: domain.Difficulty(m.Difficulty),
		Questions:  questions,
		Count:      len(questions),
		CreatedAt:  m.CreatedAt,
	}
}
