package repository

import (
	"context"

	"eduassist/internal/domain"
	"eduassist/internal/repository/models"
	"eduassist/internal/util"

	"github.com/jmoiron/sqlx"
)

// AttemptDatabaseAdapter stores graded submissions in quiz_attempts.
type AttemptDatabaseAdapter struct {
	db *sqlx.DB
}

func NewAttemptDatabaseAdapter(db *sqlx.DB) domain.AttemptRepository {
	return &AttemptDatabaseAdapter{db: db}
}

func (a *AttemptDatabaseAdapter) SaveAttempt(ctx context.Context, attempt *domain.Attempt) error {
	if attempt.ID == "" {
		attempt.ID = util.NewUUID()
	}
	query := `INSERT INTO quiz_attempts (
		id, quiz_id, respondent_name, answers, score, total, percentage, passed, submitted_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9
	)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		attempt.ID,
		attempt.QuizID,
		attempt.RespondentName,
		models.AnswerMap(attempt.Answers),
		attempt.Score,
		attempt.Total,
		attempt.Percentage,
		util.BoolToNumber(attempt.Passed),
		attempt.SubmittedAt,
	)
	if err != nil {
		return storeError("insert attempt", err)
	}
	return nil
}

// ListAttemptsByQuiz returns attempts newest first.
func (a *AttemptDatabaseAdapter) ListAttemptsByQuiz(ctx context.Context, quizID string) ([]*domain.Attempt, error) {
	var rows []models.QuizAttempt
	query := `SELECT
		id "id",
		quiz_id "quiz_id",
		respondent_name "respondent_name",
		answers "answers",
		score "score",
		total "total",
		percentage "percentage",
		passed "passed",
		submitted_at "submitted_at"
	FROM quiz_attempts
	WHERE quiz_id = :1
	ORDER BY submitted_at DESC`

	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, quizID); err != nil {
		return nil, storeError("list attempts", err)
	}

	attempts := make([]*domain.Attempt, 0, len(rows))
	for _, r := range rows {
		attempts = append(attempts, &domain.Attempt{
			ID:             r.ID,
			QuizID:         r.QuizID,
			RespondentName: r.RespondentName,
			Answers:        map[int]int(r.Answers),
			Score:          r.Score,
			Total:          r.Total,
			Percentage:     r.Percentage,
			Passed:         r.Passed == 1,
			SubmittedAt:    r.SubmittedAt,
		})
	}
	return attempts, nil
}
