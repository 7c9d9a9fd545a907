package repository

import (
	"context"
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/repository/models"
	"eduassist/internal/util"

	"github.com/jmoiron/sqlx"
)

// HomeworkDatabaseAdapter implements domain.HomeworkRepository.
type HomeworkDatabaseAdapter struct {
	db *sqlx.DB
}

func NewHomeworkDatabaseAdapter(db *sqlx.DB) domain.HomeworkRepository {
	return &HomeworkDatabaseAdapter{db: db}
}

func (a *HomeworkDatabaseAdapter) ListHomework(ctx context.Context) ([]*domain.Homework, error) {
	var rows []models.Homework
	query := `SELECT
		id "id",
		subject "subject",
		class_name "class_name",
		content "content",
		deadline "deadline",
		notified "notified",
		created_at "created_at"
	FROM homework
	ORDER BY deadline`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, storeError("list homework", err)
	}

	items := make([]*domain.Homework, 0, len(rows))
	for _, r := range rows {
		items = append(items, &domain.Homework{
			ID:        r.ID,
			Subject:   r.Subject,
			ClassName: r.ClassName,
			Content:   r.Content,
			Deadline:  r.Deadline,
			Notified:  r.Notified == 1,
			CreatedAt: r.CreatedAt,
		})
	}
	return items, nil
}

func (a *HomeworkDatabaseAdapter) CreateHomework(ctx context.Context, hw *domain.Homework) error {
	hw.ID = util.NewULID()
	hw.CreatedAt = time.Now().UTC()
	query := `INSERT INTO homework (
		id, subject, class_name, content, deadline, notified, created_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7
	)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		hw.ID, hw.Subject, hw.ClassName, hw.Content, hw.Deadline, util.BoolToNumber(hw.Notified), hw.CreatedAt)
	if err != nil {
		return storeError("insert homework", err)
	}
	return nil
}

func (a *HomeworkDatabaseAdapter) MarkNotified(ctx context.Context, id string) error {
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, `UPDATE homework SET notified = 1 WHERE id = :1`, id)
	if err != nil {
		return storeError("mark homework notified", err)
	}
	return affectedOrNotFound(res, "mark homework notified",
		domain.NewNotFoundError("homework not found").WithContext("homework_id", id))
}

func (a *HomeworkDatabaseAdapter) DeleteHomework(ctx context.Context, id string) error {
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM homework WHERE id = :1`, id)
	if err != nil {
		return storeError("delete homework", err)
	}
	return affectedOrNotFound(res, "delete homework",
		domain.NewNotFoundError("homework not found").WithContext("homework_id", id))
}
