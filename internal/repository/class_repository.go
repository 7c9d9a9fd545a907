package repository

import (
	"context"
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/repository/models"
	"eduassist/internal/util"

	"github.com/jmoiron/sqlx"
)

// ClassDatabaseAdapter implements domain.ClassRepository.
type ClassDatabaseAdapter struct {
	db *sqlx.DB
}

func NewClassDatabaseAdapter(db *sqlx.DB) domain.ClassRepository {
	return &ClassDatabaseAdapter{db: db}
}

func (a *ClassDatabaseAdapter) ListClasses(ctx context.Context) ([]*domain.Class, error) {
	var rows []models.Class
	query := `SELECT
		id "id",
		name "name",
		teacher "teacher",
		created_at "created_at"
	FROM classes
	ORDER BY name`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, storeError("list classes", err)
	}

	classes := make([]*domain.Class, 0, len(rows))
	for _, r := range rows {
		classes = append(classes, &domain.Class{
			ID:        r.ID,
			Name:      r.Name,
			Teacher:   r.Teacher.String,
			CreatedAt: r.CreatedAt,
		})
	}
	return classes, nil
}

func (a *ClassDatabaseAdapter) CreateClass(ctx context.Context, class *domain.Class) error {
	class.ID = util.NewULID()
	class.CreatedAt = time.Now().UTC()
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx,
		`INSERT INTO classes (id, name, teacher, created_at) VALUES (:1, :2, :3, :4)`,
		class.ID, class.Name, util.StringToNullString(class.Teacher), class.CreatedAt)
	if err != nil {
		return storeError("insert class", err)
	}
	return nil
}

func (a *ClassDatabaseAdapter) DeleteClass(ctx context.Context, id string) error {
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM classes WHERE id = :1`, id)
	if err != nil {
		return storeError("delete class", err)
	}
	return affectedOrNotFound(res, "delete class",
		domain.NewNotFoundError("class not found").WithContext("class_id", id))
}
