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

const studentColumns = `
		id "id",
		name "name",
		class_name "class_name",
		parent_name "parent_name",
		parent_email "parent_email",
		parent_phone "parent_phone",
		avatar "avatar",
		created_at "created_at"`

// StudentDatabaseAdapter implements domain.StudentRepository.
type StudentDatabaseAdapter struct {
	db *sqlx.DB
}

func NewStudentDatabaseAdapter(db *sqlx.DB) domain.StudentRepository {
	return &StudentDatabaseAdapter{db: db}
}

func (a *StudentDatabaseAdapter) ListStudents(ctx context.Context) ([]*domain.Student, error) {
	var rows []models.Student
	query := `SELECT` + studentColumns + ` FROM students ORDER BY name`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, storeError("list students", err)
	}
	return toDomainStudents(rows), nil
}

func (a *StudentDatabaseAdapter) ListStudentsByClass(ctx context.Context, className string) ([]*domain.Student, error) {
	var rows []models.Student
	query := `SELECT` + studentColumns + ` FROM students WHERE class_name = :1 ORDER BY name`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, className); err != nil {
		return nil, storeError("list students by class", err)
	}
	return toDomainStudents(rows), nil
}

func (a *StudentDatabaseAdapter) GetStudentByID(ctx context.Context, id string) (*domain.Student, error) {
	var row models.Student
	query := `SELECT` + studentColumns + ` FROM students WHERE id = :1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("student not found").WithContext("student_id", id)
		}
		return nil, storeError("get student", err)
	}
	return toDomainStudent(&row), nil
}

func (a *StudentDatabaseAdapter) CreateStudent(ctx context.Context, student *domain.Student) error {
	student.ID = util.NewULID()
	student.CreatedAt = time.Now().UTC()

	query := `INSERT INTO students (
		id, name, class_name, parent_name, parent_email, parent_phone, avatar, created_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8
	)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		student.ID,
		student.Name,
		student.ClassName,
		util.StringToNullString(student.ParentName),
		util.StringToNullString(student.ParentEmail),
		util.StringToNullString(student.ParentPhone),
		util.StringToNullString(student.Avatar),
		student.CreatedAt,
	)
	if err != nil {
		return storeError("insert student", err)
	}
	return nil
}

func (a *StudentDatabaseAdapter) UpdateStudent(ctx context.Context, student *domain.Student) error {
	query := `UPDATE students SET
		name = :1,
		class_name = :2,
		parent_name = :3,
		parent_email = :4,
		parent_phone = :5,
		avatar = :6
	WHERE id = :7`
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		student.Name,
		student.ClassName,
		util.StringToNullString(student.ParentName),
		util.StringToNullString(student.ParentEmail),
		util.StringToNullString(student.ParentPhone),
		util.StringToNullString(student.Avatar),
		student.ID,
	)
	if err != nil {
		return storeError("update student", err)
	}
	return affectedOrNotFound(res, "update student",
		domain.NewNotFoundError("student not found").WithContext("student_id", student.ID))
}

func (a *StudentDatabaseAdapter) DeleteStudent(ctx context.Context, id string) error {
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM students WHERE id = :1`, id)
	if err != nil {
		return storeError("delete student", err)
	}
	return affectedOrNotFound(res, "delete student",
		domain.NewNotFoundError("student not found").WithContext("student_id", id))
}

func toDomainStudent(m *models.Student) *domain.Student {
	return &domain.Student{
		ID:          m.ID,
		Name:        m.Name,
		ClassName:   m.ClassName,
		ParentName:  m.ParentName.String,
		ParentEmail: m.ParentEmail.String,
		ParentPhone: m.ParentPhone.String,
		Avatar:      m.Avatar.String,
		CreatedAt:   m.CreatedAt,
	}
}

func toDomainStudents(rows []models.Student) []*domain.Student {
	students := make([]*domain.Student, 0, len(rows))
	for i := range rows {
		students = append(students, toDomainStudent(&rows[i]))
	}
	return students
}
