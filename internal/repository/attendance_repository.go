package repository

import (
	"context"
	"slices"

	"eduassist/internal/domain"
	"eduassist/internal/repository/models"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

// AttendanceDatabaseAdapter stores one row per (date, student).
type AttendanceDatabaseAdapter struct {
	db *sqlx.DB
}

func NewAttendanceDatabaseAdapter(db *sqlx.DB) domain.AttendanceRepository {
	return &AttendanceDatabaseAdapter{db: db}
}

func (a *AttendanceDatabaseAdapter) GetSheet(ctx context.Context, date string) (*domain.AttendanceSheet, error) {
	var rows []models.AttendanceRow
	query := `SELECT
		attendance_date "attendance_date",
		student_id "student_id",
		status "status",
		updated_at "updated_at"
	FROM attendance
	WHERE attendance_date = :1`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, date); err != nil {
		return nil, storeError("get attendance", err)
	}

	sheet := &domain.AttendanceSheet{
		Date:     date,
		Statuses: make(map[string]domain.AttendanceStatus, len(rows)),
	}
	for _, r := range rows {
		sheet.Statuses[r.StudentID] = domain.AttendanceStatus(r.Status)
		if r.UpdatedAt.After(sheet.UpdatedAt) {
			sheet.UpdatedAt = r.UpdatedAt
		}
	}
	return sheet, nil
}

// ReplaceSheet should run inside a transaction so readers never see a
// half-written day.
func (a *AttendanceDatabaseAdapter) ReplaceSheet(ctx context.Context, sheet *domain.AttendanceSheet) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM attendance WHERE attendance_date = :1`, sheet.Date); err != nil {
		return storeError("clear attendance", err)
	}

	studentIDs := lo.Keys(sheet.Statuses)
	slices.Sort(studentIDs)
	for _, studentID := range studentIDs {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO attendance (attendance_date, student_id, status, updated_at) VALUES (:1, :2, :3, :4)`,
			sheet.Date, studentID, string(sheet.Statuses[studentID]), sheet.UpdatedAt)
		if err != nil {
			return storeError("insert attendance", err)
		}
	}
	return nil
}
