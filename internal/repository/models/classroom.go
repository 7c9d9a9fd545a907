package models

import (
	"database/sql"
	"time"
)

type Student struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	ClassName   string         `db:"class_name"`
	ParentName  sql.NullString `db:"parent_name"`
	ParentEmail sql.NullString `db:"parent_email"`
	ParentPhone sql.NullString `db:"parent_phone"`
	Avatar      sql.NullString `db:"avatar"`
	CreatedAt   time.Time      `db:"created_at"`
}

type Class struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Teacher   sql.NullString `db:"teacher"`
	CreatedAt time.Time      `db:"created_at"`
}

type AttendanceRow struct {
	Date      string    `db:"attendance_date"`
	StudentID string    `db:"student_id"`
	Status    string    `db:"status"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Homework struct {
	ID        string    `db:"id"`
	Subject   string    `db:"subject"`
	ClassName string    `db:"class_name"`
	Content   string    `db:"content"`
	Deadline  time.Time `db:"deadline"`
	Notified  int       `db:"notified"`
	CreatedAt time.Time `db:"created_at"`
}
