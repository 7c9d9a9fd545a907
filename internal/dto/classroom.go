package dto

import (
	"time"

	"eduassist/internal/domain"
)

// StudentRequest creates or replaces a student.
// @Description Request body for a student
type StudentRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	ClassName   string `json:"class_name" validate:"required,notblank,max=50"`
	ParentName  string `json:"parent_name" validate:"max=100"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
	ParentPhone string `json:"parent_phone" validate:"omitempty,phone"`
	Avatar      string `json:"avatar" validate:"omitempty,max=500"`
}

func (r StudentRequest) ToDomain() *domain.Student {
	return &domain.Student{
		Name:        r.Name,
		ClassName:   r.ClassName,
		ParentName:  r.ParentName,
		ParentEmail: r.ParentEmail,
		ParentPhone: r.ParentPhone,
		Avatar:      r.Avatar,
	}
}

// StudentResponse is a roster entry.
type StudentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Initials    string    `json:"initials"`
	ClassName   string    `json:"class_name"`
	ParentName  string    `json:"parent_name,omitempty"`
	ParentEmail string    `json:"parent_email,omitempty"`
	ParentPhone string    `json:"parent_phone,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToStudentResponse(s *domain.Student) StudentResponse {
	return StudentResponse{
		ID:          s.ID,
		Name:        s.Name,
		Initials:    s.Initials(),
		ClassName:   s.ClassName,
		ParentName:  s.ParentName,
		ParentEmail: s.ParentEmail,
		ParentPhone: s.ParentPhone,
		Avatar:      s.Avatar,
		CreatedAt:   s.CreatedAt,
	}
}

// ClassRequest creates a class.
type ClassRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=50"`
	Teacher string `json:"teacher" validate:"max=100"`
}

// AttendanceRequest replaces a day's sheet. Missing students count as present.
// @Description Attendance statuses keyed by student id
type AttendanceRequest struct {
	Statuses map[string]string `json:"statuses" validate:"required,dive,keys,required,endkeys,oneof=present absent"`
	Notify   *bool             `json:"notify,omitempty"`
}

// AttendanceEntry is one student's status for a day.
type AttendanceEntry struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
	Status    string `json:"status"`
}

// AttendanceResponse lists every student for a day.
type AttendanceResponse struct {
	Date      string            `json:"date"`
	Entries   []AttendanceEntry `json:"entries"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
}

// NotifyResult counts the outcome of a notification fan-out.
type NotifyResult struct {
	Saved    int `json:"saved"`
	Absent   int `json:"absent"`
	Notified int `json:"notified"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// AttendanceSummaryResponse is chart data for one day.
type AttendanceSummaryResponse struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// HomeworkRequest assigns homework to a class.
// @Description Request body for assigning homework
type HomeworkRequest struct {
	Subject   string    `json:"subject" validate:"required,notblank,max=100"`
	ClassName string    `json:"class_name" validate:"required,notblank,max=50"`
	Content   string    `json:"content" validate:"required,notblank,max=2000"`
	Deadline  time.Time `json:"deadline" validate:"required"`
}

// HomeworkResponse adds deadline flags computed at request time.
type HomeworkResponse struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	ClassName string    `json:"class_name"`
	Content   string    `json:"content"`
	Deadline  time.Time `json:"deadline"`
	Notified  bool      `json:"notified"`
	Overdue   bool      `json:"overdue"`
	Urgent    bool      `json:"urgent"`
	CreatedAt time.Time `json:"created_at"`
}

func ToHomeworkResponse(h *domain.Homework, now time.Time) HomeworkResponse {
	return HomeworkResponse{
		ID:        h.ID,
		Subject:   h.Subject,
		ClassName: h.ClassName,
		Content:   h.Content,
		Deadline:  h.Deadline,
		Notified:  h.Notified,
		Overdue:   h.Overdue(now),
		Urgent:    h.Urgent(now),
		CreatedAt: h.CreatedAt,
	}
}

// CreateHomeworkResponse returns the homework and the reminder fan-out result.
type CreateHomeworkResponse struct {
	Homework HomeworkResponse `json:"homework"`
	Reminder NotifyResult     `json:"reminder"`
}

// ChatRequest is a message to the teaching assistant.
type ChatRequest struct {
	Message string `json:"message" validate:"required,notblank,max=2000"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ClassResponse is a class record.
type ClassResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Teacher   string    `json:"teacher,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToClassResponse(c *domain.Class) ClassResponse {
	return ClassResponse{ID: c.ID, Name: c.Name, Teacher: c.Teacher, CreatedAt: c.CreatedAt}
}
