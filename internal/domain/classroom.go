package domain

import (
	"strings"
	"time"
)

// DateLayout is the key format of attendance sheets.
const DateLayout = "2006-01-02"

type Student struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ClassName   string    `json:"className"`
	ParentName  string    `json:"parentName"`
	ParentEmail string    `json:"parentEmail"`
	ParentPhone string    `json:"parentPhone"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *Student) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, NewMissingFieldError("name"))
	}
	if strings.TrimSpace(s.ClassName) == "" {
		errs = append(errs, NewMissingFieldError("className"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Initials is used as an avatar placeholder when no avatar is set.
func (s *Student) Initials() string {
	fields := strings.Fields(s.Name)
	if len(fields) == 0 {
		return ""
	}
	last := []rune(fields[len(fields)-1])
	return strings.ToUpper(string(last[0]))
}

type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Teacher   string    `json:"teacher"`
	CreatedAt time.Time `json:"createdAt"`
}

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// AttendanceSheet is one day of attendance; students missing from
// Statuses count as present.
type AttendanceSheet struct {
	Date      string                      `json:"date"`
	Statuses  map[string]AttendanceStatus `json:"statuses"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

func (a *AttendanceSheet) StatusOf(studentID string) AttendanceStatus {
	if s, ok := a.Statuses[studentID]; ok {
		return s
	}
	return StatusPresent
}

type AttendanceSummary struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

type Homework struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	ClassName string    `json:"className"`
	Content   string    `json:"content"`
	Deadline  time.Time `json:"deadline"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"createdAt"`
}

// Overdue reports whether the deadline has passed at now.
func (h *Homework) Overdue(now time.Time) bool {
	return now.After(h.Deadline)
}

// Urgent reports whether the deadline falls within the next 24 hours.
func (h *Homework) Urgent(now time.Time) bool {
	return !h.Overdue(now) && h.Deadline.Sub(now) <= 24*time.Hour
}

// Validate requires every text field and a deadline after now.
func (h *Homework) Validate(now time.Time) error {
	var errs ValidationErrors
	if strings.TrimSpace(h.Subject) == "" {
		errs = append(errs, NewMissingFieldError("subject"))
	}
	if strings.TrimSpace(h.ClassName) == "" {
		errs = append(errs, NewMissingFieldError("className"))
	}
	if strings.TrimSpace(h.Content) == "" {
		errs = append(errs, NewMissingFieldError("content"))
	}
	if h.Deadline.IsZero() {
		errs = append(errs, NewMissingFieldError("deadline"))
	} else if !h.Deadline.After(now) {
		errs = append(errs, ValidationError{
			Field:   "deadline",
			Code:    CodeOutOfRange,
			Message: "deadline must be in the future",
			Value:   h.Deadline,
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
