package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eduassist/internal/domain"
)

// jsonBytes normalises what drivers hand back for CLOB columns.
func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported CLOB scan type " + fmt.Sprintf("%T", value))
	}
}

// QuestionList stores a quiz's questions as a JSON CLOB.
type QuestionList []domain.Question

// Value implements the driver.Valuer interface
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (q *QuestionList) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("QuestionList: %w", err)
	}
	if len(data) == 0 || string(data) == "null" {
		*q = QuestionList{}
		return nil
	}
	return json.Unmarshal(data, q)
}

// AnswerMap stores a player's answers (question index -> option index).
type AnswerMap map[int]int

func (a AnswerMap) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (a *AnswerMap) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("AnswerMap: %w", err)
	}
	if len(data) == 0 || string(data) == "null" {
		*a = AnswerMap{}
		return nil
	}
	return json.Unmarshal(data, a)
}

// Quiz is a row of the quizzes table.
type Quiz struct {
	ID            string       `db:"id"`
	OwnerID       string       `db:"owner_id"`
	Name          string       `db:"name"`
	Grade         string       `db:"grade"`
	Topic         string       `db:"topic"`
	Difficulty    string       `db:"difficulty"`
	Questions     QuestionList `db:"questions"`
	QuestionCount int          `db:"question_count"`
	CreatedAt     time.Time    `db:"created_at"`
}

// QuizAttempt is a row of the quiz_attempts table.
type QuizAttempt struct {
	ID             string    `db:"id"`
	QuizID         string    `db:"quiz_id"`
	RespondentName string    `db:"respondent_name"`
	Answers        AnswerMap `db:"answers"`
	Score          int       `db:"score"`
	Total          int       `db:"total"`
	Percentage     int       `db:"percentage"`
	Passed         int       `db:"passed"`
	SubmittedAt    time.Time `db:"submitted_at"`
}
