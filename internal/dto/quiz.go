package dto

import (
	"time"

	"eduassist/internal/domain"

	"github.com/samber/lo"
)

// QuestionDTO is one multiple-choice question on the wire.
// @Description Multiple-choice question with exactly four options
type QuestionDTO struct {
	Text         string   `json:"text" validate:"required,notblank"`
	Options      []string `json:"options" validate:"len=4,dive,required"`
	CorrectIndex int      `json:"correct_index" validate:"min=0,max=3"`
}

// GenerateQuizRequest asks the language model for a question batch.
// @Description Request body for generating quiz questions
type GenerateQuizRequest struct {
	Grade      string `json:"grade" validate:"required,oneof=8 9" example:"8"`
	Topic      string `json:"topic" validate:"required,notblank,max=200" example:"Phân thức đại số"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard" example:"medium"`
	Count      int    `json:"count" validate:"min=1,max=50" example:"10"`
}

// GenerateQuizResponse holds the unsaved questions.
type GenerateQuizResponse struct {
	Questions []QuestionDTO `json:"questions"`
}

// CreateQuizRequest saves a reviewed question batch. An empty name is filled in by the server.
// @Description Request body for saving a quiz
type CreateQuizRequest struct {
	Name       string        `json:"name" validate:"max=200"`
	Grade      string        `json:"grade" validate:"required,oneof=8 9"`
	Topic      string        `json:"topic" validate:"required,notblank,max=200"`
	Difficulty string        `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Questions  []QuestionDTO `json:"questions" validate:"required,min=1,max=50,dive"`
}

// QuizResponse is a saved quiz.
// @Description Saved quiz with its questions
type QuizResponse struct {
	ID         string        `json:"id"`
	OwnerID    string        `json:"owner_id"`
	Name       string        `json:"name"`
	Grade      string        `json:"grade"`
	Topic      string        `json:"topic"`
	Difficulty string        `json:"difficulty"`
	Count      int           `json:"count"`
	Questions  []QuestionDTO `json:"questions,omitempty"`
	ShareLink  string        `json:"share_link,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// ShareLinkResponse carries the public player link.
type ShareLinkResponse struct {
	QuizID string `json:"quiz_id"`
	Link   string `json:"link"`
}

// AttemptResponse is one recorded submission.
type AttemptResponse struct {
	ID             string    `json:"id"`
	RespondentName string    `json:"respondent_name"`
	Score          int       `json:"score"`
	Total          int       `json:"total"`
	Percentage     int       `json:"percentage"`
	Passed         bool      `json:"passed"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

func ToQuestionDTOs(questions []domain.Question) []QuestionDTO {
	return lo.Map(questions, func(q domain.Question, _ int) QuestionDTO {
		return QuestionDTO{Text: q.Text, Options: q.Options, CorrectIndex: q.CorrectIndex}
	})
}

func ToDomainQuestions(questions []QuestionDTO) []domain.Question {
	return lo.Map(questions, func(q QuestionDTO, _ int) domain.Question {
		return domain.Question{Text: q.Text, Options: q.Options, CorrectIndex: q.CorrectIndex}
	})
}

// ToQuizResponse omits the questions when withQuestions is false.
func ToQuizResponse(q *domain.Quiz, withQuestions bool) QuizResponse {
	resp := QuizResponse{
		ID:         q.ID,
		OwnerID:    q.OwnerID,
		Name:       q.Name,
		Grade:      string(q.Grade),
		Topic:      q.Topic,
		Difficulty: string(q.Difficulty),
		Count:      q.Count,
		CreatedAt:  q.CreatedAt,
	}
	if withQuestions {
		resp.Questions = ToQuestionDTOs(q.Questions)
	}
	return resp
}

func ToAttemptResponse(a *domain.Attempt) AttemptResponse {
	return AttemptResponse{
		ID:             a.ID,
		RespondentName: a.RespondentName,
		Score:          a.Score,
		Total:          a.Total,
		Percentage:     a.Percentage,
		Passed:         a.Passed,
		SubmittedAt:    a.SubmittedAt,
	}
}
