package dto

import (
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/player"

	"github.com/samber/lo"
)

// StartSessionRequest opens a player session. Either quiz_id or link is required.
// @Description Request body for starting a quiz session
type StartSessionRequest struct {
	QuizID string `json:"quiz_id" validate:"required_without=Link"`
	Link   string `json:"link" validate:"required_without=QuizID"`
}

// BeginRequest carries the respondent's name.
type BeginRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100" example:"Nguyễn Văn An"`
}

// AnswerRequest selects an option for one question.
type AnswerRequest struct {
	Option *int `json:"option" validate:"required,min=0,max=3" example:"2"`
}

// PlayerQuestion hides the correct answer while the quiz is in progress.
type PlayerQuestion struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// SessionResponse is the player's view of a session.
// @Description Quiz player session state
type SessionResponse struct {
	ID             string              `json:"id"`
	QuizID         string              `json:"quiz_id"`
	State          string              `json:"state"`
	QuizName       string              `json:"quiz_name,omitempty"`
	Topic          string              `json:"topic,omitempty"`
	Grade          string              `json:"grade,omitempty"`
	Difficulty     string              `json:"difficulty,omitempty"`
	QuestionCount  int                 `json:"question_count"`
	NominalMinutes int                 `json:"nominal_minutes"`
	RespondentName string              `json:"respondent_name,omitempty"`
	Questions      []PlayerQuestion    `json:"questions,omitempty"`
	Answers        map[int]int         `json:"answers,omitempty"`
	Deadline       *time.Time          `json:"deadline,omitempty"`
	Result         *player.Result      `json:"result,omitempty"`
	Review         []player.ReviewItem `json:"review,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// ToSessionResponse exposes questions only once the respondent has begun and
// reveals correct answers only in the review.
func ToSessionResponse(s *player.Session) SessionResponse {
	resp := SessionResponse{
		ID:             s.ID,
		QuizID:         s.QuizID,
		State:          string(s.State),
		NominalMinutes: s.NominalMinutes,
		RespondentName: s.RespondentName,
		Result:         s.Result,
		Error:          s.Error,
	}
	if s.Quiz != nil {
		resp.QuizName = s.Quiz.Name
		resp.Topic = s.Quiz.Topic
		resp.Grade = string(s.Quiz.Grade)
		resp.Difficulty = s.Quiz.Difficulty.Label()
		resp.QuestionCount = len(s.Quiz.Questions)
	}

	switch s.State {
	case player.StateInProgress:
		resp.Questions = lo.Map(s.Quiz.Questions, func(q domain.Question, i int) PlayerQuestion {
			return PlayerQuestion{Index: i, Text: q.Text, Options: q.Options}
		})
		resp.Answers = s.Answers
		if d := s.Deadline(); !d.IsZero() {
			resp.Deadline = &d
		}
	case player.StateSubmitted:
		resp.Answers = s.Answers
		resp.Review = s.Review()
	}
	return resp
}
