package player

import (
	"context"
	"strings"
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/util"
)

// State of a player session.
type State string

const (
	StateLoading    State = "loading"
	StateIntro      State = "intro"
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
	StateError      State = "error"
)

// DefaultNominalMinutes is the duration shown on the intro screen.
const DefaultNominalMinutes = 15

// QuizLoader fetches a quiz by id.
type QuizLoader func(ctx context.Context, quizID string) (*domain.Quiz, error)

// Session is one respondent's pass through a quiz. It is a plain value so it
// can be stored and reloaded between requests.
type Session struct {
	ID             string        `json:"id"`
	QuizID         string        `json:"quizId"`
	State          State         `json:"state"`
	Quiz           *domain.Quiz  `json:"quiz,omitempty"`
	RespondentName string        `json:"respondentName,omitempty"`
	Answers        map[int]int   `json:"answers"`
	Result         *Result       `json:"result,omitempty"`
	NominalMinutes int           `json:"nominalMinutes"`
	TimeLimit      time.Duration `json:"timeLimit,omitempty"`
	StartedAt      time.Time     `json:"startedAt,omitempty"`
	SubmittedAt    time.Time     `json:"submittedAt,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// NewSession returns a session in the Loading state. A zero timeLimit
// disables enforcement.
func NewSession(quizID string, timeLimit time.Duration) *Session {
	return &Session{
		ID:             util.NewUUID(),
		QuizID:         quizID,
		State:          StateLoading,
		Answers:        map[int]int{},
		NominalMinutes: DefaultNominalMinutes,
		TimeLimit:      timeLimit,
	}
}

// Load fetches the quiz once. Any failure moves the session to Error; the
// caller decides whether to start a new session.
func (s *Session) Load(ctx context.Context, load QuizLoader) error {
	if s.State != StateLoading {
		return domain.NewInvalidStateError("quiz is already loaded")
	}
	if strings.TrimSpace(s.QuizID) == "" {
		s.fail("Không tìm thấy bài kiểm tra.")
		return domain.NewQuizNotFoundError(s.QuizID)
	}

	quiz, err := load(ctx, s.QuizID)
	if err == nil && quiz == nil {
		err = domain.NewQuizNotFoundError(s.QuizID)
	}
	if err != nil {
		switch domain.CodeOf(err) {
		case domain.CodeQuizNotFound, domain.CodeNotFound:
			s.fail("Không tìm thấy bài kiểm tra. Vui lòng kiểm tra lại đường dẫn.")
		default:
			s.fail("Không thể tải bài kiểm tra. Vui lòng thử lại sau.")
		}
		return err
	}

	s.Quiz = quiz
	s.State = StateIntro
	return nil
}

func (s *Session) fail(message string) {
	s.State = StateError
	s.Error = message
}

// Begin records the respondent's name and starts the clock.
func (s *Session) Begin(name string, now time.Time) error {
	if s.State != StateIntro {
		return s.wrongState("begin")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewError(domain.CodeInvalidInput, "respondent name is required",
			domain.ValidationErrors{domain.NewMissingFieldError("name")})
	}
	s.RespondentName = name
	s.StartedAt = now
	s.State = StateInProgress
	return nil
}

// Select records the option chosen for a question; the last choice wins.
func (s *Session) Select(index, option int, now time.Time) error {
	if s.State != StateInProgress {
		return s.wrongState("answer")
	}
	if s.Expired(now) {
		return domain.NewTimeExpiredError()
	}
	if index < 0 || index >= len(s.Quiz.Questions) {
		return domain.NewError(domain.CodeInvalidInput, "question index out of range",
			domain.ValidationErrors{domain.NewOutOfRangeError("index", index, 0, len(s.Quiz.Questions)-1)})
	}
	if option < 0 || option >= domain.OptionCount {
		return domain.NewError(domain.CodeInvalidInput, "option out of range",
			domain.ValidationErrors{domain.NewOutOfRangeError("option", option, 0, domain.OptionCount-1)})
	}
	if s.Answers == nil {
		s.Answers = map[int]int{}
	}
	s.Answers[index] = option
	return nil
}

// Submit grades the answers. It is accepted after the time limit has passed.
func (s *Session) Submit(now time.Time) (Result, error) {
	if s.State != StateInProgress {
		return Result{}, s.wrongState("submit")
	}
	if len(s.Answers) == 0 {
		return Result{}, domain.NewInvalidInputError("answer at least one question before submitting")
	}
	result := Grade(s.Quiz.Questions, s.Answers)
	s.Result = &result
	s.SubmittedAt = now
	s.State = StateSubmitted
	return result, nil
}

// Retry starts over with the same questions.
func (s *Session) Retry(now time.Time) error {
	if s.State != StateSubmitted {
		return s.wrongState("retry")
	}
	s.Answers = map[int]int{}
	s.Result = nil
	s.SubmittedAt = time.Time{}
	s.StartedAt = now
	s.State = StateInProgress
	return nil
}

// Deadline is zero when no time limit is enforced.
func (s *Session) Deadline() time.Time {
	if s.TimeLimit <= 0 || s.StartedAt.IsZero() {
		return time.Time{}
	}
	return s.StartedAt.Add(s.TimeLimit)
}

func (s *Session) Expired(now time.Time) bool {
	deadline := s.Deadline()
	return !deadline.IsZero() && now.After(deadline)
}

// Review is only available once submitted.
func (s *Session) Review() []ReviewItem {
	if s.State != StateSubmitted || s.Quiz == nil {
		return nil
	}
	return Review(s.Quiz.Questions, s.Answers)
}

// Attempt converts a submitted session into a storable attempt.
func (s *Session) Attempt() *domain.Attempt {
	if s.State != StateSubmitted || s.Result == nil {
		return nil
	}
	answers := make(map[int]int, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	return &domain.Attempt{
		QuizID:         s.QuizID,
		RespondentName: s.RespondentName,
		Answers:        answers,
		Score:          s.Result.Score,
		Total:          s.Result.Total,
		Percentage:     s.Result.Percentage,
		Passed:         s.Result.Passed,
		SubmittedAt:    s.SubmittedAt,
	}
}

func (s *Session) wrongState(action string) error {
	return domain.NewInvalidStateError("cannot " + action + " while the quiz is " + string(s.State)).
		WithContext("state", string(s.State))
}
