package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/dto"
	"eduassist/internal/handler"
	"eduassist/internal/middleware"
	"eduassist/internal/player"
	"eduassist/internal/service"
	"eduassist/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	teacherEmail = "teacher@school.edu.vn"
	quizID       = "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	sessionID    = "550e8400-e29b-41d4-a716-446655440000"
)

type testServices struct {
	quiz       *MockQuizService
	player     *MockPlayerService
	attendance *MockAttendanceService
	homework   *MockHomeworkService
	students   *MockStudentService
	classes    *MockClassService
	auth       *MockAuthService
}

func newServices() *testServices {
	return &testServices{
		quiz:       &MockQuizService{},
		player:     &MockPlayerService{},
		attendance: &MockAttendanceService{},
		homework:   &MockHomeworkService{},
		students:   &MockStudentService{},
		classes:    &MockClassService{},
		auth: &MockAuthService{
			ValidateJWTFunc: func(ctx context.Context, token string) (*dto.AuthClaims, error) {
				if token != "good" {
					return nil, domain.NewUnauthorizedError("invalid token")
				}
				return &dto.AuthClaims{Email: teacherEmail, RegisteredClaims: jwt.RegisteredClaims{Subject: teacherEmail}}, nil
			},
		},
	}
}

func newTestApp(s *testServices) *fiber.App {
	v := validation.NewValidator()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.Handlers{
		Auth:       handler.NewAuthHandler(s.auth),
		Quiz:       handler.NewQuizHandler(s.quiz, v),
		Player:     handler.NewPlayerHandler(s.player, v),
		Student:    handler.NewStudentHandler(s.students, s.classes, v),
		Attendance: handler.NewAttendanceHandler(s.attendance, v),
		Homework:   handler.NewHomeworkHandler(s.homework, v),
		Assistant:  handler.NewAssistantHandler(service.NewMessageService(nil), v),
	}
	handler.RegisterRoutes(app.Group("/api"), h, middleware.Protected(s.auth), middleware.NewValidationMiddleware(v))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, authed bool) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer good")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}

func sampleQuiz() *domain.Quiz {
	opts := []string{"1", "2", "3", "4"}
	return &domain.Quiz{
		ID:         quizID,
		OwnerID:    teacherEmail,
		Name:       "Phân thức (Dễ) - 2 câu",
		Grade:      domain.Grade8,
		Topic:      "Phân thức",
		Difficulty: domain.DifficultyEasy,
		Questions: []domain.Question{
			{Text: "1+1?", Options: opts, CorrectIndex: 1},
			{Text: "2+2?", Options: opts, CorrectIndex: 3},
		},
		Count:     2,
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(newServices())
	for _, path := range []string{"/api/quizzes", "/api/students", "/api/classes", "/api/homework", "/api/attendance/2025-03-10"} {
		resp, _ := doRequest(t, app, "GET", path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestQuizHandler_Generate(t *testing.T) {
	s := newServices()
	var gotSpec domain.QuizSpec
	s.quiz.GenerateFunc = func(ctx context.Context, spec domain.QuizSpec) ([]domain.Question, error) {
		gotSpec = spec
		return sampleQuiz().Questions, nil
	}
	app := newTestApp(s)

	resp, body := doRequest(t, app, "POST", "/api/quizzes/generate", dto.GenerateQuizRequest{
		Grade: "9", Topic: "Hệ phương trình", Difficulty: "hard", Count: 2,
	}, true)

	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, domain.QuizSpec{Grade: domain.Grade9, Topic: "Hệ phương trình", Difficulty: domain.DifficultyHard, Count: 2}, gotSpec)
	var out dto.GenerateQuizResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Questions, 2)
	assert.Equal(t, 3, out.Questions[1].CorrectIndex)
}

func TestQuizHandler_Generate_InvalidRequestMakesNoCall(t *testing.T) {
	app := newTestApp(newServices()) // GenerateFunc unset: a call would panic

	resp, body := doRequest(t, app, "POST", "/api/quizzes/generate", map[string]interface{}{
		"grade": "7", "topic": " ", "difficulty": "medium", "count": 51,
	}, true)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out middleware.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	fields := make([]string, 0, len(out.Errors))
	for _, e := range out.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"grade", "topic", "count"}, fields)
}

func TestQuizHandler_Generate_ModelErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewMalformedResponseError("not json", nil), http.StatusUnprocessableEntity, "MALFORMED_RESPONSE"},
		{domain.NewConfigurationMissingError("no key"), http.StatusServiceUnavailable, "CONFIGURATION_MISSING"},
		{domain.NewTransportFailureError("quota", nil), http.StatusBadGateway, "TRANSPORT_FAILURE"},
	}
	for _, tt := range tests {
		s := newServices()
		s.quiz.GenerateFunc = func(ctx context.Context, spec domain.QuizSpec) ([]domain.Question, error) {
			return nil, tt.err
		}
		resp, body := doRequest(t, newTestApp(s), "POST", "/api/quizzes/generate", dto.GenerateQuizRequest{
			Grade: "8", Topic: "Phân thức", Difficulty: "easy", Count: 5,
		}, true)

		assert.Equal(t, tt.status, resp.StatusCode)
		var out middleware.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, tt.code, out.Code)
	}
}

func TestQuizHandler_Create(t *testing.T) {
	s := newServices()
	s.quiz.CreateFunc = func(ctx context.Context, ownerID string, draft *domain.Quiz) (*domain.Quiz, error) {
		assert.Equal(t, teacherEmail, ownerID)
		assert.Len(t, draft.Questions, 2)
		q := sampleQuiz()
		q.Name = "Phân thức (Dễ) - 2 câu"
		return q, nil
	}
	app := newTestApp(s)

	q := sampleQuiz()
	resp, body := doRequest(t, app, "POST", "/api/quizzes", dto.CreateQuizRequest{
		Grade: "8", Topic: q.Topic, Difficulty: "easy", Questions: dto.ToQuestionDTOs(q.Questions),
	}, true)

	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.QuizResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, quizID, out.ID)
	assert.Equal(t, "https://eduassist.test/#quiz/"+quizID, out.ShareLink)
}

func TestQuizHandler_Create_RejectsThreeOptions(t *testing.T) {
	app := newTestApp(newServices())
	resp, _ := doRequest(t, app, "POST", "/api/quizzes", map[string]interface{}{
		"grade": "8", "topic": "x", "difficulty": "easy",
		"questions": []map[string]interface{}{{"text": "q", "options": []string{"a", "b", "c"}, "correct_index": 0}},
	}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuizHandler_GetAndDelete(t *testing.T) {
	s := newServices()
	s.quiz.GetFunc = func(ctx context.Context, id string) (*domain.Quiz, error) {
		if id != quizID {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return sampleQuiz(), nil
	}
	var deletedBy string
	s.quiz.DeleteFunc = func(ctx context.Context, ownerID, id string) error {
		deletedBy = ownerID
		return nil
	}
	app := newTestApp(s)

	resp, body := doRequest(t, app, "GET", "/api/quizzes/"+quizID, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.QuizResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Len(t, out.Questions, 2)

	resp, _ = doRequest(t, app, "GET", "/api/quizzes/01BX5ZZKBKACTAV9WEVGEMMVRZ", nil, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/api/quizzes/bad-id", nil, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doRequest(t, app, "GET", "/api/quizzes/"+quizID+"/share", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "#quiz/"+quizID)

	resp, _ = doRequest(t, app, "DELETE", "/api/quizzes/"+quizID, nil, true)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, teacherEmail, deletedBy)
}

func inProgressSession() *player.Session {
	return &player.Session{
		ID:             sessionID,
		QuizID:         quizID,
		State:          player.StateInProgress,
		Quiz:           sampleQuiz(),
		RespondentName: "An",
		Answers:        map[int]int{0: 1},
		NominalMinutes: 15,
	}
}

func TestPlayerHandler_StartFromLink(t *testing.T) {
	s := newServices()
	s.player.StartFunc = func(ctx context.Context, target string) (*player.Session, error) {
		assert.Equal(t, "https://eduassist.test/#quiz/"+quizID, target)
		return &player.Session{ID: sessionID, QuizID: quizID, State: player.StateIntro, Quiz: sampleQuiz(), NominalMinutes: 15}, nil
	}
	app := newTestApp(s)

	resp, body := doRequest(t, app, "POST", "/api/play/sessions", dto.StartSessionRequest{Link: "https://eduassist.test/#quiz/" + quizID}, false)

	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.SessionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "intro", out.State)
	assert.Equal(t, 2, out.QuestionCount)
	assert.Equal(t, 15, out.NominalMinutes)
	assert.Empty(t, out.Questions)
}

func TestPlayerHandler_StartNeedsTarget(t *testing.T) {
	app := newTestApp(newServices())
	resp, _ := doRequest(t, app, "POST", "/api/play/sessions", map[string]string{}, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlayerHandler_Answer(t *testing.T) {
	s := newServices()
	s.player.SelectFunc = func(ctx context.Context, id string, index, option int) (*player.Session, error) {
		assert.Equal(t, sessionID, id)
		sess := inProgressSession()
		sess.Answers[index] = option
		return sess, nil
	}
	app := newTestApp(s)

	resp, body := doRequest(t, app, "PUT", "/api/play/sessions/"+sessionID+"/answers/1", map[string]int{"option": 2}, false)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.SessionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 2, out.Answers[1])
	require.Len(t, out.Questions, 2)
	assert.NotContains(t, string(body), "correct")

	resp, _ = doRequest(t, app, "PUT", "/api/play/sessions/"+sessionID+"/answers/1", map[string]int{"option": 4}, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, "PUT", "/api/play/sessions/"+sessionID+"/answers/1", map[string]string{}, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlayerHandler_TimeExpired(t *testing.T) {
	s := newServices()
	s.player.SelectFunc = func(ctx context.Context, id string, index, option int) (*player.Session, error) {
		return nil, domain.NewTimeExpiredError()
	}
	resp, _ := doRequest(t, newTestApp(s), "PUT", "/api/play/sessions/"+sessionID+"/answers/0", map[string]int{"option": 0}, false)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPlayerHandler_SubmitShowsReview(t *testing.T) {
	s := newServices()
	s.player.SubmitFunc = func(ctx context.Context, id string) (*player.Session, error) {
		sess := inProgressSession()
		_, err := sess.Submit(time.Now())
		return sess, err
	}
	resp, body := doRequest(t, newTestApp(s), "POST", "/api/play/sessions/"+sessionID+"/submit", nil, false)

	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.SessionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "submitted", out.State)
	require.NotNil(t, out.Result)
	assert.Equal(t, 1, out.Result.Score)
	assert.Equal(t, 50, out.Result.Percentage)
	assert.True(t, out.Result.Passed)
	require.Len(t, out.Review, 2)
	assert.False(t, out.Review[1].Answered)
}

func TestAttendanceHandler(t *testing.T) {
	s := newServices()
	var gotNotify bool
	var gotDate time.Time
	s.attendance.SaveFunc = func(ctx context.Context, date time.Time, statuses map[string]domain.AttendanceStatus, notify bool) (dto.NotifyResult, error) {
		gotNotify, gotDate = notify, date
		assert.Equal(t, domain.StatusAbsent, statuses["s1"])
		return dto.NotifyResult{Saved: 3, Absent: 1, Notified: 1}, nil
	}
	s.attendance.WeekFunc = func(ctx context.Context, end time.Time) ([]dto.AttendanceSummaryResponse, error) {
		return make([]dto.AttendanceSummaryResponse, 7), nil
	}
	app := newTestApp(s)

	resp, body := doRequest(t, app, "PUT", "/api/attendance/2025-03-10", map[string]interface{}{
		"statuses": map[string]string{"s1": "absent"},
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.True(t, gotNotify)
	assert.Equal(t, "2025-03-10", gotDate.Format(domain.DateLayout))

	_, _ = doRequest(t, app, "PUT", "/api/attendance/2025-03-10", map[string]interface{}{
		"statuses": map[string]string{"s1": "absent"}, "notify": false,
	}, true)
	assert.False(t, gotNotify)

	resp, _ = doRequest(t, app, "PUT", "/api/attendance/2025-03-10", map[string]interface{}{
		"statuses": map[string]string{"s1": "late"},
	}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/api/attendance/10-03-2025", nil, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doRequest(t, app, "GET", "/api/attendance/week/2025-03-10", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var week []dto.AttendanceSummaryResponse
	require.NoError(t, json.Unmarshal(body, &week))
	assert.Len(t, week, 7)
}

func TestHomeworkHandler_Create(t *testing.T) {
	s := newServices()
	deadline := time.Date(2030, 1, 2, 17, 0, 0, 0, time.UTC)
	s.homework.CreateFunc = func(ctx context.Context, hw *domain.Homework) (*dto.CreateHomeworkResponse, error) {
		assert.True(t, hw.Deadline.Equal(deadline))
		hw.ID = "hw1"
		return &dto.CreateHomeworkResponse{
			Homework: dto.ToHomeworkResponse(hw, time.Now()),
			Reminder: dto.NotifyResult{Saved: 1, Notified: 2},
		}, nil
	}
	app := newTestApp(s)

	resp, body := doRequest(t, app, "POST", "/api/homework", map[string]interface{}{
		"subject": "Toán", "class_name": "8A", "content": "Bài 1-5", "deadline": deadline.Format(time.RFC3339),
	}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.CreateHomeworkResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 2, out.Reminder.Notified)

	resp, _ = doRequest(t, app, "POST", "/api/homework", map[string]interface{}{"subject": "Toán"}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStudentHandler(t *testing.T) {
	s := newServices()
	s.students.CreateFunc = func(ctx context.Context, st *domain.Student) (*domain.Student, error) {
		st.ID = quizID
		return st, nil
	}
	s.students.ListFunc = func(ctx context.Context, className string) ([]*domain.Student, error) {
		assert.Equal(t, "8A", className)
		return []*domain.Student{{ID: "s1", Name: "Nguyễn Văn An", ClassName: "8A"}}, nil
	}
	app := newTestApp(s)

	resp, body := doRequest(t, app, "POST", "/api/students", dto.StudentRequest{
		Name: "Trần Thị Bình", ClassName: "8A", ParentPhone: "0912 345 678",
	}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = doRequest(t, app, "POST", "/api/students", dto.StudentRequest{
		Name: "Bình", ClassName: "8A", ParentPhone: "12345",
	}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doRequest(t, app, "GET", "/api/students?class=8A", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.StudentResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Initials)
}

func TestAssistantHandler_Chat(t *testing.T) {
	app := newTestApp(newServices())
	resp, body := doRequest(t, app, "POST", "/api/assistant/chat", dto.ChatRequest{Message: "Giao bài tập cho lớp 8A"}, true)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ChatResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out.Reply, "bài tập")
}

func TestAuthHandler(t *testing.T) {
	s := newServices()
	s.auth.CallbackFunc = func(ctx context.Context, code, received, expected string) (*dto.TokenResponse, error) {
		assert.Equal(t, "the-code", code)
		if received != expected {
			return nil, domain.NewUnauthorizedError("invalid oauth state")
		}
		return &dto.TokenResponse{AccessToken: "jwt", TokenType: "Bearer", Email: teacherEmail}, nil
	}
	app := newTestApp(s)

	resp, _ := doRequest(t, app, "GET", "/api/auth/google/login", nil, false)
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	var state string
	for _, c := range resp.Cookies() {
		if c.Name == "oauthstate" {
			state = c.Value
		}
	}
	require.NotEmpty(t, state)
	assert.True(t, strings.HasSuffix(resp.Header.Get("Location"), "state="+state))

	req := httptest.NewRequest("GET", "/api/auth/google/callback?code=the-code&state="+state, nil)
	req.AddCookie(&http.Cookie{Name: "oauthstate", Value: state})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/auth/google/callback?code=the-code&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: "oauthstate", Value: state})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/api/auth/google/callback?state=x", nil, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
