package service

import (
	"context"
	"strings"
	"time"

	"eduassist/internal/config"
	"eduassist/internal/domain"
	"eduassist/internal/logger"
	"eduassist/internal/metrics"
	"eduassist/internal/player"

	"go.uber.org/zap"
)

// PlayerService drives public quiz sessions.
type PlayerService interface {
	// Start opens a session from a quiz id or share link. A quiz that cannot
	// be loaded still yields a stored session in the Error state.
	Start(ctx context.Context, quizIDOrLink string) (*player.Session, error)
	Get(ctx context.Context, sessionID string) (*player.Session, error)
	Begin(ctx context.Context, sessionID, name string) (*player.Session, error)
	Select(ctx context.Context, sessionID string, index, option int) (*player.Session, error)
	Submit(ctx context.Context, sessionID string) (*player.Session, error)
	Retry(ctx context.Context, sessionID string) (*player.Session, error)
}

type playerService struct {
	quizzes  QuizService
	store    SessionStore
	attempts domain.AttemptRepository
	cfg      config.QuizConfig
	now      func() time.Time
}

// NewPlayerService creates a PlayerService. attempts is only used when
// cfg.RecordAttempts is set.
func NewPlayerService(quizzes QuizService, store SessionStore, attempts domain.AttemptRepository, cfg config.QuizConfig) PlayerService {
	return &playerService{
		quizzes:  quizzes,
		store:    store,
		attempts: attempts,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *playerService) Start(ctx context.Context, quizIDOrLink string) (*player.Session, error) {
	quizID := ExtractQuizID(quizIDOrLink)
	session := player.NewSession(quizID, s.cfg.TimeLimit)
	if s.cfg.NominalMinutes > 0 {
		session.NominalMinutes = s.cfg.NominalMinutes
	}

	if err := session.Load(ctx, s.quizzes.Get); err != nil {
		logger.Get().Info("Player session failed to load quiz",
			zap.String("session_id", session.ID),
			zap.String("quiz_id", quizID),
			zap.String("code", string(domain.CodeOf(err))))
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *playerService) Get(ctx context.Context, sessionID string) (*player.Session, error) {
	return s.store.Get(ctx, sessionID)
}

// update applies fn to the stored session atomically.
func (s *playerService) update(ctx context.Context, sessionID string, fn func(*player.Session) error) (*player.Session, error) {
	return s.store.Update(ctx, sessionID, fn)
}

func (s *playerService) Begin(ctx context.Context, sessionID, name string) (*player.Session, error) {
	return s.update(ctx, sessionID, func(sess *player.Session) error {
		return sess.Begin(strings.TrimSpace(name), s.now())
	})
}

func (s *playerService) Select(ctx context.Context, sessionID string, index, option int) (*player.Session, error) {
	return s.update(ctx, sessionID, func(sess *player.Session) error {
		return sess.Select(index, option, s.now())
	})
}

func (s *playerService) Submit(ctx context.Context, sessionID string) (*player.Session, error) {
	now := s.now()
	sess, err := s.update(ctx, sessionID, func(sess *player.Session) error {
		_, err := sess.Submit(now)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := sess.Result
	metrics.ObserveSubmission(result.Percentage, result.Passed)
	logger.Get().Info("Quiz submitted",
		zap.String("session_id", sess.ID),
		zap.String("quiz_id", sess.QuizID),
		zap.Int("score", result.Score),
		zap.Int("total", result.Total),
		zap.Bool("passed", result.Passed))
	s.record(ctx, sess)
	return sess, nil
}

// record stores the attempt when enabled. Failures are logged only; the
// respondent still sees their result.
func (s *playerService) record(ctx context.Context, sess *player.Session) {
	if !s.cfg.RecordAttempts || s.attempts == nil {
		return
	}
	attempt := sess.Attempt()
	if attempt == nil {
		return
	}
	if err := s.attempts.SaveAttempt(ctx, attempt); err != nil {
		logger.Get().Error("Failed to record quiz attempt",
			zap.String("session_id", sess.ID),
			zap.String("quiz_id", sess.QuizID),
			zap.Error(err))
	}
}

func (s *playerService) Retry(ctx context.Context, sessionID string) (*player.Session, error) {
	return s.update(ctx, sessionID, func(sess *player.Session) error {
		return sess.Retry(s.now())
	})
}
