package service

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"strings"
	"sync"

	"eduassist/internal/cache"
	"eduassist/internal/config"
	"eduassist/internal/domain"
	"eduassist/internal/logger"
	"eduassist/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ShareModeHash  = "hash"
	ShareModeQuery = "query"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	Generate(ctx context.Context, spec domain.QuizSpec) ([]domain.Question, error)
	Create(ctx context.Context, ownerID string, draft *domain.Quiz) (*domain.Quiz, error)
	Get(ctx context.Context, id string) (*domain.Quiz, error)
	List(ctx context.Context) ([]*domain.Quiz, error)
	Delete(ctx context.Context, ownerID, id string) error
	ListAttempts(ctx context.Context, ownerID, quizID string) ([]*domain.Attempt, error)
	ShareLink(id string) string
}

// quizService implements QuizService
type quizService struct {
	repo      domain.QuizRepository
	attempts  domain.AttemptRepository
	generator domain.QuestionGenerator
	messages  MessageService
	cache     domain.Cache
	cfg       config.QuizConfig
	group     singleflight.Group

	// deletes counts finished deletions so a cache fill that read the store
	// before a delete does not repopulate the cache after it.
	fillMu  sync.RWMutex
	deletes uint64
}

// NewQuizService creates a new instance of quizService. cache may be nil.
func NewQuizService(
	repo domain.QuizRepository,
	attempts domain.AttemptRepository,
	generator domain.QuestionGenerator,
	messages MessageService,
	cache domain.Cache,
	cfg config.QuizConfig,
) QuizService {
	return &quizService{
		repo:      repo,
		attempts:  attempts,
		generator: generator,
		messages:  messages,
		cache:     cache,
		cfg:       cfg,
	}
}

// Generate validates the spec before any model call and returns unsaved questions.
func (s *quizService) Generate(ctx context.Context, spec domain.QuizSpec) ([]domain.Question, error) {
	if err := spec.Validate(); err != nil {
		metrics.QuizGenerations.WithLabelValues(string(domain.CodeInvalidInput)).Inc()
		return nil, err
	}
	if s.generator == nil {
		metrics.QuizGenerations.WithLabelValues(string(domain.CodeConfigurationMissing)).Inc()
		return nil, domain.NewConfigurationMissingError("Vui lòng cấu hình API key cho mô hình ngôn ngữ")
	}

	questions, err := s.generator.GenerateQuestions(ctx, spec)
	if err != nil {
		code := domain.CodeOf(err)
		metrics.QuizGenerations.WithLabelValues(string(code)).Inc()
		logger.Get().Warn("Quiz generation failed",
			zap.String("code", string(code)),
			zap.String("grade", string(spec.Grade)),
			zap.String("topic", spec.Topic),
			zap.Error(err))
		return nil, err
	}

	metrics.QuizGenerations.WithLabelValues("ok").Inc()
	logger.Get().Info("Quiz generated",
		zap.String("grade", string(spec.Grade)),
		zap.String("topic", spec.Topic),
		zap.Int("requested", spec.Count),
		zap.Int("received", len(questions)))
	return questions, nil
}

// Create persists a reviewed batch. An empty name is composed from the spec.
func (s *quizService) Create(ctx context.Context, ownerID string, draft *domain.Quiz) (*domain.Quiz, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.NewUnauthorizedError("owner is required")
	}
	spec := domain.QuizSpec{
		Grade:      draft.Grade,
		Topic:      draft.Topic,
		Difficulty: draft.Difficulty,
		Count:      len(draft.Questions),
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		name = s.messages.QuizName(ctx, spec)
	}
	quiz := domain.NewQuiz(ownerID, name, spec, draft.Questions)

	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	logger.Get().Info("Quiz saved",
		zap.String("quiz_id", quiz.ID),
		zap.String("owner_id", ownerID),
		zap.Int("count", quiz.Count))

	s.cachePut(ctx, quiz)
	return quiz, nil
}

// Get reads through the cache; concurrent misses share one store read.
func (s *quizService) Get(ctx context.Context, id string) (*domain.Quiz, error) {
	if s.cache != nil {
		var cached domain.Quiz
		err := cache.GetJSON(ctx, s.cache, cache.QuizKey(id), &cached)
		switch {
		case err == nil:
			metrics.QuizCacheLookups.WithLabelValues("hit").Inc()
			return &cached, nil
		case errors.Is(err, domain.ErrCacheMiss):
			metrics.QuizCacheLookups.WithLabelValues("miss").Inc()
		default:
			metrics.QuizCacheLookups.WithLabelValues("error").Inc()
			logger.Get().Warn("Quiz cache read failed", zap.String("quiz_id", id), zap.Error(err))
		}
	}

	v, err, shared := s.group.Do(id, func() (interface{}, error) {
		s.fillMu.RLock()
		seen := s.deletes
		s.fillMu.RUnlock()

		quiz, err := s.repo.GetQuizByID(ctx, id)
		if err != nil {
			return nil, err
		}

		s.fillMu.RLock()
		defer s.fillMu.RUnlock()
		if s.deletes == seen {
			s.cachePut(ctx, quiz)
		}
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Quiz load shared with concurrent request", zap.String("quiz_id", id))
	}
	return v.(*domain.Quiz), nil
}

// List returns quizzes newest first.
func (s *quizService) List(ctx context.Context) ([]*domain.Quiz, error) {
	quizzes, err := s.repo.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(quizzes, func(a, b *domain.Quiz) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return quizzes, nil
}

// Delete removes a quiz owned by ownerID. Another teacher's quiz reports
// QUIZ_NOT_FOUND so ids cannot be probed.
func (s *quizService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteQuiz(ctx, id); err != nil {
		return err
	}

	s.fillMu.Lock()
	s.deletes++
	s.group.Forget(id)
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.QuizKey(id)); err != nil {
			logger.Get().Warn("Failed to invalidate quiz cache", zap.String("quiz_id", id), zap.Error(err))
		}
	}
	s.fillMu.Unlock()
	logger.Get().Info("Quiz deleted", zap.String("quiz_id", id), zap.String("owner_id", ownerID))
	return nil
}

func (s *quizService) ListAttempts(ctx context.Context, ownerID, quizID string) ([]*domain.Attempt, error) {
	if _, err := s.owned(ctx, ownerID, quizID); err != nil {
		return nil, err
	}
	if s.attempts == nil {
		return []*domain.Attempt{}, nil
	}
	return s.attempts.ListAttemptsByQuiz(ctx, quizID)
}

func (s *quizService) owned(ctx context.Context, ownerID, id string) (*domain.Quiz, error) {
	quiz, err := s.repo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.OwnerID != ownerID {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return quiz, nil
}

func (s *quizService) ShareLink(id string) string {
	return BuildShareLink(s.cfg.ShareOrigin, s.cfg.ShareMode, id)
}

func (s *quizService) cachePut(ctx context.Context, quiz *domain.Quiz) {
	if s.cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, s.cache, cache.QuizKey(quiz.ID), quiz, s.cfg.CacheTTL); err != nil {
		logger.Get().Warn("Failed to cache quiz", zap.String("quiz_id", quiz.ID), zap.Error(err))
	}
}

// BuildShareLink returns <origin>/#quiz/<id> or <origin>/?id=<id>.
func BuildShareLink(origin, mode, id string) string {
	origin = strings.TrimRight(origin, "/")
	if mode == ShareModeQuery {
		return origin + "/?id=" + url.QueryEscape(id)
	}
	return origin + "/#quiz/" + id
}

// ExtractQuizID accepts either share link form or a bare id. It returns ""
// when no id can be found.
func ExtractQuizID(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if i := strings.Index(link, "#quiz/"); i >= 0 {
		id := link[i+len("#quiz/"):]
		if j := strings.IndexAny(id, "/?&#"); j >= 0 {
			id = id[:j]
		}
		return id
	}
	if u, err := url.Parse(link); err == nil && (u.Scheme != "" || strings.Contains(link, "?")) {
		return u.Query().Get("id")
	}
	if strings.ContainsAny(link, "/?#= ") {
		return ""
	}
	return link
}
