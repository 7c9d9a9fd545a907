package cache

import "strings"

const (
	GlobalKeyPrefix = "eduassist"

	ServiceQuiz   = "quiz"
	ServicePlayer = "player"
)

// GenerateCacheKey builds "eduassist:<service>:<type>:<id>[:<params joined by _>]".
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuizKey is the read-through cache key of a saved quiz.
func QuizKey(quizID string) string {
	return GenerateCacheKey(ServiceQuiz, "detail", quizID)
}

// SessionKey is the key of a player session.
func SessionKey(sessionID string) string {
	return GenerateCacheKey(ServicePlayer, "session", sessionID)
}
