package quizgen

import (
	"fmt"
	"strings"

	"eduassist/internal/domain"
)

const quizPromptTemplate = `Tạo %d câu hỏi trắc nghiệm Toán lớp %s, chủ đề: %s, độ khó: %s.

Định dạng JSON array:
[
  {
    "text": "Câu hỏi?",
    "options": ["A", "B", "C", "D"],
    "correctIndex": 0
  }
]

Mỗi câu hỏi có đúng 4 lựa chọn, "correctIndex" là số nguyên từ 0 đến 3.
Chỉ trả về JSON array, không giải thích thêm.`

// BuildQuizPrompt renders the generation prompt. It does not validate its
// inputs; callers run domain.QuizSpec.Validate first.
func BuildQuizPrompt(grade domain.Grade, topic string, difficulty domain.Difficulty, count int) string {
	return fmt.Sprintf(quizPromptTemplate, count, grade, topic, difficulty)
}

// withLanguage appends an output language instruction when one is configured.
func withLanguage(prompt, language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return prompt
	}
	return prompt + "\nNgôn ngữ của câu hỏi và đáp án: " + language + "."
}
