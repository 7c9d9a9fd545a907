package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"eduassist/internal/domain"
	"eduassist/internal/logger"

	"go.uber.org/zap"
)

const maxQuizNameRunes = 80

// MessageService composes parent messages and short assistant replies. Every
// method falls back to a fixed template, so none of them fail.
type MessageService interface {
	AbsenceNotice(ctx context.Context, student *domain.Student, date time.Time) string
	HomeworkReminder(ctx context.Context, subject, content string, deadline time.Time) string
	QuizName(ctx context.Context, spec domain.QuizSpec) string
	Chat(ctx context.Context, message string) string
}

type messageService struct {
	text domain.TextGenerator
}

// NewMessageService accepts a nil generator; templates are used then.
func NewMessageService(text domain.TextGenerator) MessageService {
	return &messageService{text: text}
}

func (s *messageService) generate(ctx context.Context, kind, prompt string) (string, bool) {
	if s.text == nil {
		return "", false
	}
	out, err := s.text.GenerateText(ctx, prompt)
	if err != nil {
		logger.Get().Warn("Language model unavailable, using template",
			zap.String("kind", kind),
			zap.String("code", string(domain.CodeOf(err))),
			zap.Error(err))
		return "", false
	}
	return out, true
}

func (s *messageService) AbsenceNotice(ctx context.Context, student *domain.Student, date time.Time) string {
	day := FormatDateVN(date, true)
	prompt := fmt.Sprintf(`Viết một tin nhắn thông báo vắng mặt ngắn gọn, lịch sự cho phụ huynh.
Thông tin:
- Tên học sinh: %s
- Lớp: %s
- Ngày vắng: %s
Yêu cầu: Tin nhắn ngắn gọn, tối đa 100 từ, bằng tiếng Việt.`, student.Name, student.ClassName, day)

	if out, ok := s.generate(ctx, "absence", prompt); ok {
		return out
	}
	return fmt.Sprintf("Kính gửi Quý Phụ huynh,\n\nNhà trường xin thông báo: Em %s lớp %s đã vắng mặt trong buổi học ngày %s.\n\nKính mong Quý Phụ huynh xác nhận lý do.\n\nTrân trọng,\nNhà trường",
		student.Name, student.ClassName, day)
}

func (s *messageService) HomeworkReminder(ctx context.Context, subject, content string, deadline time.Time) string {
	due := FormatDateVN(deadline, false)
	prompt := fmt.Sprintf(`Viết tin nhắn nhắc bài tập cho phụ huynh:
- Môn: %s
- Nội dung: %s
- Hạn nộp: %s
Yêu cầu: Ngắn gọn, lịch sự, tối đa 80 từ, tiếng Việt.`, subject, content, due)

	if out, ok := s.generate(ctx, "homework", prompt); ok {
		return out
	}
	return fmt.Sprintf("Kính gửi Quý Phụ huynh,\n\nGiáo viên vừa giao bài tập môn %s:\n\n%s\n\nHạn nộp: %s\n\nTrân trọng!",
		subject, content, due)
}

func (s *messageService) QuizName(ctx context.Context, spec domain.QuizSpec) string {
	prompt := fmt.Sprintf(`Tạo một tên ngắn gọn, hấp dẫn cho bài kiểm tra Toán lớp %s, chủ đề %s, độ khó %s, %d câu.
Chỉ trả về tên bài kiểm tra (tối đa 50 ký tự), không giải thích.`,
		spec.Grade, spec.Topic, spec.Difficulty.Label(), spec.Count)

	if out, ok := s.generate(ctx, "quiz_name", prompt); ok {
		name := strings.Trim(strings.SplitN(out, "\n", 2)[0], " \"'*")
		if name != "" {
			return truncateRunes(name, maxQuizNameRunes)
		}
	}
	return fmt.Sprintf("%s (%s) - %d câu", spec.Topic, shortDifficulty(spec.Difficulty), spec.Count)
}

func (s *messageService) Chat(ctx context.Context, message string) string {
	prompt := fmt.Sprintf("Bạn là trợ lý AI cho giáo viên. Trả lời ngắn gọn bằng tiếng Việt.\nNgười dùng nói: %q", message)
	if out, ok := s.generate(ctx, "chat", prompt); ok {
		return out
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "vắng") || strings.Contains(lower, "nghỉ"):
		return "Tôi có thể giúp bạn soạn thông báo vắng mặt. Vui lòng cung cấp tên học sinh và ngày vắng."
	case strings.Contains(lower, "bài tập"):
		return "Bạn muốn giao bài tập mới? Tôi có thể giúp soạn nội dung nhắc nhở cho phụ huynh."
	case strings.Contains(lower, "trắc nghiệm") || strings.Contains(lower, "quiz"):
		return "Tôi có thể tạo câu hỏi trắc nghiệm Toán cho khối 8-9. Hãy vào mục Trắc Nghiệm."
	}
	return fmt.Sprintf("Tôi hiểu bạn nói: %q. Tôi có thể hỗ trợ soạn thông báo, nhắc bài tập hoặc tạo câu hỏi trắc nghiệm.", message)
}

func shortDifficulty(d domain.Difficulty) string {
	if d == domain.DifficultyMedium {
		return "TB"
	}
	return d.Label()
}

var vnWeekdays = [...]string{"Chủ Nhật", "Thứ Hai", "Thứ Ba", "Thứ Tư", "Thứ Năm", "Thứ Sáu", "Thứ Bảy"}

// FormatDateVN renders t as e.g. "Thứ Hai, 10 tháng 3, 2025".
func FormatDateVN(t time.Time, withYear bool) string {
	s := fmt.Sprintf("%s, %d tháng %d", vnWeekdays[t.Weekday()], t.Day(), int(t.Month()))
	if withYear {
		s += fmt.Sprintf(", %d", t.Year())
	}
	return s
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
