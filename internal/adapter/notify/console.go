package notify

import (
	"context"
	"sync"

	"eduassist/internal/domain"
	"eduassist/internal/logger"

	"go.uber.org/zap"
)

// ConsoleNotifier logs notifications instead of delivering them and keeps
// the sent ones for inspection.
type ConsoleNotifier struct {
	channel domain.Channel

	mu   sync.Mutex
	sent []domain.Notification
}

var _ domain.Notifier = (*ConsoleNotifier)(nil)

func NewConsoleNotifier(channel domain.Channel) *ConsoleNotifier {
	return &ConsoleNotifier{channel: channel}
}

func (c *ConsoleNotifier) Channel() domain.Channel {
	return c.channel
}

func (c *ConsoleNotifier) Send(_ context.Context, n domain.Notification) error {
	if n.To == "" {
		return domain.NewInvalidInputError("notification requires a recipient")
	}
	logger.Get().Info("Notification (console)",
		zap.String("channel", string(c.channel)),
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body))

	c.mu.Lock()
	c.sent = append(c.sent, n)
	c.mu.Unlock()
	return nil
}

// Sent returns a copy of everything sent so far.
func (c *ConsoleNotifier) Sent() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Notification, len(c.sent))
	copy(out, c.sent)
	return out
}
