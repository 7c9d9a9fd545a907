package domain

import "context"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Notification is a message addressed to a parent.
type Notification struct {
	Channel       Channel
	RecipientName string
	To            string
	Subject       string
	Body          string
}

// Notifier delivers a notification over one channel.
type Notifier interface {
	Channel() Channel
	Send(ctx context.Context, n Notification) error
}
