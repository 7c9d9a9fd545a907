package notify

import (
	"context"
	"fmt"
	"net/http"

	"eduassist/internal/config"
	"eduassist/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridNotifier delivers email notifications through the SendGrid v3 API.
type SendgridNotifier struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
}

var _ domain.Notifier = (*SendgridNotifier)(nil)

func NewSendgridNotifier(cfg config.EmailConfig) *SendgridNotifier {
	return &SendgridNotifier{
		key:        cfg.SendgridAPIKey,
		host:       sendgridHost,
		from:       sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
		subjPrefix: cfg.SubjectPrefix,
	}
}

func (s *SendgridNotifier) Channel() domain.Channel {
	return domain.ChannelEmail
}

func (s *SendgridNotifier) prepare(n domain.Notification) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + n.Subject
	p.AddTos(sgmail.NewEmail(n.RecipientName, n.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", n.Body))
	return m
}

func (s *SendgridNotifier) Send(ctx context.Context, n domain.Notification) error {
	if s.key == "" {
		return domain.NewConfigurationMissingError("SendGrid API key is not configured")
	}
	if n.To == "" {
		return domain.NewInvalidInputError("email notification requires a recipient address")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(n))

	res, err := sendgrid.API(req)
	if err != nil {
		return domain.NewTransportFailureError("sending email failed", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return domain.NewTransportFailureError("sending email failed",
			fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)).
			WithContext("status", res.StatusCode)
	}
	return nil
}
