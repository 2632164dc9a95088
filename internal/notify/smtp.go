package notify

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"

	"github.com/hebed-ai/hebed/internal/config"
)

// Message is one transactional HTML email
type Message struct {
	To      string
	Subject string
	HTML    string
}

// SMTP delivers messages through an SMTP relay
type SMTP struct {
	client *mail.Client
	from   string
}

func NewSMTP(cfg config.MailConfig) (*SMTP, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SMTP client")
	}

	return &SMTP{client: client, from: cfg.From}, nil
}

func (s *SMTP) Send(ctx context.Context, m Message) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return errors.Wrapf(err, "invalid sender %q", s.from)
	}
	if err := msg.To(m.To); err != nil {
		return errors.Wrapf(err, "invalid recipient %q", m.To)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrapf(err, "failed to send %q to %s", m.Subject, m.To)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. Used in development.
type LogSender struct{}

func (LogSender) Send(_ context.Context, m Message) error {
	log.WithFields(log.Fields{
		"to":      m.To,
		"subject": m.Subject,
	}).Info("email (not sent, no SMTP host configured)")
	return nil
}
