package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ougirez/canlotto/internal/pkg/logger"
	"github.com/wneessen/go-mail"
)

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Timeout  time.Duration
}

type Email struct {
	cfg EmailConfig
}

func NewEmail(cfg EmailConfig) *Email {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Email{cfg: cfg}
}

func (e *Email) Notify(ctx context.Context, subject, body string) {
	if err := e.send(ctx, subject, body); err != nil {
		logger.Error(ctx, "email notification failed", "subject", subject, "error", err.Error())
	}
}

func (e *Email) message(subject, body string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(e.cfg.From); err != nil {
		return nil, fmt.Errorf("from %q: %w", e.cfg.From, err)
	}
	if err := m.To(e.cfg.To...); err != nil {
		return nil, fmt.Errorf("to %v: %w", e.cfg.To, err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, body)
	return m, nil
}

func (e *Email) send(ctx context.Context, subject, body string) error {
	m, err := e.message(subject, body)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(e.cfg.Port),
		mail.WithTimeout(e.cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if e.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(e.cfg.Username),
			mail.WithPassword(e.cfg.Password),
		)
	}

	c, err := mail.NewClient(e.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("mail.NewClient: %w", err)
	}

	if err = c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("DialAndSend: %w", err)
	}
	return nil
}
