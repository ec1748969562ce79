package notification

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	notificationerrors "go-hrops/internal/notification/errors"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends one plain text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpMailer struct {
	dialer dialer
	from   string
	logger *zap.Logger
}

// NewMailer returns an SMTP mailer, or a logging no-op when no host is set.
func NewMailer(cfg SMTPConfig, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("notification.mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mailer")
	}
	if strings.TrimSpace(cfg.Host) == "" {
		l.Warn("SMTP_HOST not set, emails will only be logged")
		return &noopMailer{logger: l}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		logger: l,
	}
}

func validRecipient(to string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(to))
	if err != nil {
		return "", notificationerrors.ErrInvalidRecipient
	}
	return addr.Address, nil
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	addr, err := validRecipient(to)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", addr)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("send email failed", zap.String("to", addr), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("%w: %v", notificationerrors.ErrSendFailed, err)
	}
	m.logger.Info("email sent", zap.String("to", addr), zap.String("subject", subject))
	return nil
}

type noopMailer struct {
	logger *zap.Logger
}

func (m *noopMailer) Send(ctx context.Context, to, subject, body string) error {
	addr, err := validRecipient(to)
	if err != nil {
		return err
	}
	m.logger.Info("email skipped, mailer disabled", zap.String("to", addr), zap.String("subject", subject))
	return nil
}
