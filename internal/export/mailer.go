package export

import (
	"bytes"
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Mailer delivers the weekly workbook.
type Mailer interface {
	SendExport(ctx context.Context, recipients []string, subject string, workbook []byte) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	cfg    SMTPConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg SMTPConfig, logger *zap.Logger) Mailer {
	return &smtpMailer{
		cfg:    cfg,
		logger: logger,
	}
}

func (m *smtpMailer) SendExport(ctx context.Context, recipients []string, subject string, workbook []byte) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		return fmt.Errorf("smtp is not configured")
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(recipients...); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, "Weekly timer export attached.")
	if err := msg.AttachReader("export.xlsx", bytes.NewReader(workbook)); err != nil {
		return fmt.Errorf("failed to attach workbook: %w", err)
	}

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to build smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Error("Failed to send export mail",
			zap.Error(err),
			zap.Strings("recipients", recipients),
		)
		return fmt.Errorf("failed to send export mail: %w", err)
	}

	m.logger.Info("Export mail sent",
		zap.Strings("recipients", recipients),
		zap.Int("workbook_bytes", len(workbook)),
	)
	return nil
}
