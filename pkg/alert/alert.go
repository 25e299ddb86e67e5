// Package alert notifies operators when the search service fails to start
// or dies. The serve command is the only caller; query-level failures are
// telemetry, not alerts.
package alert

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jkim999/lawyer-search-engine/pkg/config"
)

// Alerter delivers an operator notification.
type Alerter interface {
	Alert(subject, message string) error
}

// EmailAlerter sends notifications over SMTP with plain auth.
type EmailAlerter struct {
	cfg config.AlertConfig
}

// NewEmailAlerter builds an alerter from the alert section of the service
// config.
func NewEmailAlerter(cfg config.AlertConfig) *EmailAlerter {
	return &EmailAlerter{cfg: cfg}
}

// Alert emails subject and message to every configured recipient. Disabled
// config makes it a no-op.
func (a *EmailAlerter) Alert(subject, message string) error {
	if !a.cfg.Enabled {
		return nil
	}

	auth := smtp.PlainAuth("", a.cfg.Username, a.cfg.Password, a.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", a.cfg.SMTPHost, a.cfg.SMTPPort)

	if err := smtp.SendMail(addr, auth, a.cfg.From, a.cfg.To, buildMessage(a.cfg.To, subject, message)); err != nil {
		return fmt.Errorf("sending alert email: %w", err)
	}
	return nil
}

func buildMessage(to []string, subject, message string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ","))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	b.WriteString(message)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// NoOpAlerter swallows alerts. Used when alerting is not configured.
type NoOpAlerter struct{}

func (NoOpAlerter) Alert(subject, message string) error { return nil }

// FromConfig returns an email alerter when alerting is enabled, otherwise
// a no-op.
func FromConfig(cfg config.AlertConfig) Alerter {
	if cfg.Enabled {
		return NewEmailAlerter(cfg)
	}
	return NoOpAlerter{}
}
