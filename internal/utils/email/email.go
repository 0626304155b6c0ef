package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/retoapp/socia-service/internal/config"
	"github.com/retoapp/socia-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendCobranzaReminder sends a socia the list of credit purchases that are
// due soon or overdue
func (s *Sender) SendCobranzaReminder(to, name string, entries []models.CobranzaEntry) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Recordatorio de cobranza"

	body := fmt.Sprintf("Hola %s,\n\nTienes cobros de crédito por atender:\n\n", name)
	for _, entry := range entries {
		due := "sin fecha"
		if entry.Purchase.CreditDueDate != nil {
			due = entry.Purchase.CreditDueDate.Format("2006-01-02")
		}
		if entry.Overdue {
			body += fmt.Sprintf(
				"- %s: saldo de %.2f MXN, venció el %s\n",
				entry.ClientName, entry.Balance, due,
			)
		} else {
			body += fmt.Sprintf(
				"- %s: saldo de %.2f MXN, vence el %s\n",
				entry.ClientName, entry.Balance, due,
			)
		}
	}
	body += "\nUn cobro a tiempo es una venta completa.\n\nTu app del Reto"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	err := e.Send(addr, auth)
	if err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
