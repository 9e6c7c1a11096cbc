package services

import (
	"fmt"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// NotificationService sends operational emails to the back office. When SMTP
// is not configured every notify call is a no-op.
type NotificationService struct {
	dialer  *gomail.Dialer
	from    string
	to      string
	enabled bool
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg *config.Config) *NotificationService {
	enabled := cfg.SMTP.Host != "" && cfg.SMTP.To != ""

	var dialer *gomail.Dialer
	if enabled {
		dialer = gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	}

	return &NotificationService{
		dialer:  dialer,
		from:    cfg.SMTP.From,
		to:      cfg.SMTP.To,
		enabled: enabled,
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

func (s *NotificationService) send(subject, body string) {
	if !s.enabled {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		logrus.WithError(err).Warn("failed to send notification email")
	}
}

// NotifyLoanCreated sends a notification for a newly created loan
func (s *NotificationService) NotifyLoanCreated(loan *models.Loan) {
	body := fmt.Sprintf(`
		<h2>New loan created</h2>
		<p>Loan: #%d</p>
		<p>Customer: #%d</p>
		<p>Total payable: %s</p>
		<p>Installments: %d</p>`,
		loan.ID, loan.CustomerID, loan.LoanAmount, loan.NumberOfInstallments)

	s.send(fmt.Sprintf("Loan #%d created", loan.ID), body)
}

// NotifyLoanPaidOff sends a notification when a loan becomes fully paid
func (s *NotificationService) NotifyLoanPaidOff(loan *models.Loan) {
	body := fmt.Sprintf(`
		<h2>Loan fully paid</h2>
		<p>Loan: #%d</p>
		<p>Customer: #%d</p>
		<p>Total payable: %s</p>`,
		loan.ID, loan.CustomerID, loan.LoanAmount)

	s.send(fmt.Sprintf("Loan #%d fully paid", loan.ID), body)
}

// NotifyOverdueDigest sends the daily digest of overdue installments
func (s *NotificationService) NotifyOverdueDigest(installments []models.LoanInstallment) {
	if len(installments) == 0 {
		return
	}

	body := "<h2>Overdue installments</h2><ul>"
	for i := range installments {
		body += fmt.Sprintf("<li>Loan #%d, installment %d, amount %s, due %s</li>",
			installments[i].LoanID,
			installments[i].InstallmentNumber,
			installments[i].Amount,
			installments[i].DueDate.Format("2006-01-02"))
	}
	body += "</ul>"

	s.send(fmt.Sprintf("%d overdue installments", len(installments)), body)
}
