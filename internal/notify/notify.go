// Package notify sends the admin email that follows a lead submission. Email
// is a best-effort side channel: failures are logged and swallowed, lead
// creation already committed before the send starts.
package notify

import (
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/ananev/boutique/internal/model"
)

// SendTimeout bounds how long a send may take before it is abandoned. The
// SMTP dial keeps running in its goroutine but the caller stops waiting.
const SendTimeout = 10 * time.Second

// LeadNotifier is implemented by anything that wants to know about new leads.
type LeadNotifier interface {
	LeadCreated(lead *model.Lead)
}

// Mailer sends lead notifications over SMTP.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	adminTo string
}

// NewMailer returns a Mailer, or nil when no SMTP host is configured. A nil
// *Mailer is safe to call and does nothing.
func NewMailer(host string, port int, username, password, from, adminTo string) *Mailer {
	if host == "" || adminTo == "" {
		return nil
	}
	return &Mailer{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		adminTo: adminTo,
	}
}

// LeadCreated emails the configured admin address about a new lead. The send
// runs detached from the request that created the lead; its outcome is only
// logged.
func (m *Mailer) LeadCreated(lead *model.Lead) {
	if m == nil {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.adminTo)
	msg.SetHeader("Subject", "New Product Interest")
	msg.SetBody("text/plain", fmt.Sprintf(
		"New lead for product ID %d:\nName: %s\nEmail: %s\nPhone: %s\n",
		lead.ProductID, lead.CustomerName, lead.Email, lead.Phone))

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	go func() {
		select {
		case err := <-done:
			if err != nil {
				slog.Error("lead notification email failed", "lead_id", lead.ID, "error", err)
				return
			}
			slog.Info("lead notification email sent", "lead_id", lead.ID)
		case <-time.After(SendTimeout):
			slog.Error("lead notification email timed out", "lead_id", lead.ID)
		}
	}()
}
