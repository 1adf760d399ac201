package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

type IEmailService interface {
	SendWatchCreated(toEmail string, spec store.WatchSpec) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendWatchCreated(toEmail string, spec store.WatchSpec) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your market watch is active")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Market watch confirmed</h2>
			<p>We are now monitoring for a vehicle that matches:</p>
			<ul>%s</ul>
			<p>Check cadence: <b>%s</b></p>
			<p>Sources: %s</p>
			<p>You'll get a message the moment something clears your spec.</p>
		</div>
	`, listItems(spec.MustHave), orDash(spec.Cadence), orDash(strings.Join(spec.Sources, ", ")))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send watch confirmation to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Watch confirmation sent to %s\n", toEmail)
	return nil
}

func listItems(items []string) string {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString("<li>")
		sb.WriteString(it)
		sb.WriteString("</li>")
	}
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
