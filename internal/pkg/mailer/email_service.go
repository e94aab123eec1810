package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendInterviewReport(toEmail, candidateName, verdict string, finalScore float64, report string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendInterviewReport(toEmail, candidateName, verdict string, finalScore float64, report string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Interview Report: %s - %s", candidateName, verdict))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Interview Completed</h2>
			<p>Candidate: <strong>%s</strong></p>
			<p>Verdict: <strong>%s</strong> (overall %.2f)</p>
			<pre style="background: #f5f5f5; padding: 15px; border-radius: 5px; white-space: pre-wrap;">%s</pre>
		</div>
	`, html.EscapeString(candidateName), verdict, finalScore, html.EscapeString(report))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send interview report to %s: %w", toEmail, err)
	}
	return nil
}
