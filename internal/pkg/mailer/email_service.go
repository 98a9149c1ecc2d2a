package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendApplicationReceived(toEmail, name, policyTitle string) error
	SendApplicationStatus(toEmail, name, policyTitle, status string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderName, clientURL string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		clientURL:   clientURL,
	}
}

func (s *emailService) newMessage(toEmail, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (s *emailService) SendApplicationReceived(toEmail, name, policyTitle string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s,</h2>
			<p>We received your application for <strong>%s</strong>.</p>
			<p>You can follow its progress in <a href="%s/my-applications">My Applications</a>.</p>
		</div>
	`, name, policyTitle, s.clientURL)

	return s.dialer.DialAndSend(s.newMessage(toEmail, "Application received", body))
}

func (s *emailService) SendApplicationStatus(toEmail, name, policyTitle, status string) error {
	label := status
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s,</h2>
			<p>Your application for <strong>%s</strong> is now <strong>%s</strong>.</p>
			<p>See the details in <a href="%s/my-applications">My Applications</a>.</p>
		</div>
	`, name, policyTitle, label, s.clientURL)

	return s.dialer.DialAndSend(s.newMessage(toEmail, "Application "+label, body))
}
