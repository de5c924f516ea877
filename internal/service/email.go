package service

import "net/smtp"

type EmailService interface{ Send(to, subject, body string) error }

type smtpEmail struct {
	host, port, from string
}

// NewEmailService returns an SMTP sender, or a no-op one when no host is
// configured (tests, local runs without a mail sink).
func NewEmailService(host, port, from string) EmailService {
	if host == "" {
		return noopEmail{}
	}
	return &smtpEmail{host: host, port: port, from: from}
}

func (s *smtpEmail) Send(to, subject, body string) error {
	msg := "From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body
	return smtp.SendMail(s.host+":"+s.port, nil, s.from, []string{to}, []byte(msg))
}

type noopEmail struct{}

func (noopEmail) Send(string, string, string) error { return nil }
