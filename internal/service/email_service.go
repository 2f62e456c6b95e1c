package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/MALVV/cms-estrella-sur-sub002/config"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailService sends donor notifications. Every send is asynchronous and
// best-effort: a mail failure never fails the operation that triggered it.
type EmailService struct {
	smtpHost string
	smtpPort int
	username string
	password string
}

func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost: config.AppConfig.SMTPHost,
		smtpPort: config.AppConfig.SMTPPort,
		username: config.AppConfig.SMTPUsername,
		password: config.AppConfig.SMTPPassword,
	}
}

// NotifyDonationSettled tells the donor their donation was approved or
// rejected.
func (s *EmailService) NotifyDonationSettled(donation *model.Donation) {
	if s.username == "" || s.password == "" {
		util.Logger.Debug("SMTP not configured, skipping donor notification")
		return
	}

	var subject, body string
	switch donation.Status {
	case model.DonationApproved:
		subject = fmt.Sprintf("Donation %s confirmed", donation.ReferenceNumber)
		body = fmt.Sprintf(
			"Dear %s,<br><br>Your donation of %s has been confirmed. Thank you for supporting Estrella Sur.",
			donation.DonorName, donation.Amount.StringFixed(2))
	case model.DonationRejected:
		subject = fmt.Sprintf("Donation %s could not be verified", donation.ReferenceNumber)
		body = fmt.Sprintf(
			"Dear %s,<br><br>We could not verify the bank transfer for your donation of %s. Please contact us to resolve this.",
			donation.DonorName, donation.Amount.StringFixed(2))
	default:
		return
	}

	s.sendAsync(donation.DonorEmail, subject, body)
}

func (s *EmailService) sendAsync(to, subject, body string) {
	go func() {
		if err := s.send(to, subject, body); err != nil {
			util.Logger.Warn("failed to send notification email",
				zap.Error(err),
				zap.String("to", to))
		}
	}()
}

func (s *EmailService) send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = s.smtpPort == 465
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	return d.DialAndSend(m)
}
