package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medicore/clinic-api/internal/config"
)

// Service is the outbound transactional-email collaborator. Send failures
// are returned as errors, never panics; callers decide whether to swallow.
type Service interface {
	Send(to, subject, htmlBody string) error
	SendAppointmentConfirmation(to, patientName, doctorName, date, timeSlot string) error
	SendAppointmentCancellation(to, patientName, doctorName, date, timeSlot string) error
}

type smtpService struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPService(cfg config.EmailConfig) Service {
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpService) Send(to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("email service not configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.Sender, s.cfg.SenderName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpService) SendAppointmentConfirmation(to, patientName, doctorName, date, timeSlot string) error {
	subject := "Appointment Confirmation - Medical Clinic"
	body := confirmationBody(patientName, doctorName, date, timeSlot)
	return s.Send(to, subject, body)
}

func (s *smtpService) SendAppointmentCancellation(to, patientName, doctorName, date, timeSlot string) error {
	subject := "Appointment Cancelled - Medical Clinic"
	body := cancellationBody(patientName, doctorName, date, timeSlot)
	return s.Send(to, subject, body)
}

func confirmationBody(patientName, doctorName, date, timeSlot string) string {
	return fmt.Sprintf(`
		<html><body>
		<h1>Appointment Confirmed</h1>
		<p>Dear %s,</p>
		<p>Your appointment has been successfully scheduled.</p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>Please arrive 10 minutes before your appointment time.</p>
		<p>If you need to cancel or reschedule, please do so at least 24 hours in advance.</p>
		</body></html>`,
		patientName, doctorName, date, timeSlot)
}

func cancellationBody(patientName, doctorName, date, timeSlot string) string {
	return fmt.Sprintf(`
		<html><body>
		<h1>Appointment Cancelled</h1>
		<p>Dear %s,</p>
		<p>Your appointment has been cancelled.</p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>If you would like to schedule a new appointment, please contact us.</p>
		</body></html>`,
		patientName, doctorName, date, timeSlot)
}
