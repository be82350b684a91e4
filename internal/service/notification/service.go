package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medicore/clinic-api/internal/email"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/messaging"
	"github.com/medicore/clinic-api/pkg/metrics"
)

const (
	notificationChannel = "notifications"
	dispatchTimeout     = 30 * time.Second
)

// AppointmentDetails carries what the outbound messages mention.
type AppointmentDetails struct {
	PatientEmail string
	PatientName  string
	DoctorName   string
	Date         string
	Time         string
}

// Service dispatches notifications as a side effect of appointment
// operations. Dispatch is fire-and-forget: failures are logged and
// counted, never returned to the primary operation.
type Service interface {
	AppointmentConfirmed(userID uuid.UUID, details AppointmentDetails)
	AppointmentCancelled(userID uuid.UUID, details AppointmentDetails)
}

type service struct {
	repo     repository.NotificationRepository
	emailSvc email.Service
	broker   messaging.Broker
	metrics  *metrics.Metrics
}

func NewService(repo repository.NotificationRepository, emailSvc email.Service, broker messaging.Broker, m *metrics.Metrics) Service {
	return &service{
		repo:     repo,
		emailSvc: emailSvc,
		broker:   broker,
		metrics:  m,
	}
}

func (s *service) AppointmentConfirmed(userID uuid.UUID, details AppointmentDetails) {
	message := "Your appointment with " + details.DoctorName +
		" is confirmed for " + details.Date + " at " + details.Time

	go s.dispatch(userID, model.NotificationTypeAppointment, message, details, s.emailSvc.SendAppointmentConfirmation)
}

func (s *service) AppointmentCancelled(userID uuid.UUID, details AppointmentDetails) {
	message := "Your appointment with " + details.DoctorName +
		" on " + details.Date + " has been cancelled"

	go s.dispatch(userID, model.NotificationTypeCancellation, message, details, s.emailSvc.SendAppointmentCancellation)
}

type sendFunc func(to, patientName, doctorName, date, timeSlot string) error

// dispatch runs detached from the request: the booking or cancellation
// has already committed by the time this executes.
func (s *service) dispatch(userID uuid.UUID, typ model.NotificationType, message string, details AppointmentDetails, send sendFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	notification := &model.Notification{
		UserID:  userID,
		Message: message,
		Type:    typ,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("type", string(typ)).
			Msg("failed to store notification")
		s.count(typ, "store_failed")
		return
	}

	if err := send(details.PatientEmail, details.PatientName, details.DoctorName, details.Date, details.Time); err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("type", string(typ)).
			Msg("failed to send notification email")
		s.count(typ, "email_failed")
	} else {
		s.count(typ, "sent")
	}

	if s.broker != nil {
		event := &model.NotificationEvent{
			NotificationID: notification.ID,
			UserID:         userID,
			Type:           typ,
			Message:        message,
			CreatedAt:      notification.CreatedAt,
		}
		if err := s.broker.Publish(ctx, notificationChannel, event); err != nil {
			log.Warn().Err(err).
				Str("notification_id", notification.ID.String()).
				Msg("failed to publish notification event")
		}
	}
}

func (s *service) count(typ model.NotificationType, outcome string) {
	if s.metrics != nil {
		s.metrics.NotificationsDispatched.WithLabelValues(string(typ), outcome).Inc()
	}
}
