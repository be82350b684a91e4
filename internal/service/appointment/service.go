package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/internal/service/notification"
	"github.com/medicore/clinic-api/pkg/apperror"
)

// Service owns the appointment state machine. Scheduled is the only
// non-terminal state: Completed and Cancelled admit no further
// transitions.
type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	userRepo    repository.UserRepository
	notifier    notification.Service
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	notifier notification.Service,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// Create books a slot for the calling patient. The storage layer holds
// the double-booking invariant; a lost race surfaces as the same
// conflict error as the pre-check.
func (s *Service) Create(ctx context.Context, patientUserID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patient, err := s.patientRepo.GetByUserID(ctx, patientUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient record")
		}
		return nil, apperror.Internal("failed to resolve patient", err)
	}

	appt := &model.Appointment{
		PatientID: patient.ID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
	}
	if req.Notes != "" {
		appt.Notes = &req.Notes
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("this time slot is already booked, please choose another time")
		}
		return nil, apperror.Internal("failed to create appointment", err)
	}

	s.notify(ctx, patientUserID, appt, true)

	return appt, nil
}

// Cancel marks the caller's own appointment Cancelled. A foreign or
// missing appointment yields the same error so callers cannot tell
// which IDs exist.
func (s *Service) Cancel(ctx context.Context, patientUserID, appointmentID uuid.UUID) error {
	patient, err := s.patientRepo.GetByUserID(ctx, patientUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("patient record")
		}
		return apperror.Internal("failed to resolve patient", err)
	}

	appt, err := s.repo.GetForPatient(ctx, appointmentID, patient.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Authorization("you can only cancel your own appointments")
		}
		return apperror.Internal("failed to fetch appointment", err)
	}

	if appt.Status.Terminal() {
		return apperror.Conflict("appointment is already " + string(appt.Status))
	}

	if err := s.repo.UpdateStatus(ctx, appointmentID, model.AppointmentStatusCancelled); err != nil {
		if errors.Is(err, repository.ErrTerminal) {
			// Lost a race with a concurrent transition.
			if cur, gerr := s.repo.GetForPatient(ctx, appointmentID, patient.ID); gerr == nil {
				return apperror.Conflict("appointment is already " + string(cur.Status))
			}
			return apperror.Conflict("appointment is already completed or cancelled")
		}
		return apperror.Internal("failed to cancel appointment", err)
	}

	s.notify(ctx, patientUserID, appt, false)

	return nil
}

// UpdateStatus is the Doctor/Admin transition. Terminal states are
// locked: no transition out of Completed or Cancelled.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, rawStatus string) error {
	status, err := model.ParseAppointmentStatus(rawStatus)
	if err != nil {
		return apperror.Validation("status must be one of Scheduled, Completed, Cancelled")
	}

	appt, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("appointment")
		}
		return apperror.Internal("failed to fetch appointment", err)
	}

	if appt.Status == status {
		return nil
	}
	if appt.Status.Terminal() {
		return apperror.Conflict("appointment is already " + string(appt.Status))
	}

	if err := s.repo.UpdateStatus(ctx, appointmentID, status); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperror.NotFound("appointment")
		case errors.Is(err, repository.ErrTerminal):
			// Lost a race with a concurrent transition; re-read so a
			// duplicate of the winning transition stays a no-op.
			cur, gerr := s.repo.Get(ctx, appointmentID)
			if gerr != nil {
				return apperror.Conflict("appointment is already completed or cancelled")
			}
			if cur.Status == status {
				return nil
			}
			return apperror.Conflict("appointment is already " + string(cur.Status))
		default:
			return apperror.Internal("failed to update appointment status", err)
		}
	}
	return nil
}

// Delete hard-deletes an appointment. Admin only; the row is gone, not
// cancelled.
func (s *Service) Delete(ctx context.Context, appointmentID uuid.UUID) error {
	if err := s.repo.Delete(ctx, appointmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("appointment")
		}
		return apperror.Internal("failed to delete appointment", err)
	}
	return nil
}

// Get returns the joined single-appointment view, scoped to the caller.
// Admins see any row and get a 404 for an absent one. Patients and
// doctors get the same error whether the row is missing or owned by
// someone else, so they cannot tell which IDs exist.
func (s *Service) Get(ctx context.Context, claims *model.Claims, appointmentID uuid.UUID) (*model.AppointmentDetail, error) {
	switch claims.Role {
	case model.RoleAdmin:
		detail, err := s.repo.GetDetail(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("appointment")
			}
			return nil, apperror.Internal("failed to fetch appointment", err)
		}
		return detail, nil

	case model.RolePatient:
		patient, err := s.patientRepo.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("patient record")
			}
			return nil, apperror.Internal("failed to resolve patient", err)
		}
		detail, err := s.scopedDetail(ctx, appointmentID)
		if err != nil {
			return nil, err
		}
		if detail.PatientID != patient.ID {
			return nil, apperror.Authorization("you can only view your own appointments")
		}
		return detail, nil

	case model.RoleDoctor:
		doctor, err := s.doctorRepo.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("doctor record")
			}
			return nil, apperror.Internal("failed to resolve doctor", err)
		}
		detail, err := s.scopedDetail(ctx, appointmentID)
		if err != nil {
			return nil, err
		}
		if detail.DoctorID != doctor.ID {
			return nil, apperror.Authorization("you can only view your own appointments")
		}
		return detail, nil

	default:
		return nil, apperror.Authorization("access denied: insufficient permissions")
	}
}

// scopedDetail fetches for a non-admin caller: an absent row yields the
// same 403 the ownership check does.
func (s *Service) scopedDetail(ctx context.Context, appointmentID uuid.UUID) (*model.AppointmentDetail, error) {
	detail, err := s.repo.GetDetail(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Authorization("you can only view your own appointments")
		}
		return nil, apperror.Internal("failed to fetch appointment", err)
	}
	return detail, nil
}

// ListForPatient returns the caller's own bookings, newest first.
func (s *Service) ListForPatient(ctx context.Context, patientUserID uuid.UUID) ([]*model.PatientAppointmentView, error) {
	patient, err := s.patientRepo.GetByUserID(ctx, patientUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient record")
		}
		return nil, apperror.Internal("failed to resolve patient", err)
	}

	views, err := s.repo.ListForPatient(ctx, patient.ID)
	if err != nil {
		return nil, apperror.Internal("failed to list appointments", err)
	}
	return views, nil
}

// ListForDoctor returns the caller's schedule in chronological order,
// optionally narrowed to one date.
func (s *Service) ListForDoctor(ctx context.Context, doctorUserID uuid.UUID, date string) ([]*model.DoctorAppointmentView, error) {
	doctor, err := s.doctorRepo.GetByUserID(ctx, doctorUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("doctor record")
		}
		return nil, apperror.Internal("failed to resolve doctor", err)
	}

	views, err := s.repo.ListForDoctor(ctx, doctor.ID, date)
	if err != nil {
		return nil, apperror.Internal("failed to list schedule", err)
	}
	return views, nil
}

// ListAll is the unfiltered admin listing.
func (s *Service) ListAll(ctx context.Context) ([]*model.AdminAppointmentView, error) {
	views, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list appointments", err)
	}
	return views, nil
}

// notify gathers the participant details and hands off to the
// dispatcher. Best-effort: any lookup failure is logged and the booking
// outcome stands.
func (s *Service) notify(ctx context.Context, patientUserID uuid.UUID, appt *model.Appointment, confirmed bool) {
	user, err := s.userRepo.Get(ctx, patientUserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", patientUserID.String()).Msg("skipping notification: patient lookup failed")
		return
	}

	doctor, err := s.doctorRepo.GetListing(ctx, appt.DoctorID)
	if err != nil {
		log.Warn().Err(err).Str("doctor_id", appt.DoctorID.String()).Msg("skipping notification: doctor lookup failed")
		return
	}

	details := notification.AppointmentDetails{
		PatientEmail: user.Email,
		PatientName:  user.Name,
		DoctorName:   doctor.Name,
		Date:         appt.Date,
		Time:         appt.Time,
	}

	if confirmed {
		s.notifier.AppointmentConfirmed(patientUserID, details)
	} else {
		s.notifier.AppointmentCancelled(patientUserID, details)
	}
}
