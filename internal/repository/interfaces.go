package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medicore/clinic-api/internal/model"
)

// Storage-level sentinels. The postgres implementations translate
// sql.ErrNoRows and unique-constraint violations into these; services
// map them onto the response taxonomy.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrTerminal is returned by guarded status transitions when the row
	// was no longer Scheduled at write time.
	ErrTerminal = errors.New("record in terminal state")
)

type (
	// UserRepository owns User rows and their role-extension rows.
	UserRepository interface {
		// CreateWithProfile inserts the user and its role extension in
		// one transaction. Returns ErrDuplicate if the email is taken.
		CreateWithProfile(ctx context.Context, user *model.User, patient *model.Patient, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context, role model.Role) ([]*model.User, error)
		Delete(ctx context.Context, id uuid.UUID) error
		// UpdatePatientProfile applies the partial update across the
		// users and patients tables in one transaction.
		UpdatePatientProfile(ctx context.Context, userID uuid.UUID, req *model.UpdatePatientProfileRequest) error
	}

	PatientRepository interface {
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
	}

	DoctorRepository interface {
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		GetListing(ctx context.Context, doctorID uuid.UUID) (*model.DoctorListing, error)
		List(ctx context.Context) ([]*model.DoctorListing, error)
	}

	AppointmentRepository interface {
		// Create checks the slot and inserts inside one transaction.
		// The partial unique index on (doctor_id, date, time) for
		// non-cancelled rows is the source of truth; either the
		// pre-check or the constraint yields ErrDuplicate.
		Create(ctx context.Context, appt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		// GetForPatient returns the appointment only when it belongs to
		// patientID; a foreign or missing row is ErrNotFound either way.
		GetForPatient(ctx context.Context, id, patientID uuid.UUID) (*model.Appointment, error)
		GetDetail(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error)
		// UpdateStatus transitions only out of Scheduled; the predicate is
		// part of the UPDATE, so a concurrent completion or cancellation
		// surfaces as ErrTerminal rather than being overwritten.
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.PatientAppointmentView, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID, date string) ([]*model.DoctorAppointmentView, error)
		ListAll(ctx context.Context) ([]*model.AdminAppointmentView, error)
		Report(ctx context.Context, filters *model.ReportFilters) ([]*model.AdminAppointmentView, error)
	}

	MedicalRecordRepository interface {
		// CreateAndCompleteAppointment inserts the record and marks the
		// appointment Completed in one transaction. Returns ErrDuplicate
		// when a record already references the appointment.
		CreateAndCompleteAppointment(ctx context.Context, record *model.MedicalRecord) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecordView, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
	}

	ReportRepository interface {
		UserCountsByRole(ctx context.Context) ([]model.RoleCount, error)
		AppointmentCountsByStatus(ctx context.Context) ([]model.StatusCount, error)
		TotalAppointments(ctx context.Context) (int, error)
		TodayAppointments(ctx context.Context) (int, error)
		TotalMedicalRecords(ctx context.Context) (int, error)
	}
)
