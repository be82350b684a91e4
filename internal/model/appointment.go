package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// ParseAppointmentStatus validates a raw status against the enum.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(s) {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return AppointmentStatus(s), nil
	default:
		return "", fmt.Errorf("invalid appointment status %q", s)
	}
}

// Terminal reports whether no further transition is allowed out of s.
// Completed and Cancelled are both terminal.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// Appointment is a booked slot. Date and time are kept as the calendar
// strings the slot was booked with ("2006-01-02" / "15:04"); slot
// equality for conflict detection happens on these values.
type Appointment struct {
	ID        uuid.UUID         `json:"appointment_id" db:"id"`
	PatientID uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID  uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	Date      string            `json:"appointment_date" db:"appointment_date"`
	Time      string            `json:"appointment_time" db:"appointment_time"`
	Status    AppointmentStatus `json:"status" db:"status"`
	Notes     *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

type CreateAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
	Date     string    `json:"appointment_date" binding:"required,datetime=2006-01-02"`
	Time     string    `json:"appointment_time" binding:"required,datetime=15:04"`
	Notes    string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PatientAppointmentView is a patient-facing row joined with doctor details.
type PatientAppointmentView struct {
	AppointmentID  uuid.UUID         `json:"appointment_id" db:"appointment_id"`
	Date           string            `json:"appointment_date" db:"appointment_date"`
	Time           string            `json:"appointment_time" db:"appointment_time"`
	Status         AppointmentStatus `json:"status" db:"status"`
	Notes          *string           `json:"notes,omitempty" db:"notes"`
	DoctorName     string            `json:"doctor_name" db:"doctor_name"`
	Specialization *string           `json:"specialization,omitempty" db:"specialization"`
}

// DoctorAppointmentView is a doctor-facing row joined with patient details.
type DoctorAppointmentView struct {
	AppointmentID  uuid.UUID         `json:"appointment_id" db:"appointment_id"`
	Date           string            `json:"appointment_date" db:"appointment_date"`
	Time           string            `json:"appointment_time" db:"appointment_time"`
	Status         AppointmentStatus `json:"status" db:"status"`
	Notes          *string           `json:"notes,omitempty" db:"notes"`
	PatientName    string            `json:"patient_name" db:"patient_name"`
	PatientPhone   *string           `json:"patient_phone,omitempty" db:"patient_phone"`
	DateOfBirth    *string           `json:"date_of_birth,omitempty" db:"date_of_birth"`
	MedicalHistory *string           `json:"medical_history,omitempty" db:"medical_history"`
}

// AdminAppointmentView joins both sides for the admin listing and reports.
type AdminAppointmentView struct {
	AppointmentID  uuid.UUID         `json:"appointment_id" db:"appointment_id"`
	Date           string            `json:"appointment_date" db:"appointment_date"`
	Time           string            `json:"appointment_time" db:"appointment_time"`
	Status         AppointmentStatus `json:"status" db:"status"`
	Notes          *string           `json:"notes,omitempty" db:"notes"`
	PatientName    string            `json:"patient_name" db:"patient_name"`
	PatientPhone   *string           `json:"patient_phone,omitempty" db:"patient_phone"`
	DoctorName     string            `json:"doctor_name" db:"doctor_name"`
	Specialization *string           `json:"specialization,omitempty" db:"specialization"`
}

// AppointmentDetail is the single-appointment view with both sides joined.
type AppointmentDetail struct {
	AppointmentID  uuid.UUID         `json:"appointment_id" db:"appointment_id"`
	PatientID      uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID       uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	Date           string            `json:"appointment_date" db:"appointment_date"`
	Time           string            `json:"appointment_time" db:"appointment_time"`
	Status         AppointmentStatus `json:"status" db:"status"`
	Notes          *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	PatientName    string            `json:"patient_name" db:"patient_name"`
	PatientPhone   *string           `json:"patient_phone,omitempty" db:"patient_phone"`
	DateOfBirth    *string           `json:"date_of_birth,omitempty" db:"date_of_birth"`
	MedicalHistory *string           `json:"medical_history,omitempty" db:"medical_history"`
	DoctorName     string            `json:"doctor_name" db:"doctor_name"`
	Specialization *string           `json:"specialization,omitempty" db:"specialization"`
	WorkingHours   *string           `json:"working_hours,omitempty" db:"working_hours"`
}

// ReportFilters compose a conjunctive appointment report filter. All
// fields are optional and independently combinable.
type ReportFilters struct {
	StartDate string
	EndDate   string
	Status    AppointmentStatus
	DoctorID  *uuid.UUID
}
