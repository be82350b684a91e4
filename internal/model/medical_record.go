package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is tied 1:1 to a completed appointment. Records are
// append-only: no update or delete operation exists.
type MedicalRecord struct {
	ID            uuid.UUID `json:"record_id" db:"id"`
	PatientID     uuid.UUID `json:"patient_id" db:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id" db:"doctor_id"`
	AppointmentID uuid.UUID `json:"appointment_id" db:"appointment_id"`
	Diagnosis     string    `json:"diagnosis" db:"diagnosis"`
	Prescription  *string   `json:"prescription,omitempty" db:"prescription"`
	RecordDate    time.Time `json:"record_date" db:"record_date"`
}

type AddMedicalRecordRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	Diagnosis     string    `json:"diagnosis" binding:"required"`
	Prescription  string    `json:"prescription"`
}

// MedicalRecordView joins the prescribing doctor and the source appointment.
type MedicalRecordView struct {
	RecordID        uuid.UUID `json:"record_id" db:"record_id"`
	Diagnosis       string    `json:"diagnosis" db:"diagnosis"`
	Prescription    *string   `json:"prescription,omitempty" db:"prescription"`
	RecordDate      time.Time `json:"record_date" db:"record_date"`
	DoctorName      string    `json:"doctor_name" db:"doctor_name"`
	Specialization  *string   `json:"specialization,omitempty" db:"specialization"`
	AppointmentDate string    `json:"appointment_date" db:"appointment_date"`
	AppointmentTime string    `json:"appointment_time" db:"appointment_time"`
}
