package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
)

type medicalRecordRepository struct {
	BaseRepository
}

func NewMedicalRecordRepository(base BaseRepository) repository.MedicalRecordRepository {
	return &medicalRecordRepository{base}
}

func (r *medicalRecordRepository) CreateAndCompleteAppointment(ctx context.Context, record *model.MedicalRecord) error {
	record.ID = uuid.New()
	record.RecordDate = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		// Pre-check for a friendly duplicate error; the unique index on
		// appointment_id is the actual guarantee.
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM medical_records WHERE appointment_id = $1)`
		if err := tx.GetContext(ctx, &exists, checkQuery, record.AppointmentID); err != nil {
			return fmt.Errorf("failed to check existing record: %w", err)
		}
		if exists {
			return repository.ErrDuplicate
		}

		insertQuery := `
			INSERT INTO medical_records (id, patient_id, doctor_id, appointment_id, diagnosis, prescription, record_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, insertQuery,
			record.ID, record.PatientID, record.DoctorID, record.AppointmentID,
			record.Diagnosis, record.Prescription, record.RecordDate,
		); err != nil {
			return translateErr(err)
		}

		// Record creation forces the appointment Completed; the two
		// writes commit or roll back together.
		updateQuery := `UPDATE appointments SET status = $1 WHERE id = $2`
		if _, err := tx.ExecContext(ctx, updateQuery, model.AppointmentStatusCompleted, record.AppointmentID); err != nil {
			return fmt.Errorf("failed to complete appointment: %w", err)
		}

		return nil
	})
}

func (r *medicalRecordRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecordView, error) {
	query := `
		SELECT
			mr.id AS record_id, mr.diagnosis, mr.prescription, mr.record_date,
			u.name AS doctor_name, d.specialization,
			a.appointment_date::text AS appointment_date,
			to_char(a.appointment_time, 'HH24:MI') AS appointment_time
		FROM medical_records mr
		JOIN doctors d ON mr.doctor_id = d.id
		JOIN users u ON d.user_id = u.id
		JOIN appointments a ON mr.appointment_id = a.id
		WHERE mr.patient_id = $1
		ORDER BY mr.record_date DESC
	`
	views := []*model.MedicalRecordView{}
	if err := r.db.SelectContext(ctx, &views, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return views, nil
}
