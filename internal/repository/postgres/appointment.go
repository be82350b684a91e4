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

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

// appointmentColumns normalizes date/time back to the calendar strings
// the slot was booked with.
const appointmentColumns = `
	id, patient_id, doctor_id,
	appointment_date::text AS appointment_date,
	to_char(appointment_time, 'HH24:MI') AS appointment_time,
	status, notes, created_at
`

func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	appt.ID = uuid.New()
	appt.Status = model.AppointmentStatusScheduled
	appt.CreatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		// Pre-check gives a clean conflict error; the partial unique
		// index closes the remaining check-then-act window.
		var conflict bool
		checkQuery := `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE doctor_id = $1
				AND appointment_date = $2::date
				AND appointment_time = $3::time
				AND status <> 'Cancelled'
			)
		`
		if err := tx.GetContext(ctx, &conflict, checkQuery, appt.DoctorID, appt.Date, appt.Time); err != nil {
			return fmt.Errorf("failed to check conflicts: %w", err)
		}
		if conflict {
			return repository.ErrDuplicate
		}

		insertQuery := `
			INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, appointment_time, status, notes, created_at)
			VALUES ($1, $2, $3, $4::date, $5::time, $6, $7, $8)
		`
		if _, err := tx.ExecContext(ctx, insertQuery,
			appt.ID, appt.PatientID, appt.DoctorID, appt.Date, appt.Time, appt.Status, appt.Notes, appt.CreatedAt,
		); err != nil {
			return translateErr(err)
		}
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appt model.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &appt, nil
}

func (r *appointmentRepository) GetForPatient(ctx context.Context, id, patientID uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND patient_id = $2`

	var appt model.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id, patientID); err != nil {
		return nil, translateErr(err)
	}
	return &appt, nil
}

func (r *appointmentRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	query := `
		SELECT
			a.id AS appointment_id, a.patient_id, a.doctor_id,
			a.appointment_date::text AS appointment_date,
			to_char(a.appointment_time, 'HH24:MI') AS appointment_time,
			a.status, a.notes, a.created_at,
			up.name AS patient_name, up.phone AS patient_phone,
			p.date_of_birth::text AS date_of_birth, p.medical_history,
			ud.name AS doctor_name, d.specialization, d.working_hours
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		JOIN users up ON p.user_id = up.id
		JOIN doctors d ON a.doctor_id = d.id
		JOIN users ud ON d.user_id = ud.id
		WHERE a.id = $1
	`
	var detail model.AppointmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &detail, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	// The status predicate rides on the UPDATE itself so two concurrent
	// transitions cannot both win; zero rows means missing or terminal.
	query := `UPDATE appointments SET status = $1 WHERE id = $2 AND status = 'Scheduled'`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return translateErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`
		if err := r.db.GetContext(ctx, &exists, checkQuery, id); err != nil {
			return translateErr(err)
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrTerminal
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.PatientAppointmentView, error) {
	query := `
		SELECT
			a.id AS appointment_id,
			a.appointment_date::text AS appointment_date,
			to_char(a.appointment_time, 'HH24:MI') AS appointment_time,
			a.status, a.notes,
			u.name AS doctor_name, d.specialization
		FROM appointments a
		JOIN doctors d ON a.doctor_id = d.id
		JOIN users u ON d.user_id = u.id
		WHERE a.patient_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
	`
	views := []*model.PatientAppointmentView{}
	if err := r.db.SelectContext(ctx, &views, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return views, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID, date string) ([]*model.DoctorAppointmentView, error) {
	query := `
		SELECT
			a.id AS appointment_id,
			a.appointment_date::text AS appointment_date,
			to_char(a.appointment_time, 'HH24:MI') AS appointment_time,
			a.status, a.notes,
			u.name AS patient_name, u.phone AS patient_phone,
			p.date_of_birth::text AS date_of_birth, p.medical_history
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		JOIN users u ON p.user_id = u.id
		WHERE a.doctor_id = $1
	`
	args := []interface{}{doctorID}

	if date != "" {
		query += " AND a.appointment_date = $2::date"
		args = append(args, date)
	}

	// Chronological for the clinical workflow.
	query += " ORDER BY a.appointment_date ASC, a.appointment_time ASC"

	views := []*model.DoctorAppointmentView{}
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return views, nil
}

const adminViewColumns = `
	a.id AS appointment_id,
	a.appointment_date::text AS appointment_date,
	to_char(a.appointment_time, 'HH24:MI') AS appointment_time,
	a.status, a.notes,
	up.name AS patient_name, up.phone AS patient_phone,
	ud.name AS doctor_name, d.specialization
`

const adminViewJoins = `
	FROM appointments a
	JOIN patients p ON a.patient_id = p.id
	JOIN users up ON p.user_id = up.id
	JOIN doctors d ON a.doctor_id = d.id
	JOIN users ud ON d.user_id = ud.id
`

func (r *appointmentRepository) ListAll(ctx context.Context) ([]*model.AdminAppointmentView, error) {
	query := `SELECT ` + adminViewColumns + adminViewJoins +
		` ORDER BY a.appointment_date DESC, a.appointment_time DESC`

	views := []*model.AdminAppointmentView{}
	if err := r.db.SelectContext(ctx, &views, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return views, nil
}

func (r *appointmentRepository) Report(ctx context.Context, filters *model.ReportFilters) ([]*model.AdminAppointmentView, error) {
	query := `SELECT ` + adminViewColumns + adminViewJoins + ` WHERE 1=1`
	args := []interface{}{}

	if filters.StartDate != "" {
		args = append(args, filters.StartDate)
		query += fmt.Sprintf(" AND a.appointment_date >= $%d::date", len(args))
	}
	if filters.EndDate != "" {
		args = append(args, filters.EndDate)
		query += fmt.Sprintf(" AND a.appointment_date <= $%d::date", len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND a.status = $%d", len(args))
	}
	if filters.DoctorID != nil {
		args = append(args, *filters.DoctorID)
		query += fmt.Sprintf(" AND a.doctor_id = $%d", len(args))
	}

	query += " ORDER BY a.appointment_date DESC, a.appointment_time DESC"

	views := []*model.AdminAppointmentView{}
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, fmt.Errorf("failed to build appointment report: %w", err)
	}
	return views, nil
}
