package postgres

import (
	"context"
	"fmt"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
)

type reportRepository struct {
	BaseRepository
}

func NewReportRepository(base BaseRepository) repository.ReportRepository {
	return &reportRepository{base}
}

func (r *reportRepository) UserCountsByRole(ctx context.Context) ([]model.RoleCount, error) {
	query := `SELECT role, COUNT(*) AS count FROM users GROUP BY role`

	counts := []model.RoleCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	return counts, nil
}

func (r *reportRepository) AppointmentCountsByStatus(ctx context.Context) ([]model.StatusCount, error) {
	query := `SELECT status, COUNT(*) AS count FROM appointments GROUP BY status`

	counts := []model.StatusCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count appointments by status: %w", err)
	}
	return counts, nil
}

func (r *reportRepository) TotalAppointments(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM appointments`); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return total, nil
}

func (r *reportRepository) TodayAppointments(ctx context.Context) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM appointments WHERE appointment_date = CURRENT_DATE`
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("failed to count today's appointments: %w", err)
	}
	return total, nil
}

func (r *reportRepository) TotalMedicalRecords(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM medical_records`); err != nil {
		return 0, fmt.Errorf("failed to count medical records: %w", err)
	}
	return total, nil
}
