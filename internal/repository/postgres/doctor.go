package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
)

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, user_id, specialization, working_hours
		FROM doctors WHERE user_id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, userID); err != nil {
		return nil, translateErr(err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetListing(ctx context.Context, doctorID uuid.UUID) (*model.DoctorListing, error) {
	query := `
		SELECT d.id AS doctor_id, u.name, u.email, u.phone, d.specialization, d.working_hours
		FROM doctors d
		JOIN users u ON d.user_id = u.id
		WHERE d.id = $1
	`
	var listing model.DoctorListing
	if err := r.db.GetContext(ctx, &listing, query, doctorID); err != nil {
		return nil, translateErr(err)
	}
	return &listing, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.DoctorListing, error) {
	query := `
		SELECT d.id AS doctor_id, u.name, u.email, u.phone, d.specialization, d.working_hours
		FROM doctors d
		JOIN users u ON d.user_id = u.id
		ORDER BY u.name
	`
	listings := []*model.DoctorListing{}
	if err := r.db.SelectContext(ctx, &listings, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return listings, nil
}
