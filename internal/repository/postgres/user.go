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

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) CreateWithProfile(ctx context.Context, user *model.User, patient *model.Patient, doctor *model.Doctor) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO users (id, email, password_hash, role, name, phone, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, query,
			user.ID, user.Email, user.PasswordHash, user.Role, user.Name, user.Phone, user.CreatedAt,
		); err != nil {
			return translateErr(err)
		}

		switch {
		case patient != nil:
			patient.ID = uuid.New()
			patient.UserID = user.ID
			query := `
				INSERT INTO patients (id, user_id, date_of_birth, address, medical_history)
				VALUES ($1, $2, $3::date, $4, $5)
			`
			if _, err := tx.ExecContext(ctx, query,
				patient.ID, patient.UserID, patient.DateOfBirth, patient.Address, patient.MedicalHistory,
			); err != nil {
				return translateErr(err)
			}
		case doctor != nil:
			doctor.ID = uuid.New()
			doctor.UserID = user.ID
			query := `
				INSERT INTO doctors (id, user_id, specialization, working_hours)
				VALUES ($1, $2, $3, $4)
			`
			if _, err := tx.ExecContext(ctx, query,
				doctor.ID, doctor.UserID, doctor.Specialization, doctor.WorkingHours,
			); err != nil {
				return translateErr(err)
			}
		}

		return nil
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, role, name, phone, created_at
		FROM users WHERE id = $1
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, role, name, phone, created_at
		FROM users WHERE email = $1
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, role model.Role) ([]*model.User, error) {
	query := `
		SELECT id, email, password_hash, role, name, phone, created_at
		FROM users
	`
	args := []interface{}{}
	if role != "" {
		query += " WHERE role = $1"
		args = append(args, role)
	}
	query += " ORDER BY created_at DESC"

	users := []*model.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

func (r *userRepository) UpdatePatientProfile(ctx context.Context, userID uuid.UUID, req *model.UpdatePatientProfileRequest) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if req.Name != nil || req.Phone != nil {
			query := `
				UPDATE users SET
					name = COALESCE($1, name),
					phone = COALESCE($2, phone)
				WHERE id = $3
			`
			if _, err := tx.ExecContext(ctx, query, req.Name, req.Phone, userID); err != nil {
				return translateErr(err)
			}
		}

		if req.DateOfBirth != nil || req.Address != nil || req.MedicalHistory != nil {
			query := `
				UPDATE patients SET
					date_of_birth = COALESCE($1::date, date_of_birth),
					address = COALESCE($2, address),
					medical_history = COALESCE($3, medical_history)
				WHERE user_id = $4
			`
			result, err := tx.ExecContext(ctx, query, req.DateOfBirth, req.Address, req.MedicalHistory, userID)
			if err != nil {
				return translateErr(err)
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if rows == 0 {
				return repository.ErrNotFound
			}
		}

		return nil
	})
}
