package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
	"github.com/medicore/clinic-api/pkg/auth"
	"github.com/medicore/clinic-api/pkg/security"
)

// Service owns identity records and credential verification. Tokens are
// issued here at registration and login so callers never touch the
// signing primitive directly.
type Service struct {
	userRepo    repository.UserRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	hasher      security.PasswordHasher
	tokens      auth.TokenService
}

func NewService(
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	hasher security.PasswordHasher,
	tokens auth.TokenService,
) *Service {
	return &Service{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Register creates the user plus its role-extension row atomically and
// returns the identity with a fresh token.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, apperror.Validation("role must be one of Patient, Doctor, Admin")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrPasswordTooShort):
			return nil, apperror.Validation("password must be at least 8 characters")
		case errors.Is(err, security.ErrPasswordTooLong):
			return nil, apperror.Validation("password must be at most 72 characters")
		default:
			return nil, apperror.Internal("failed to hash password", err)
		}
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Name:         req.Name,
		Phone:        optional(req.Phone),
	}

	var patient *model.Patient
	var doctor *model.Doctor
	switch role {
	case model.RolePatient:
		patient = &model.Patient{
			DateOfBirth: optional(req.DateOfBirth),
			Address:     optional(req.Address),
		}
	case model.RoleDoctor:
		doctor = &model.Doctor{
			Specialization: optional(req.Specialization),
			WorkingHours:   optional(req.WorkingHours),
		}
	case model.RoleAdmin:
		// Admins carry no extension row.
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, patient, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Validation("email already registered")
		}
		return nil, apperror.Internal("failed to register user", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}

	return &model.AuthResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Token:  token,
	}, nil
}

// Login verifies credentials and issues a token. Unknown email and
// wrong password produce the same error and take comparable time.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.CompareDummy(req.Password)
			return nil, apperror.Authentication("invalid email or password")
		}
		return nil, apperror.Internal("failed to look up user", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperror.Authentication("invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}

	return &model.AuthResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Token:  token,
	}, nil
}

// GetProfile joins the user with its role extension.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal("failed to fetch profile", err)
	}

	profile := &model.Profile{User: *user}

	switch user.Role {
	case model.RolePatient:
		patient, err := s.patientRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal("failed to fetch patient profile", err)
		}
		profile.PatientInfo = patient
	case model.RoleDoctor:
		doctor, err := s.doctorRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal("failed to fetch doctor profile", err)
		}
		profile.DoctorInfo = doctor
	case model.RoleAdmin:
	}

	return profile, nil
}

// UpdatePatientProfile applies a partial update to the caller's own
// identity and patient rows.
func (s *Service) UpdatePatientProfile(ctx context.Context, userID uuid.UUID, req *model.UpdatePatientProfileRequest) error {
	if err := s.userRepo.UpdatePatientProfile(ctx, userID, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("patient record")
		}
		return apperror.Internal("failed to update profile", err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
