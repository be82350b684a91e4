package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
	pkgauth "github.com/medicore/clinic-api/pkg/auth"
	"github.com/medicore/clinic-api/pkg/security"
)

type fakeStore struct {
	users    map[uuid.UUID]*model.User
	byEmail  map[string]*model.User
	patients map[uuid.UUID]*model.Patient
	doctors  map[uuid.UUID]*model.Doctor
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*model.User),
		byEmail:  make(map[string]*model.User),
		patients: make(map[uuid.UUID]*model.Patient),
		doctors:  make(map[uuid.UUID]*model.Doctor),
	}
}

func (s *fakeStore) CreateWithProfile(_ context.Context, user *model.User, patient *model.Patient, doctor *model.Doctor) error {
	if _, taken := s.byEmail[user.Email]; taken {
		return repository.ErrDuplicate
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	s.byEmail[user.Email] = user

	if patient != nil {
		patient.ID = uuid.New()
		patient.UserID = user.ID
		s.patients[user.ID] = patient
	}
	if doctor != nil {
		doctor.ID = uuid.New()
		doctor.UserID = user.ID
		s.doctors[user.ID] = doctor
	}
	return nil
}

func (s *fakeStore) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) List(_ context.Context, _ model.Role) ([]*model.User, error) { return nil, nil }

func (s *fakeStore) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (s *fakeStore) UpdatePatientProfile(_ context.Context, userID uuid.UUID, req *model.UpdatePatientProfileRequest) error {
	user, ok := s.users[userID]
	patient, isPatient := s.patients[userID]
	if !ok || !isPatient {
		return repository.ErrNotFound
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Address != nil {
		patient.Address = req.Address
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = req.MedicalHistory
	}
	return nil
}

func (s *fakeStore) GetPatientByUserID(_ context.Context, userID uuid.UUID) (*model.Patient, error) {
	p, ok := s.patients[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

type patientView struct{ store *fakeStore }

func (v patientView) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	return v.store.GetPatientByUserID(ctx, userID)
}

type doctorView struct{ store *fakeStore }

func (v doctorView) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Doctor, error) {
	d, ok := v.store.doctors[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (v doctorView) GetListing(_ context.Context, _ uuid.UUID) (*model.DoctorListing, error) {
	return nil, repository.ErrNotFound
}

func (v doctorView) List(_ context.Context) ([]*model.DoctorListing, error) { return nil, nil }

func newTestService() (*Service, *fakeStore, pkgauth.TokenService) {
	store := newFakeStore()
	tokens := pkgauth.NewJWTService("test-secret", time.Hour)
	svc := NewService(store, patientView{store}, doctorView{store}, security.NewBcryptHasher(bcrypt.MinCost), tokens)
	return svc, store, tokens
}

func TestRegisterPatient(t *testing.T) {
	svc, store, tokens := newTestService()

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:       "alice@example.test",
		Password:    "correct horse",
		Role:        "Patient",
		Name:        "Alice",
		DateOfBirth: "1990-04-12",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RolePatient, resp.Role)
	assert.NotEmpty(t, resp.Token)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
	assert.Equal(t, model.RolePatient, claims.Role)

	patient, ok := store.patients[resp.UserID]
	require.True(t, ok, "patient extension row missing")
	require.NotNil(t, patient.DateOfBirth)
	assert.Equal(t, "1990-04-12", *patient.DateOfBirth)

	// Credentials are never stored in the clear.
	assert.NotEqual(t, "correct horse", store.users[resp.UserID].PasswordHash)
}

func TestRegisterDoctorGetsExtensionRow(t *testing.T) {
	svc, store, _ := newTestService()

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:          "gregory@clinic.test",
		Password:       "diagnostics",
		Role:           "Doctor",
		Name:           "Gregory",
		Specialization: "Diagnostics",
	})
	require.NoError(t, err)

	doctor, ok := store.doctors[resp.UserID]
	require.True(t, ok, "doctor extension row missing")
	require.NotNil(t, doctor.Specialization)
	assert.Equal(t, "Diagnostics", *doctor.Specialization)
	_, hasPatient := store.patients[resp.UserID]
	assert.False(t, hasPatient)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "eve@example.test",
		Password: "whatever1",
		Role:     "SuperUser",
		Name:     "Eve",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "eve@example.test",
		Password: "short",
		Role:     "Patient",
		Name:     "Eve",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "eve@example.test",
		Password: strings.Repeat("a", security.MaxPasswordLen+1),
		Role:     "Patient",
		Name:     "Eve",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.EqualError(t, err, "password must be at most 72 characters")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()

	req := &model.RegisterRequest{
		Email:    "alice@example.test",
		Password: "correct horse",
		Role:     "Patient",
		Name:     "Alice",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.EqualError(t, err, "email already registered")
}

func TestLoginUniformFailure(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "alice@example.test",
		Password: "correct horse",
		Role:     "Patient",
		Name:     "Alice",
	})
	require.NoError(t, err)

	// Wrong password and unknown email are indistinguishable.
	_, wrongPass := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "alice@example.test",
		Password: "wrong horse",
	})
	_, unknownEmail := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.test",
		Password: "correct horse",
	})

	assert.True(t, apperror.IsKind(wrongPass, apperror.KindAuthentication))
	assert.True(t, apperror.IsKind(unknownEmail, apperror.KindAuthentication))
	assert.Equal(t, wrongPass.Error(), unknownEmail.Error())
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _, tokens := newTestService()

	reg, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "alice@example.test",
		Password: "correct horse",
		Role:     "Patient",
		Name:     "Alice",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "alice@example.test",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, resp.UserID)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.test", claims.Email)
}

func TestGetProfileJoinsExtension(t *testing.T) {
	svc, _, _ := newTestService()

	reg, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:       "alice@example.test",
		Password:    "correct horse",
		Role:        "Patient",
		Name:        "Alice",
		DateOfBirth: "1990-04-12",
	})
	require.NoError(t, err)

	profile, err := svc.GetProfile(context.Background(), reg.UserID)
	require.NoError(t, err)
	require.NotNil(t, profile.PatientInfo)
	assert.Nil(t, profile.DoctorInfo)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpdatePatientProfilePartial(t *testing.T) {
	svc, store, _ := newTestService()

	reg, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "alice@example.test",
		Password: "correct horse",
		Role:     "Patient",
		Name:     "Alice",
	})
	require.NoError(t, err)

	newName := "Alice Cooper"
	history := "penicillin allergy"
	err = svc.UpdatePatientProfile(context.Background(), reg.UserID, &model.UpdatePatientProfileRequest{
		Name:           &newName,
		MedicalHistory: &history,
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice Cooper", store.users[reg.UserID].Name)
	require.NotNil(t, store.patients[reg.UserID].MedicalHistory)
	assert.Equal(t, "penicillin allergy", *store.patients[reg.UserID].MedicalHistory)

	err = svc.UpdatePatientProfile(context.Background(), uuid.New(), &model.UpdatePatientProfileRequest{Name: &newName})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
