package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/internal/service/notification"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type fakeAppointmentRepo struct {
	appts map[uuid.UUID]*model.Appointment
	// raceTo, when set, makes the next UpdateStatus behave as if a
	// concurrent transition to that status won just before the write.
	raceTo model.AppointmentStatus
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *model.Appointment) error {
	for _, a := range f.appts {
		if a.DoctorID == appt.DoctorID && a.Date == appt.Date && a.Time == appt.Time &&
			a.Status != model.AppointmentStatusCancelled {
			return repository.ErrDuplicate
		}
	}
	appt.ID = uuid.New()
	appt.Status = model.AppointmentStatusScheduled
	appt.CreatedAt = time.Now()
	f.appts[appt.ID] = appt
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, ok := f.appts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return appt, nil
}

func (f *fakeAppointmentRepo) GetForPatient(_ context.Context, id, patientID uuid.UUID) (*model.Appointment, error) {
	appt, ok := f.appts[id]
	if !ok || appt.PatientID != patientID {
		return nil, repository.ErrNotFound
	}
	return appt, nil
}

func (f *fakeAppointmentRepo) GetDetail(_ context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	appt, ok := f.appts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.AppointmentDetail{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		Date:          appt.Date,
		Time:          appt.Time,
		Status:        appt.Status,
	}, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	appt, ok := f.appts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if f.raceTo != "" {
		appt.Status = f.raceTo
		f.raceTo = ""
		return repository.ErrTerminal
	}
	if appt.Status != model.AppointmentStatusScheduled {
		return repository.ErrTerminal
	}
	appt.Status = status
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.appts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.appts, id)
	return nil
}

func (f *fakeAppointmentRepo) ListForPatient(_ context.Context, patientID uuid.UUID) ([]*model.PatientAppointmentView, error) {
	var views []*model.PatientAppointmentView
	for _, a := range f.appts {
		if a.PatientID == patientID {
			views = append(views, &model.PatientAppointmentView{
				AppointmentID: a.ID,
				Date:          a.Date,
				Time:          a.Time,
				Status:        a.Status,
			})
		}
	}
	return views, nil
}

func (f *fakeAppointmentRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID, date string) ([]*model.DoctorAppointmentView, error) {
	var views []*model.DoctorAppointmentView
	for _, a := range f.appts {
		if a.DoctorID != doctorID {
			continue
		}
		if date != "" && a.Date != date {
			continue
		}
		views = append(views, &model.DoctorAppointmentView{
			AppointmentID: a.ID,
			Date:          a.Date,
			Time:          a.Time,
			Status:        a.Status,
		})
	}
	return views, nil
}

func (f *fakeAppointmentRepo) ListAll(_ context.Context) ([]*model.AdminAppointmentView, error) {
	var views []*model.AdminAppointmentView
	for _, a := range f.appts {
		views = append(views, &model.AdminAppointmentView{
			AppointmentID: a.ID,
			Date:          a.Date,
			Time:          a.Time,
			Status:        a.Status,
		})
	}
	return views, nil
}

func (f *fakeAppointmentRepo) Report(_ context.Context, _ *model.ReportFilters) ([]*model.AdminAppointmentView, error) {
	return f.ListAll(context.Background())
}

type fakePatientRepo struct {
	byUserID map[uuid.UUID]*model.Patient
	err      error
}

func (f *fakePatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byUserID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

type fakeDoctorRepo struct {
	byUserID map[uuid.UUID]*model.Doctor
	listings map[uuid.UUID]*model.DoctorListing
}

func (f *fakeDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Doctor, error) {
	d, ok := f.byUserID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) GetListing(_ context.Context, doctorID uuid.UUID) (*model.DoctorListing, error) {
	l, ok := f.listings[doctorID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return l, nil
}

func (f *fakeDoctorRepo) List(_ context.Context) ([]*model.DoctorListing, error) {
	var out []*model.DoctorListing
	for _, l := range f.listings {
		out = append(out, l)
	}
	return out, nil
}

type fakeUserRepo struct {
	byID map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) CreateWithProfile(_ context.Context, _ *model.User, _ *model.Patient, _ *model.Doctor) error {
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context, _ model.Role) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (f *fakeUserRepo) UpdatePatientProfile(_ context.Context, _ uuid.UUID, _ *model.UpdatePatientProfileRequest) error {
	return nil
}

type fakeNotifier struct {
	confirmed []notification.AppointmentDetails
	cancelled []notification.AppointmentDetails
}

func (f *fakeNotifier) AppointmentConfirmed(_ uuid.UUID, details notification.AppointmentDetails) {
	f.confirmed = append(f.confirmed, details)
}

func (f *fakeNotifier) AppointmentCancelled(_ uuid.UUID, details notification.AppointmentDetails) {
	f.cancelled = append(f.cancelled, details)
}

type fixture struct {
	svc      *Service
	repo     *fakeAppointmentRepo
	patients *fakePatientRepo
	notifier *fakeNotifier

	patientUserID uuid.UUID
	patientID     uuid.UUID
	otherUserID   uuid.UUID
	otherID       uuid.UUID
	doctorUserID  uuid.UUID
	doctorID      uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:          newFakeAppointmentRepo(),
		notifier:      &fakeNotifier{},
		patientUserID: uuid.New(),
		patientID:     uuid.New(),
		otherUserID:   uuid.New(),
		otherID:       uuid.New(),
		doctorUserID:  uuid.New(),
		doctorID:      uuid.New(),
	}

	f.patients = &fakePatientRepo{byUserID: map[uuid.UUID]*model.Patient{
		f.patientUserID: {ID: f.patientID, UserID: f.patientUserID},
		f.otherUserID:   {ID: f.otherID, UserID: f.otherUserID},
	}}
	doctors := &fakeDoctorRepo{
		byUserID: map[uuid.UUID]*model.Doctor{
			f.doctorUserID: {ID: f.doctorID, UserID: f.doctorUserID},
		},
		listings: map[uuid.UUID]*model.DoctorListing{
			f.doctorID: {DoctorID: f.doctorID, Name: "Dr. Gregory", Email: "gregory@clinic.test"},
		},
	}
	users := &fakeUserRepo{byID: map[uuid.UUID]*model.User{
		f.patientUserID: {ID: f.patientUserID, Email: "alice@example.test", Name: "Alice", Role: model.RolePatient},
		f.otherUserID:   {ID: f.otherUserID, Email: "bob@example.test", Name: "Bob", Role: model.RolePatient},
	}}

	f.svc = NewService(f.repo, f.patients, doctors, users, f.notifier)
	return f
}

func (f *fixture) book(t *testing.T, date, timeSlot string) *model.Appointment {
	t.Helper()
	appt, err := f.svc.Create(context.Background(), f.patientUserID, &model.CreateAppointmentRequest{
		DoctorID: f.doctorID,
		Date:     date,
		Time:     timeSlot,
	})
	require.NoError(t, err)
	return appt
}

func TestCreateBooksSlot(t *testing.T) {
	f := newFixture()

	appt := f.book(t, "2026-09-01", "10:00")

	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, f.patientID, appt.PatientID)
	assert.Equal(t, f.doctorID, appt.DoctorID)
	require.Len(t, f.notifier.confirmed, 1)
	assert.Equal(t, "alice@example.test", f.notifier.confirmed[0].PatientEmail)
	assert.Equal(t, "Dr. Gregory", f.notifier.confirmed[0].DoctorName)
}

func TestCreateRejectsTakenSlot(t *testing.T) {
	f := newFixture()
	f.book(t, "2026-09-01", "10:00")

	_, err := f.svc.Create(context.Background(), f.otherUserID, &model.CreateAppointmentRequest{
		DoctorID: f.doctorID,
		Date:     "2026-09-01",
		Time:     "10:00",
	})

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.EqualError(t, err, "this time slot is already booked, please choose another time")
}

func TestCreateAllowsDifferentSlot(t *testing.T) {
	f := newFixture()
	f.book(t, "2026-09-01", "10:00")

	_, err := f.svc.Create(context.Background(), f.otherUserID, &model.CreateAppointmentRequest{
		DoctorID: f.doctorID,
		Date:     "2026-09-01",
		Time:     "10:30",
	})
	assert.NoError(t, err)
}

func TestCancelFreesSlotForRebooking(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	require.NoError(t, f.svc.Cancel(context.Background(), f.patientUserID, appt.ID))

	_, err := f.svc.Create(context.Background(), f.otherUserID, &model.CreateAppointmentRequest{
		DoctorID: f.doctorID,
		Date:     "2026-09-01",
		Time:     "10:00",
	})
	assert.NoError(t, err)
}

func TestCancelKeepsRow(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	require.NoError(t, f.svc.Cancel(context.Background(), f.patientUserID, appt.ID))

	stored, err := f.repo.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, stored.Status)
	require.Len(t, f.notifier.cancelled, 1)
}

func TestCancelForeignAppointmentForbidden(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	err := f.svc.Cancel(context.Background(), f.otherUserID, appt.ID)

	assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))
	assert.EqualError(t, err, "you can only cancel your own appointments")
}

func TestCancelMissingAppointmentForbidden(t *testing.T) {
	f := newFixture()

	// Same error as the foreign case so callers cannot tell whether the row exists.
	err := f.svc.Cancel(context.Background(), f.patientUserID, uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))
}

func TestCancelTerminalAppointmentConflicts(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")
	require.NoError(t, f.repo.UpdateStatus(context.Background(), appt.ID, model.AppointmentStatusCompleted))

	err := f.svc.Cancel(context.Background(), f.patientUserID, appt.ID)

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.EqualError(t, err, "appointment is already Completed")
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	err := f.svc.UpdateStatus(context.Background(), appt.ID, "Rescheduled")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestUpdateStatusTerminalLocked(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")
	require.NoError(t, f.svc.UpdateStatus(context.Background(), appt.ID, "Completed"))

	err := f.svc.UpdateStatus(context.Background(), appt.ID, "Scheduled")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	err = f.svc.UpdateStatus(context.Background(), appt.ID, "Cancelled")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")
	require.NoError(t, f.svc.UpdateStatus(context.Background(), appt.ID, "Completed"))

	assert.NoError(t, f.svc.UpdateStatus(context.Background(), appt.ID, "Completed"))
}

func TestUpdateStatusMissingAppointment(t *testing.T) {
	f := newFixture()

	err := f.svc.UpdateStatus(context.Background(), uuid.New(), "Completed")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestGetScopesRowsToCaller(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	owner := &model.Claims{UserID: f.patientUserID, Role: model.RolePatient}
	detail, err := f.svc.Get(context.Background(), owner, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, detail.AppointmentID)

	stranger := &model.Claims{UserID: f.otherUserID, Role: model.RolePatient}
	_, err = f.svc.Get(context.Background(), stranger, appt.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))

	doctor := &model.Claims{UserID: f.doctorUserID, Role: model.RoleDoctor}
	_, err = f.svc.Get(context.Background(), doctor, appt.ID)
	assert.NoError(t, err)

	admin := &model.Claims{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err = f.svc.Get(context.Background(), admin, appt.ID)
	assert.NoError(t, err)
}

func TestGetMissingRowIndistinguishableFromForeign(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	stranger := &model.Claims{UserID: f.otherUserID, Role: model.RolePatient}

	_, foreignErr := f.svc.Get(context.Background(), stranger, appt.ID)
	_, missingErr := f.svc.Get(context.Background(), stranger, uuid.New())

	assert.True(t, apperror.IsKind(foreignErr, apperror.KindAuthorization))
	assert.True(t, apperror.IsKind(missingErr, apperror.KindAuthorization))
	assert.Equal(t, foreignErr.Error(), missingErr.Error())

	doctor := &model.Claims{UserID: f.doctorUserID, Role: model.RoleDoctor}
	_, missingErr = f.svc.Get(context.Background(), doctor, uuid.New())
	assert.True(t, apperror.IsKind(missingErr, apperror.KindAuthorization))
}

func TestGetAdminMissingRowNotFound(t *testing.T) {
	f := newFixture()

	admin := &model.Claims{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err := f.svc.Get(context.Background(), admin, uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestGetPatientLookupFailureSurfaces(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	f.patients.err = errors.New("connection reset")

	owner := &model.Claims{UserID: f.patientUserID, Role: model.RolePatient}
	_, err := f.svc.Get(context.Background(), owner, appt.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindUnexpected))
}

func TestCancelLostRaceConflicts(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	// A concurrent completion lands between the read and the write.
	f.repo.raceTo = model.AppointmentStatusCompleted

	err := f.svc.Cancel(context.Background(), f.patientUserID, appt.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.EqualError(t, err, "appointment is already Completed")
	assert.Equal(t, model.AppointmentStatusCompleted, f.repo.appts[appt.ID].Status)
}

func TestUpdateStatusLostRaceConflicts(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	f.repo.raceTo = model.AppointmentStatusCompleted

	err := f.svc.UpdateStatus(context.Background(), appt.ID, "Cancelled")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.EqualError(t, err, "appointment is already Completed")
}

func TestUpdateStatusLostRaceDuplicateWinnerIsNoop(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	f.repo.raceTo = model.AppointmentStatusCompleted

	assert.NoError(t, f.svc.UpdateStatus(context.Background(), appt.ID, "Completed"))
	assert.Equal(t, model.AppointmentStatusCompleted, f.repo.appts[appt.ID].Status)
}

func TestDeleteRemovesRow(t *testing.T) {
	f := newFixture()
	appt := f.book(t, "2026-09-01", "10:00")

	require.NoError(t, f.svc.Delete(context.Background(), appt.ID))

	_, err := f.repo.Get(context.Background(), appt.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = f.svc.Delete(context.Background(), appt.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestListForDoctorFiltersByDate(t *testing.T) {
	f := newFixture()
	f.book(t, "2026-09-01", "10:00")
	f.book(t, "2026-09-02", "10:00")

	all, err := f.svc.ListForDoctor(context.Background(), f.doctorUserID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	day, err := f.svc.ListForDoctor(context.Background(), f.doctorUserID, "2026-09-01")
	require.NoError(t, err)
	assert.Len(t, day, 1)
}
