package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/pkg/apperror"
)

func TestAuthorizeRoleTable(t *testing.T) {
	tests := []struct {
		name    string
		role    model.Role
		op      Operation
		allowed bool
	}{
		{"patient books appointment", model.RolePatient, OpCreateAppointment, true},
		{"patient cancels appointment", model.RolePatient, OpCancelAppointment, true},
		{"patient views own records", model.RolePatient, OpViewOwnRecords, true},
		{"patient updates own profile", model.RolePatient, OpUpdateOwnProfile, true},
		{"patient cannot update status", model.RolePatient, OpUpdateAppointmentStatus, false},
		{"patient cannot add records", model.RolePatient, OpAddMedicalRecord, false},
		{"patient cannot view statistics", model.RolePatient, OpViewStatistics, false},

		{"doctor views schedule", model.RoleDoctor, OpViewDoctorSchedule, true},
		{"doctor adds record", model.RoleDoctor, OpAddMedicalRecord, true},
		{"doctor views patient records", model.RoleDoctor, OpViewPatientRecords, true},
		{"doctor updates status", model.RoleDoctor, OpUpdateAppointmentStatus, true},
		{"doctor cannot book", model.RoleDoctor, OpCreateAppointment, false},
		{"doctor cannot cancel", model.RoleDoctor, OpCancelAppointment, false},
		{"doctor cannot delete users", model.RoleDoctor, OpDeleteUser, false},

		{"admin lists users", model.RoleAdmin, OpListUsers, true},
		{"admin views statistics", model.RoleAdmin, OpViewStatistics, true},
		{"admin views reports", model.RoleAdmin, OpViewReports, true},
		{"admin deletes appointments", model.RoleAdmin, OpDeleteAppointment, true},
		{"admin cannot book", model.RoleAdmin, OpCreateAppointment, false},
		{"admin cannot cancel as patient", model.RoleAdmin, OpCancelAppointment, false},
		{"admin cannot add records", model.RoleAdmin, OpAddMedicalRecord, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &model.Claims{UserID: uuid.New(), Role: tt.role}
			err := Authorize(claims, tt.op, nil)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))
			}
		})
	}
}

func TestAuthorizeRejectsMissingClaims(t *testing.T) {
	err := Authorize(nil, OpViewProfile, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))
}

func TestAuthorizeRejectsUnknownRole(t *testing.T) {
	claims := &model.Claims{UserID: uuid.New(), Role: model.Role("SuperUser")}
	err := Authorize(claims, OpViewProfile, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))
}

func TestAuthorizeAdminSelfDeletion(t *testing.T) {
	adminID := uuid.New()
	claims := &model.Claims{UserID: adminID, Role: model.RoleAdmin}

	otherID := uuid.New()
	assert.NoError(t, Authorize(claims, OpDeleteUser, &otherID))

	err := Authorize(claims, OpDeleteUser, &adminID)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.EqualError(t, err, "you cannot delete your own account")
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(model.RolePatient, OpCreateAppointment))
	assert.False(t, Allows(model.RoleDoctor, OpCreateAppointment))
	assert.True(t, Allows(model.RoleAdmin, OpDeleteUser))
}
