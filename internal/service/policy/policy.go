package policy

import (
	"github.com/google/uuid"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/pkg/apperror"
)

// Operation names a gated action. The policy table below is the single
// place mapping roles to operations; row-level scoping is enforced by
// the services parameterizing queries with the caller's own
// patient_id/doctor_id.
type Operation string

const (
	OpViewProfile             Operation = "profile:view"
	OpCreateAppointment       Operation = "appointment:create"
	OpListAppointments        Operation = "appointment:list"
	OpViewAppointment         Operation = "appointment:view"
	OpCancelAppointment       Operation = "appointment:cancel"
	OpUpdateAppointmentStatus Operation = "appointment:update_status"
	OpDeleteAppointment       Operation = "appointment:delete"
	OpViewDoctorSchedule      Operation = "doctor:schedule"
	OpAddMedicalRecord        Operation = "record:add"
	OpViewPatientRecords      Operation = "record:view_patient"
	OpViewOwnRecords          Operation = "record:view_own"
	OpUpdateOwnProfile        Operation = "profile:update_own"
	OpListUsers               Operation = "admin:list_users"
	OpDeleteUser              Operation = "admin:delete_user"
	OpViewStatistics          Operation = "admin:statistics"
	OpViewReports             Operation = "admin:reports"
)

var (
	patientOps = opSet(
		OpViewProfile,
		OpCreateAppointment,
		OpListAppointments,
		OpViewAppointment,
		OpCancelAppointment,
		OpViewOwnRecords,
		OpUpdateOwnProfile,
	)

	doctorOps = opSet(
		OpViewProfile,
		OpListAppointments,
		OpViewAppointment,
		OpUpdateAppointmentStatus,
		OpViewDoctorSchedule,
		OpAddMedicalRecord,
		OpViewPatientRecords,
	)

	adminOps = opSet(
		OpViewProfile,
		OpListAppointments,
		OpViewAppointment,
		OpUpdateAppointmentStatus,
		OpDeleteAppointment,
		OpListUsers,
		OpDeleteUser,
		OpViewStatistics,
		OpViewReports,
	)
)

func opSet(ops ...Operation) map[Operation]bool {
	set := make(map[Operation]bool, len(ops))
	for _, op := range ops {
		set[op] = true
	}
	return set
}

// Authorize gates op against the caller's role. resourceOwnerID, when
// non-nil, names the user who owns the target resource; it is only
// consulted for the rules that depend on it (admin self-deletion).
// Pure function: no storage access.
func Authorize(claims *model.Claims, op Operation, resourceOwnerID *uuid.UUID) error {
	if claims == nil || !claims.Role.Valid() {
		return apperror.Authorization("access denied: insufficient permissions")
	}

	var allowed map[Operation]bool
	switch claims.Role {
	case model.RolePatient:
		allowed = patientOps
	case model.RoleDoctor:
		allowed = doctorOps
	case model.RoleAdmin:
		allowed = adminOps
	}

	if !allowed[op] {
		return apperror.Authorization("access denied: insufficient permissions")
	}

	// Admins may delete any user row except their own.
	if op == OpDeleteUser && resourceOwnerID != nil && *resourceOwnerID == claims.UserID {
		return apperror.Validation("you cannot delete your own account")
	}

	return nil
}

// Allows reports whether role may perform op at all, ignoring ownership.
func Allows(role model.Role, op Operation) bool {
	claims := &model.Claims{Role: role}
	return Authorize(claims, op, nil) == nil
}
