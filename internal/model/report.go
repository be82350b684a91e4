package model

// RoleCount is a users-by-role rollup row.
type RoleCount struct {
	Role  Role `json:"role" db:"role"`
	Count int  `json:"count" db:"count"`
}

// StatusCount is an appointments-by-status rollup row.
type StatusCount struct {
	Status AppointmentStatus `json:"status" db:"status"`
	Count  int               `json:"count" db:"count"`
}

// Statistics is the admin dashboard snapshot.
type Statistics struct {
	Users               []RoleCount   `json:"users"`
	Appointments        []StatusCount `json:"appointments"`
	TotalAppointments   int           `json:"total_appointments"`
	TodayAppointments   int           `json:"today_appointments"`
	TotalMedicalRecords int           `json:"total_medical_records"`
}
