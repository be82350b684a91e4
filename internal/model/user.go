package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record shared by all roles. Role-specific data
// lives in the Patient and Doctor extension rows.
type User struct {
	ID           uuid.UUID `json:"user_id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Name         string    `json:"name" db:"name"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Patient extends a User with role=Patient, 1:1 on user_id.
type Patient struct {
	ID             uuid.UUID `json:"patient_id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	DateOfBirth    *string   `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Address        *string   `json:"address,omitempty" db:"address"`
	MedicalHistory *string   `json:"medical_history,omitempty" db:"medical_history"`
}

// Doctor extends a User with role=Doctor, 1:1 on user_id.
type Doctor struct {
	ID             uuid.UUID `json:"doctor_id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	Specialization *string   `json:"specialization,omitempty" db:"specialization"`
	WorkingHours   *string   `json:"working_hours,omitempty" db:"working_hours"`
}

// DoctorListing is the public doctor directory row.
type DoctorListing struct {
	DoctorID       uuid.UUID `json:"doctor_id" db:"doctor_id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	Specialization *string   `json:"specialization,omitempty" db:"specialization"`
	WorkingHours   *string   `json:"working_hours,omitempty" db:"working_hours"`
}

// Profile is a User joined with its role extension.
type Profile struct {
	User
	PatientInfo *Patient `json:"patient_info,omitempty"`
	DoctorInfo  *Doctor  `json:"doctor_info,omitempty"`
}

// RegisterRequest carries registration input for any role.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=Patient Doctor Admin"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`

	// Patient profile fields
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Address     string `json:"address"`

	// Doctor profile fields
	Specialization string `json:"specialization"`
	WorkingHours   string `json:"working_hours"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Role   Role      `json:"role"`
	Token  string    `json:"token"`
}

// UpdatePatientProfileRequest carries the fields a patient may change
// about themselves. All fields optional, applied as a partial update.
type UpdatePatientProfileRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	DateOfBirth    *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Address        *string `json:"address"`
	MedicalHistory *string `json:"medical_history"`
}
