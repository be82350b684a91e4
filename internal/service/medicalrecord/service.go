package medicalrecord

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

// Service is the append-only medical record ledger. Records are created
// exactly once per appointment and never updated or deleted.
type Service struct {
	recordRepo  repository.MedicalRecordRepository
	apptRepo    repository.AppointmentRepository
	doctorRepo  repository.DoctorRepository
	patientRepo repository.PatientRepository
}

func NewService(
	recordRepo repository.MedicalRecordRepository,
	apptRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
) *Service {
	return &Service{
		recordRepo:  recordRepo,
		apptRepo:    apptRepo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
	}
}

// AddRecord creates the record for an appointment owned by the calling
// doctor and completes that appointment in the same transaction.
func (s *Service) AddRecord(ctx context.Context, doctorUserID uuid.UUID, req *model.AddMedicalRecordRequest) (*model.MedicalRecord, error) {
	doctor, err := s.doctorRepo.GetByUserID(ctx, doctorUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("doctor record")
		}
		return nil, apperror.Internal("failed to resolve doctor", err)
	}

	appt, err := s.apptRepo.Get(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("appointment")
		}
		return nil, apperror.Internal("failed to fetch appointment", err)
	}

	if appt.DoctorID != doctor.ID {
		return nil, apperror.Authorization("you can only add records for your own appointments")
	}

	record := &model.MedicalRecord{
		PatientID:     appt.PatientID,
		DoctorID:      doctor.ID,
		AppointmentID: appt.ID,
		Diagnosis:     req.Diagnosis,
	}
	if req.Prescription != "" {
		record.Prescription = &req.Prescription
	}

	if err := s.recordRepo.CreateAndCompleteAppointment(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("medical record already exists for this appointment")
		}
		return nil, apperror.Internal("failed to add medical record", err)
	}

	return record, nil
}

// ListForPatient returns a patient's full history. Any doctor may call
// this; there is no per-doctor ownership filter on reads.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecordView, error) {
	views, err := s.recordRepo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, apperror.Internal("failed to list medical records", err)
	}
	return views, nil
}

// ListMine returns the calling patient's own records.
func (s *Service) ListMine(ctx context.Context, patientUserID uuid.UUID) ([]*model.MedicalRecordView, error) {
	patient, err := s.patientRepo.GetByUserID(ctx, patientUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient record")
		}
		return nil, apperror.Internal("failed to resolve patient", err)
	}

	return s.ListForPatient(ctx, patient.ID)
}
