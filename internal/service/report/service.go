package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

const (
	statisticsCacheKey = "admin:statistics"
	statisticsCacheTTL = 30 * time.Second
)

// Service produces the admin read-only rollups. Statistics are cached
// briefly; the dashboard polls.
type Service struct {
	reportRepo repository.ReportRepository
	apptRepo   repository.AppointmentRepository
	userRepo   repository.UserRepository
	cache      *gocache.Cache
}

func NewService(reportRepo repository.ReportRepository, apptRepo repository.AppointmentRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		reportRepo: reportRepo,
		apptRepo:   apptRepo,
		userRepo:   userRepo,
		cache:      gocache.New(statisticsCacheTTL, 2*statisticsCacheTTL),
	}
}

// Statistics snapshots the system counts for the admin dashboard.
func (s *Service) Statistics(ctx context.Context) (*model.Statistics, error) {
	if cached, ok := s.cache.Get(statisticsCacheKey); ok {
		return cached.(*model.Statistics), nil
	}

	users, err := s.reportRepo.UserCountsByRole(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to gather statistics", err)
	}

	appts, err := s.reportRepo.AppointmentCountsByStatus(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to gather statistics", err)
	}

	total, err := s.reportRepo.TotalAppointments(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to gather statistics", err)
	}

	today, err := s.reportRepo.TodayAppointments(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to gather statistics", err)
	}

	records, err := s.reportRepo.TotalMedicalRecords(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to gather statistics", err)
	}

	stats := &model.Statistics{
		Users:               users,
		Appointments:        appts,
		TotalAppointments:   total,
		TodayAppointments:   today,
		TotalMedicalRecords: records,
	}

	s.cache.SetDefault(statisticsCacheKey, stats)
	return stats, nil
}

// AppointmentReport composes the conjunctive filter. Every filter is
// optional; none given returns the full report.
func (s *Service) AppointmentReport(ctx context.Context, startDate, endDate, rawStatus, rawDoctorID string) ([]*model.AdminAppointmentView, error) {
	filters := &model.ReportFilters{
		StartDate: startDate,
		EndDate:   endDate,
	}

	if rawStatus != "" {
		status, err := model.ParseAppointmentStatus(rawStatus)
		if err != nil {
			return nil, apperror.Validation("status must be one of Scheduled, Completed, Cancelled")
		}
		filters.Status = status
	}

	if rawDoctorID != "" {
		doctorID, err := uuid.Parse(rawDoctorID)
		if err != nil {
			return nil, apperror.Validation("invalid doctor ID")
		}
		filters.DoctorID = &doctorID
	}

	views, err := s.apptRepo.Report(ctx, filters)
	if err != nil {
		return nil, apperror.Internal("failed to build report", err)
	}
	return views, nil
}

// ListUsers returns all users, optionally narrowed to one role.
func (s *Service) ListUsers(ctx context.Context, rawRole string) ([]*model.User, error) {
	var role model.Role
	if rawRole != "" {
		parsed, err := model.ParseRole(rawRole)
		if err != nil {
			return nil, apperror.Validation("role must be one of Patient, Doctor, Admin")
		}
		role = parsed
	}

	users, err := s.userRepo.List(ctx, role)
	if err != nil {
		return nil, apperror.Internal("failed to list users", err)
	}
	return users, nil
}

// DeleteUser hard-deletes a user row. Self-deletion is rejected by the
// policy layer before this is reached; the check here is a second gate
// on the same invariant.
func (s *Service) DeleteUser(ctx context.Context, callerID, userID uuid.UUID) error {
	if callerID == userID {
		return apperror.Validation("you cannot delete your own account")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user")
		}
		return apperror.Internal("failed to delete user", err)
	}
	return nil
}
