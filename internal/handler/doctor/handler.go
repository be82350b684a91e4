package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/service/appointment"
	"github.com/medicore/clinic-api/internal/service/doctor"
	"github.com/medicore/clinic-api/internal/service/medicalrecord"
	"github.com/medicore/clinic-api/internal/service/policy"
	"github.com/medicore/clinic-api/pkg/apperror"
	"github.com/medicore/clinic-api/pkg/httputil"
)

type Handler struct {
	doctors      *doctor.Service
	appointments *appointment.Service
	records      *medicalrecord.Service
}

func NewHandler(doctors *doctor.Service, appointments *appointment.Service, records *medicalrecord.Service) *Handler {
	return &Handler{doctors: doctors, appointments: appointments, records: records}
}

// List is the public doctor directory used by the booking form.
func (h *Handler) List(c *gin.Context) {
	doctors, err := h.doctors.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithList(c, doctors, len(doctors))
}

func (h *Handler) Schedule(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpViewDoctorSchedule, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appts, err := h.appointments.ListForDoctor(c.Request.Context(), claims.UserID, c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithList(c, appts, len(appts))
}

func (h *Handler) AddMedicalRecord(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpAddMedicalRecord, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.AddMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	record, err := h.records.AddRecord(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, "medical record added successfully", record)
}

func (h *Handler) PatientRecords(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpViewPatientRecords, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperror.Validation("invalid patient id"))
		return
	}

	records, err := h.records.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithList(c, records, len(records))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	group := r.Group("/doctors")
	{
		group.GET("", h.List)

		protected := group.Group("", authMW.Authenticate(), authMW.RequireRole(model.RoleDoctor))
		{
			protected.GET("/schedule", h.Schedule)
			protected.POST("/medical-records", h.AddMedicalRecord)
			protected.GET("/patients/:id/records", h.PatientRecords)
		}
	}
}
