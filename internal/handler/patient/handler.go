package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/service/auth"
	"github.com/medicore/clinic-api/internal/service/medicalrecord"
	"github.com/medicore/clinic-api/internal/service/policy"
	"github.com/medicore/clinic-api/pkg/httputil"
)

type Handler struct {
	records *medicalrecord.Service
	auth    *auth.Service
}

func NewHandler(records *medicalrecord.Service, authSvc *auth.Service) *Handler {
	return &Handler{records: records, auth: authSvc}
}

func (h *Handler) MyMedicalRecords(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpViewOwnRecords, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	records, err := h.records.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithList(c, records, len(records))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpUpdateOwnProfile, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdatePatientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	if err := h.auth.UpdatePatientProfile(c.Request.Context(), claims.UserID, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, "profile updated successfully")
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	group := r.Group("/patients", authMW.Authenticate(), authMW.RequireRole(model.RolePatient))
	{
		group.GET("/medical-records", h.MyMedicalRecords)
		group.PATCH("/profile", h.UpdateProfile)
	}
}
