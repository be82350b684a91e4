package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medicore/clinic-api/internal/handler/admin"
	"github.com/medicore/clinic-api/internal/handler/appointment"
	"github.com/medicore/clinic-api/internal/handler/auth"
	"github.com/medicore/clinic-api/internal/handler/doctor"
	"github.com/medicore/clinic-api/internal/handler/health"
	"github.com/medicore/clinic-api/internal/handler/patient"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/pkg/metrics"
)

type Handlers struct {
	Auth        *auth.Handler
	Appointment *appointment.Handler
	Doctor      *doctor.Handler
	Patient     *patient.Handler
	Admin       *admin.Handler
	Health      *health.Handler
}

type Config struct {
	RateLimitEnabled bool
	RateLimit        middleware.RateLimiterConfig
	CORS             middleware.CORSConfig
	Metrics          *metrics.Metrics
}

// New assembles the gin engine: global middleware, operational endpoints
// and the versioned API groups.
func New(h Handlers, authMW *middleware.AuthMiddleware, cfg Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(middleware.CORS(cfg.CORS))
	if cfg.Metrics != nil {
		engine.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimitEnabled {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimit).RateLimit())
	}

	h.Health.RegisterRoutes(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/api/v1")
	{
		h.Auth.RegisterRoutes(v1, authMW)
		h.Appointment.RegisterRoutes(v1, authMW)
		h.Doctor.RegisterRoutes(v1, authMW)
		h.Patient.RegisterRoutes(v1, authMW)
		h.Admin.RegisterRoutes(v1, authMW)
	}

	return engine
}
