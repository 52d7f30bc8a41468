package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/council-console/internal/middleware"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/service"
	"github.com/noah-isme/council-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/council-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/council-console/pkg/middleware/requestid"
)

// RouterConfig wires the dev API's handlers.
type RouterConfig struct {
	Prefix         string
	AllowedOrigins []string
	Logger         *zap.Logger

	Courses   courseService
	Subjects  subjectService
	Enquiries enquiryService
	Auth      interface {
		authService
		middleware.TokenValidator
	}
	// Metrics is optional; nil disables /metrics and request instrumentation.
	Metrics *service.MetricsService
	// EnquiryLimiter is optional; nil leaves the public form unthrottled.
	EnquiryLimiter *middleware.RateLimiter
	// Store names the storage backend reported by /health.
	Store        string
	HealthProbes map[string]Probe
}

// NewRouter builds the gin engine serving the council API contract.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))

	var recorder Recorder
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics, "/metrics", "/health"))
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
		recorder = cfg.Metrics
	}
	r.GET("/health", NewHealthHandler(cfg.Store, cfg.HealthProbes).Health)

	api := r.Group(cfg.Prefix)

	auth := NewAuthHandler(cfg.Auth, recorder)
	api.POST("/student/login", auth.StudentLogin)
	api.POST("/admin/login", auth.AdminLogin)

	enquiry := NewEnquiryHandler(cfg.Enquiries, recorder)
	if cfg.EnquiryLimiter != nil {
		api.POST("/enquiry/create", cfg.EnquiryLimiter.Handler(), enquiry.Create)
	} else {
		api.POST("/enquiry/create", enquiry.Create)
	}

	admin := api.Group("", middleware.JWT(cfg.Auth), middleware.RequireRole(models.RoleAdmin))

	courses := NewCourseHandler(cfg.Courses)
	admin.POST("/course/all", courses.List)
	admin.POST("/course/create", courses.Create)
	admin.PUT("/course/update", courses.Update)
	admin.DELETE("/course/delete/:id", courses.Delete)

	subjects := NewSubjectHandler(cfg.Subjects)
	admin.POST("/subject/all", subjects.List)
	admin.POST("/subject/create", subjects.Create)
	admin.PUT("/subject/update", subjects.Update)
	admin.DELETE("/subject/delete/:id", subjects.Delete)

	return r
}
