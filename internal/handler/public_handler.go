package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/pkg/response"
)

type enquiryService interface {
	Submit(ctx context.Context, payload dto.EnquiryPayload) (*models.Enquiry, error)
}

type authService interface {
	LoginStudent(ctx context.Context, req dto.StudentLoginRequest) (*dto.StudentLoginResponse, error)
	LoginAdmin(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
}

// Recorder receives domain counters. *service.MetricsService satisfies it.
type Recorder interface {
	RecordLogin(role string, ok bool)
	RecordEnquiry()
}

type nopRecorder struct{}

func (nopRecorder) RecordLogin(string, bool) {}
func (nopRecorder) RecordEnquiry()           {}

// EnquiryHandler serves the public contact form.
type EnquiryHandler struct {
	service enquiryService
	metrics Recorder
}

// NewEnquiryHandler constructs an enquiry handler. metrics may be nil.
func NewEnquiryHandler(svc enquiryService, metrics Recorder) *EnquiryHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &EnquiryHandler{service: svc, metrics: metrics}
}

// Create answers POST /enquiry/create.
func (h *EnquiryHandler) Create(c *gin.Context) {
	var payload dto.EnquiryPayload
	if err := bindJSON(c, &payload, false); err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.service.Submit(c.Request.Context(), payload); err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordEnquiry()
	response.Created(c, dto.Ack{Message: "enquiry received"})
}

// AuthHandler serves student and admin login.
type AuthHandler struct {
	service authService
	metrics Recorder
}

// NewAuthHandler constructs an auth handler. metrics may be nil.
func NewAuthHandler(svc authService, metrics Recorder) *AuthHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &AuthHandler{service: svc, metrics: metrics}
}

// StudentLogin answers POST /student/login.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req dto.StudentLoginRequest
	if err := bindJSON(c, &req, false); err != nil {
		response.Error(c, err)
		return
	}
	resp, err := h.service.LoginStudent(c.Request.Context(), req)
	h.metrics.RecordLogin(string(models.RoleStudent), err == nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// AdminLogin answers POST /admin/login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := bindJSON(c, &req, false); err != nil {
		response.Error(c, err)
		return
	}
	resp, err := h.service.LoginAdmin(c.Request.Context(), req)
	h.metrics.RecordLogin(string(models.RoleAdmin), err == nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
