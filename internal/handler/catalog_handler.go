package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/pkg/response"
)

type courseService interface {
	List(ctx context.Context, req dto.ListCoursesRequest) ([]models.Course, int, error)
	Create(ctx context.Context, payload dto.CoursePayload) (*models.Course, error)
	Update(ctx context.Context, req dto.UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id string) error
}

type subjectService interface {
	List(ctx context.Context, req dto.ListSubjectsRequest) ([]models.Subject, int, error)
	Create(ctx context.Context, payload dto.SubjectPayload) (*models.Subject, error)
	Update(ctx context.Context, req dto.UpdateSubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id string) error
}

// CourseHandler serves /course/*.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List answers POST /course/all. Unpaged requests get a bare array, paged ones {courses,total}.
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.ListCoursesRequest
	if err := bindJSON(c, &req, true); err != nil {
		response.Error(c, err)
		return
	}
	courses, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, "courses", courses, total, req.Paged())
}

// Create answers POST /course/create.
func (h *CourseHandler) Create(c *gin.Context) {
	var payload dto.CoursePayload
	if err := bindJSON(c, &payload, false); err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update answers PUT /course/update.
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := bindJSON(c, &req, false); err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete answers DELETE /course/delete/:id.
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.Ack{Message: "course deleted"}, nil)
}

// SubjectHandler serves /subject/*.
type SubjectHandler struct {
	service subjectService
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// List answers POST /subject/all.
func (h *SubjectHandler) List(c *gin.Context) {
	var req dto.ListSubjectsRequest
	if err := bindJSON(c, &req, true); err != nil {
		response.Error(c, err)
		return
	}
	subjects, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, "subjects", subjects, total, req.Paged())
}

// Create answers POST /subject/create.
func (h *SubjectHandler) Create(c *gin.Context) {
	var payload dto.SubjectPayload
	if err := bindJSON(c, &payload, false); err != nil {
		response.Error(c, err)
		return
	}
	subject, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Update answers PUT /subject/update.
func (h *SubjectHandler) Update(c *gin.Context) {
	var req dto.UpdateSubjectRequest
	if err := bindJSON(c, &req, false); err != nil {
		response.Error(c, err)
		return
	}
	subject, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Delete answers DELETE /subject/delete/:id.
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.Ack{Message: "subject deleted"}, nil)
}
