package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/validation"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CourseService handles the course catalogue.
type CourseService struct {
	repo      courseRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(repo courseRepository, validate *validation.Validator, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns a page of courses and the unpaged total.
func (s *CourseService) List(ctx context.Context, req dto.ListCoursesRequest) ([]models.Course, int, error) {
	if req.Skip < 0 || req.Limit < 0 {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "skip and limit must not be negative")
	}
	if req.CourseType != "" && !req.CourseType.Valid() {
		return nil, 0, appErrors.Validation("invalid course filter", map[string]string{"courseType": "unknown course type"})
	}
	courses, total, err := s.repo.List(ctx, models.CourseFilter{
		Name:       strings.TrimSpace(req.Name),
		CourseType: req.CourseType,
		Skip:       req.Skip,
		Limit:      req.Limit,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, total, nil
}

// Get returns a course by identifier.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create validates the payload and stores a new course.
func (s *CourseService) Create(ctx context.Context, payload dto.CoursePayload) (*models.Course, error) {
	if err := s.validator.Struct(payload, "invalid course payload"); err != nil {
		return nil, err
	}
	course := courseFromPayload(payload)
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("name", course.Name))
	return course, nil
}

// Update replaces every editable field of course req.ID.
func (s *CourseService) Update(ctx context.Context, req dto.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req, "invalid course payload"); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	course := courseFromPayload(req.CoursePayload)
	course.ID = existing.ID
	course.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes a course together with its subjects.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

func courseFromPayload(p dto.CoursePayload) *models.Course {
	fees := p.Fees
	course := &models.Course{
		Name:       strings.TrimSpace(p.Name),
		Fees:       &fees,
		CourseType: p.CourseType,
	}
	if p.Duration > 0 && p.DurationType != "" {
		duration := p.Duration
		course.Duration = &duration
		course.DurationType = p.DurationType
	}
	return course
}
