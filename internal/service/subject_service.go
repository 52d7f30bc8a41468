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

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ExistsByCode(ctx context.Context, courseID, code, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// SubjectService handles subjects and their course membership.
type SubjectService struct {
	repo      subjectRepository
	courses   courseFinder
	validator *validation.Validator
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, courses courseFinder, validate *validation.Validator, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// List returns a page of subjects and the unpaged total.
func (s *SubjectService) List(ctx context.Context, req dto.ListSubjectsRequest) ([]models.Subject, int, error) {
	if req.Skip < 0 || req.Limit < 0 {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "skip and limit must not be negative")
	}
	if req.Type != "" && !req.Type.Valid() {
		return nil, 0, appErrors.Validation("invalid subject filter", map[string]string{"type": "unknown subject type"})
	}
	subjects, total, err := s.repo.List(ctx, models.SubjectFilter{
		Name:     strings.TrimSpace(req.Name),
		Code:     strings.TrimSpace(req.Code),
		Type:     req.Type,
		CourseID: req.CourseID,
		Skip:     req.Skip,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, total, nil
}

// Create stores a subject under an existing course. Codes are upper-cased and
// must be unique within the course.
func (s *SubjectService) Create(ctx context.Context, payload dto.SubjectPayload) (*models.Subject, error) {
	if err := s.validator.Struct(payload, "invalid subject payload"); err != nil {
		return nil, err
	}
	subject := subjectFromPayload(payload)
	if err := s.checkMembership(ctx, subject, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	s.logger.Info("subject created", zap.String("subject_id", subject.ID), zap.String("course_id", subject.CourseID))
	return subject, nil
}

// Update replaces the fields of subject req.ID.
func (s *SubjectService) Update(ctx context.Context, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req, "invalid subject payload"); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	subject := subjectFromPayload(req.SubjectPayload)
	subject.ID = existing.ID
	subject.CreatedAt = existing.CreatedAt
	if err := s.checkMembership(ctx, subject, existing.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return subject, nil
}

// Delete removes a subject.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	return nil
}

func (s *SubjectService) checkMembership(ctx context.Context, subject *models.Subject, excludeID string) error {
	if _, err := s.courses.FindByID(ctx, subject.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Validation("invalid subject payload", map[string]string{"courseId": "courseId must reference an existing course"})
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	exists, err := s.repo.ExistsByCode(ctx, subject.CourseID, subject.Code, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "subject code already exists in this course")
	}
	return nil
}

func subjectFromPayload(p dto.SubjectPayload) *models.Subject {
	return &models.Subject{
		Name:     strings.TrimSpace(p.Name),
		Code:     strings.ToUpper(strings.TrimSpace(p.Code)),
		Type:     p.Type,
		CourseID: p.CourseID,
	}
}
