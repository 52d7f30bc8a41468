package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/validation"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
	"github.com/noah-isme/council-console/pkg/jobs"
)

// JobEnquiryReceived is queued after every stored enquiry.
const JobEnquiryReceived = "enquiry.received"

type enquiryRepository interface {
	Create(ctx context.Context, enquiry *models.Enquiry) error
}

type enqueuer interface {
	Enqueue(jobType string, payload interface{}) (string, error)
}

// EnquiryService stores public enquiries and hands them to the notification queue.
type EnquiryService struct {
	repo      enquiryRepository
	queue     enqueuer
	validator *validation.Validator
	logger    *zap.Logger
}

// NewEnquiryService creates a new enquiry service. queue may be nil.
func NewEnquiryService(repo enquiryRepository, queue enqueuer, validate *validation.Validator, logger *zap.Logger) *EnquiryService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnquiryService{repo: repo, queue: queue, validator: validate, logger: logger}
}

// Submit validates and stores an enquiry. A full notification queue does not fail the submission.
func (s *EnquiryService) Submit(ctx context.Context, payload dto.EnquiryPayload) (*models.Enquiry, error) {
	if err := s.validator.Struct(payload, "invalid enquiry"); err != nil {
		return nil, err
	}
	enquiry := &models.Enquiry{
		Name:        strings.TrimSpace(payload.Name),
		Email:       strings.TrimSpace(payload.Email),
		PhoneNumber: strings.TrimSpace(payload.PhoneNumber),
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
	}
	if err := s.repo.Create(ctx, enquiry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store enquiry")
	}

	if s.queue != nil {
		if _, err := s.queue.Enqueue(JobEnquiryReceived, *enquiry); err != nil {
			s.logger.Warn("failed to queue enquiry notification", zap.String("enquiry_id", enquiry.ID), zap.Error(err))
		}
	}
	return enquiry, nil
}

// EnquiryNotifier returns the queue handler for JobEnquiryReceived. The dev API
// has no mail transport, so the notification is a structured log line.
func EnquiryNotifier(logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(_ context.Context, job jobs.Job) error {
		enquiry, ok := job.Payload.(models.Enquiry)
		if !ok {
			return fmt.Errorf("unexpected payload %T", job.Payload)
		}
		logger.Info("enquiry received",
			zap.String("job_id", job.ID),
			zap.String("enquiry_id", enquiry.ID),
			zap.String("email", enquiry.Email),
			zap.String("title", enquiry.Title),
		)
		return nil
	}
}
