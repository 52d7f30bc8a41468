package dto

import "github.com/noah-isme/council-console/internal/models"

// ListCoursesRequest is the list-courses body. A zero Limit asks for the whole catalogue,
// which the API answers with a bare array.
type ListCoursesRequest struct {
	Skip       int               `json:"skip,omitempty"`
	Limit      int               `json:"limit,omitempty"`
	Name       string            `json:"name,omitempty"`
	CourseType models.CourseType `json:"courseType,omitempty"`
}

// Paged reports whether the request asks for a single page.
func (r ListCoursesRequest) Paged() bool { return r.Limit > 0 }

// CoursePayload carries the editable course fields.
type CoursePayload struct {
	Name         string              `json:"name" validate:"required,notblank"`
	Fees         float64             `json:"fees" validate:"gt=0"`
	CourseType   models.CourseType   `json:"courseType" validate:"required,course_type"`
	Duration     float64             `json:"duration,omitempty" validate:"omitempty,gt=0"`
	DurationType models.DurationUnit `json:"durationType,omitempty" validate:"omitempty,duration_unit"`
}

// DefaultCoursePayload mirrors the admin form's initial values.
func DefaultCoursePayload() CoursePayload {
	return CoursePayload{
		CourseType:   models.CourseTypeAcademic,
		Duration:     2,
		DurationType: models.DurationYear,
	}
}

// CoursePayloadFrom pre-populates a payload from an existing course.
func CoursePayloadFrom(c models.Course) CoursePayload {
	p := CoursePayload{Name: c.Name, CourseType: c.CourseType, DurationType: c.DurationType, Duration: 1}
	if c.Fees != nil {
		p.Fees = *c.Fees
	}
	if c.Duration != nil && *c.Duration > 0 {
		p.Duration = *c.Duration
	}
	return p
}

// UpdateCourseRequest is the update-course body: the payload plus the target id.
type UpdateCourseRequest struct {
	ID string `json:"id" validate:"required"`
	CoursePayload
}

// CourseList is the paged list-courses envelope.
type CourseList struct {
	Courses []models.Course `json:"courses"`
	Total   int             `json:"total"`
}

// ListSubjectsRequest is the list-subjects body.
type ListSubjectsRequest struct {
	Skip     int                `json:"skip,omitempty"`
	Limit    int                `json:"limit,omitempty"`
	Name     string             `json:"name,omitempty"`
	Code     string             `json:"code,omitempty"`
	Type     models.SubjectType `json:"type,omitempty"`
	CourseID string             `json:"courseId,omitempty"`
}

// Paged reports whether the request asks for a single page.
func (r ListSubjectsRequest) Paged() bool { return r.Limit > 0 }

// SubjectPayload carries the editable subject fields.
type SubjectPayload struct {
	Name     string             `json:"name" validate:"required,notblank"`
	Code     string             `json:"code" validate:"required,notblank"`
	CourseID string             `json:"courseId" validate:"required"`
	Type     models.SubjectType `json:"type" validate:"required,subject_type"`
}

// SubjectPayloadFrom pre-populates a payload from an existing subject.
func SubjectPayloadFrom(s models.Subject) SubjectPayload {
	return SubjectPayload{Name: s.Name, Code: s.Code, CourseID: s.CourseID, Type: s.Type}
}

// UpdateSubjectRequest is the update-subject body.
type UpdateSubjectRequest struct {
	ID string `json:"id" validate:"required"`
	SubjectPayload
}

// SubjectList is the paged list-subjects envelope.
type SubjectList struct {
	Subjects []models.Subject `json:"subjects"`
	Total    int              `json:"total"`
}

// Ack acknowledges a write without returning the entity.
type Ack struct {
	Message string `json:"message"`
}
