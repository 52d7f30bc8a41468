package console

import (
	"context"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/session"
)

// CourseAPI is the remote course resource.
type CourseAPI interface {
	ListCourses(ctx context.Context, sess *session.Session, req dto.ListCoursesRequest) ([]models.Course, int, error)
	CreateCourse(ctx context.Context, sess *session.Session, payload dto.CoursePayload) (*models.Course, error)
	UpdateCourse(ctx context.Context, sess *session.Session, req dto.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, sess *session.Session, id string) error
}

// SubjectAPI is the remote subject resource.
type SubjectAPI interface {
	ListSubjects(ctx context.Context, sess *session.Session, req dto.ListSubjectsRequest) ([]models.Subject, int, error)
	CreateSubject(ctx context.Context, sess *session.Session, payload dto.SubjectPayload) (*models.Subject, error)
	UpdateSubject(ctx context.Context, sess *session.Session, req dto.UpdateSubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, sess *session.Session, id string) error
}

// EnquiryAPI accepts public enquiries.
type EnquiryAPI interface {
	CreateEnquiry(ctx context.Context, payload dto.EnquiryPayload) error
}

// Filter fields sent to the list endpoints.
const (
	FilterName       = "name"
	FilterCourseType = "courseType"
	FilterCode       = "code"
	FilterType       = "type"
	FilterCourseID   = "courseId"
)

type courseRemote struct {
	api     CourseAPI
	session *session.Session
}

func (r courseRemote) List(ctx context.Context, params Params) (Page[models.Course], error) {
	courses, total, err := r.api.ListCourses(ctx, r.session, dto.ListCoursesRequest{
		Skip:       params.Skip,
		Limit:      params.Limit,
		Name:       params.Filter(FilterName),
		CourseType: models.CourseType(params.Filter(FilterCourseType)),
	})
	return Page[models.Course]{Items: courses, Total: total}, err
}

func (r courseRemote) Create(ctx context.Context, values dto.CoursePayload) (models.Course, error) {
	course, err := r.api.CreateCourse(ctx, r.session, values)
	return deref(course), err
}

func (r courseRemote) Update(ctx context.Context, id string, values dto.CoursePayload) (models.Course, error) {
	course, err := r.api.UpdateCourse(ctx, r.session, dto.UpdateCourseRequest{ID: id, CoursePayload: values})
	return deref(course), err
}

func (r courseRemote) Delete(ctx context.Context, id string) error {
	return r.api.DeleteCourse(ctx, r.session, id)
}

type subjectRemote struct {
	api     SubjectAPI
	session *session.Session
}

func (r subjectRemote) List(ctx context.Context, params Params) (Page[models.Subject], error) {
	subjects, total, err := r.api.ListSubjects(ctx, r.session, dto.ListSubjectsRequest{
		Skip:     params.Skip,
		Limit:    params.Limit,
		Name:     params.Filter(FilterName),
		Code:     params.Filter(FilterCode),
		Type:     models.SubjectType(params.Filter(FilterType)),
		CourseID: params.Filter(FilterCourseID),
	})
	return Page[models.Subject]{Items: subjects, Total: total}, err
}

func (r subjectRemote) Create(ctx context.Context, values dto.SubjectPayload) (models.Subject, error) {
	subject, err := r.api.CreateSubject(ctx, r.session, values)
	return deref(subject), err
}

func (r subjectRemote) Update(ctx context.Context, id string, values dto.SubjectPayload) (models.Subject, error) {
	subject, err := r.api.UpdateSubject(ctx, r.session, dto.UpdateSubjectRequest{ID: id, SubjectPayload: values})
	return deref(subject), err
}

func (r subjectRemote) Delete(ctx context.Context, id string) error {
	return r.api.DeleteSubject(ctx, r.session, id)
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}
