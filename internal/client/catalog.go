package client

import (
	"context"
	"net/http"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/session"
)

// ListCourses fetches courses. A zero Limit returns the full catalogue.
func (c *Client) ListCourses(ctx context.Context, sess *session.Session, req dto.ListCoursesRequest) ([]models.Course, int, error) {
	raw, err := c.send(ctx, call{op: "list_courses", method: http.MethodPost, path: c.endpoints.ListCourses, session: sess, auth: true, body: req})
	if err != nil {
		return nil, 0, err
	}
	courses, total, _, err := decodeList[models.Course](raw, "courses")
	if err != nil {
		return nil, 0, undecodable("list-courses", err)
	}
	return courses, total, nil
}

// CreateCourse posts a new course.
func (c *Client) CreateCourse(ctx context.Context, sess *session.Session, payload dto.CoursePayload) (*models.Course, error) {
	raw, err := c.send(ctx, call{op: "create_course", method: http.MethodPost, path: c.endpoints.CreateCourse, session: sess, auth: true, body: payload})
	if err != nil {
		return nil, err
	}
	var course models.Course
	if err := decodeEntity(raw, "course", &course); err != nil {
		return nil, undecodable("create-course", err)
	}
	return &course, nil
}

// UpdateCourse replaces the fields of course req.ID.
func (c *Client) UpdateCourse(ctx context.Context, sess *session.Session, req dto.UpdateCourseRequest) (*models.Course, error) {
	raw, err := c.send(ctx, call{op: "update_course", method: http.MethodPut, path: c.endpoints.UpdateCourse, session: sess, auth: true, body: req})
	if err != nil {
		return nil, err
	}
	var course models.Course
	if err := decodeEntity(raw, "course", &course); err != nil {
		return nil, undecodable("update-course", err)
	}
	return &course, nil
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, sess *session.Session, id string) error {
	_, err := c.send(ctx, call{op: "delete_course", method: http.MethodDelete, path: withID(c.endpoints.DeleteCourse, id), session: sess, auth: true})
	return err
}

// ListSubjects fetches subjects. A zero Limit returns every subject.
func (c *Client) ListSubjects(ctx context.Context, sess *session.Session, req dto.ListSubjectsRequest) ([]models.Subject, int, error) {
	raw, err := c.send(ctx, call{op: "list_subjects", method: http.MethodPost, path: c.endpoints.ListSubjects, session: sess, auth: true, body: req})
	if err != nil {
		return nil, 0, err
	}
	subjects, total, _, err := decodeList[models.Subject](raw, "subjects")
	if err != nil {
		return nil, 0, undecodable("list-subjects", err)
	}
	return subjects, total, nil
}

// CreateSubject posts a new subject.
func (c *Client) CreateSubject(ctx context.Context, sess *session.Session, payload dto.SubjectPayload) (*models.Subject, error) {
	raw, err := c.send(ctx, call{op: "create_subject", method: http.MethodPost, path: c.endpoints.CreateSubject, session: sess, auth: true, body: payload})
	if err != nil {
		return nil, err
	}
	var subject models.Subject
	if err := decodeEntity(raw, "subject", &subject); err != nil {
		return nil, undecodable("create-subject", err)
	}
	return &subject, nil
}

// UpdateSubject replaces the fields of subject req.ID.
func (c *Client) UpdateSubject(ctx context.Context, sess *session.Session, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	raw, err := c.send(ctx, call{op: "update_subject", method: http.MethodPut, path: c.endpoints.UpdateSubject, session: sess, auth: true, body: req})
	if err != nil {
		return nil, err
	}
	var subject models.Subject
	if err := decodeEntity(raw, "subject", &subject); err != nil {
		return nil, undecodable("update-subject", err)
	}
	return &subject, nil
}

// DeleteSubject removes a subject.
func (c *Client) DeleteSubject(ctx context.Context, sess *session.Session, id string) error {
	_, err := c.send(ctx, call{op: "delete_subject", method: http.MethodDelete, path: withID(c.endpoints.DeleteSubject, id), session: sess, auth: true})
	return err
}

// CreateEnquiry submits the public contact form. No session is needed.
func (c *Client) CreateEnquiry(ctx context.Context, payload dto.EnquiryPayload) error {
	_, err := c.send(ctx, call{op: "create_enquiry", method: http.MethodPost, path: c.endpoints.CreateEnquiry, body: payload})
	return err
}

// ProbeList posts an empty or paged body to a list path and returns the raw response.
// It is used to inspect envelope shapes.
func (c *Client) ProbeList(ctx context.Context, sess *session.Session, path string, body interface{}) ([]byte, error) {
	return c.send(ctx, call{op: "probe", method: http.MethodPost, path: path, session: sess, auth: true, body: body})
}
