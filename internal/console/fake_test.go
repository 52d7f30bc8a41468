package console

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/session"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

// fakeAPI is an in-memory council API that records calls.
type fakeAPI struct {
	mu       sync.Mutex
	courses  []models.Course
	subjects []models.Subject
	nextID   int

	courseLists  []dto.ListCoursesRequest
	subjectLists []dto.ListSubjectsRequest
	updates      []string
	deletes      []string
	enquiries    []dto.EnquiryPayload
	calls        int

	failList   error
	failWrite  error
	failDelete error
}

func fptr(v float64) *float64 { return &v }

func seedCourses(n int) []models.Course {
	courses := make([]models.Course, 0, n)
	for i := 1; i <= n; i++ {
		courses = append(courses, models.Course{
			ID:         fmt.Sprintf("c%02d", i),
			Name:       fmt.Sprintf("Course %02d", i),
			Fees:       fptr(float64(1000 * i)),
			CourseType: models.CourseTypeAcademic,
		})
	}
	return courses
}

func (f *fakeAPI) ListCourses(_ context.Context, sess *session.Session, req dto.ListCoursesRequest) ([]models.Course, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.courseLists = append(f.courseLists, req)
	if err := sess.Valid(); err != nil {
		return nil, 0, appErrors.ErrUnauthorized
	}
	if f.failList != nil {
		return nil, 0, f.failList
	}
	var matched []models.Course
	for _, c := range f.courses {
		if req.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(req.Name)) {
			continue
		}
		if req.CourseType != "" && c.CourseType != req.CourseType {
			continue
		}
		matched = append(matched, c)
	}
	return window(matched, req.Skip, req.Limit), len(matched), nil
}

func (f *fakeAPI) CreateCourse(_ context.Context, _ *session.Session, p dto.CoursePayload) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failWrite != nil {
		return nil, f.failWrite
	}
	f.nextID++
	c := models.Course{ID: fmt.Sprintf("new%d", f.nextID), Name: p.Name, Fees: fptr(p.Fees), CourseType: p.CourseType, Duration: fptr(p.Duration), DurationType: p.DurationType}
	f.courses = append(f.courses, c)
	return &c, nil
}

func (f *fakeAPI) UpdateCourse(_ context.Context, _ *session.Session, req dto.UpdateCourseRequest) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.updates = append(f.updates, req.ID)
	if f.failWrite != nil {
		return nil, f.failWrite
	}
	for i := range f.courses {
		if f.courses[i].ID == req.ID {
			f.courses[i].Name = req.Name
			f.courses[i].Fees = fptr(req.Fees)
			f.courses[i].CourseType = req.CourseType
			c := f.courses[i]
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

func (f *fakeAPI) DeleteCourse(_ context.Context, _ *session.Session, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.deletes = append(f.deletes, id)
	if f.failDelete != nil {
		return f.failDelete
	}
	for i := range f.courses {
		if f.courses[i].ID == id {
			f.courses = append(f.courses[:i], f.courses[i+1:]...)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

func (f *fakeAPI) ListSubjects(_ context.Context, _ *session.Session, req dto.ListSubjectsRequest) ([]models.Subject, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.subjectLists = append(f.subjectLists, req)
	if f.failList != nil {
		return nil, 0, f.failList
	}
	var matched []models.Subject
	for _, s := range f.subjects {
		if req.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(req.Name)) {
			continue
		}
		if req.Code != "" && !strings.EqualFold(s.Code, req.Code) {
			continue
		}
		if req.Type != "" && s.Type != req.Type {
			continue
		}
		if req.CourseID != "" && s.CourseID != req.CourseID {
			continue
		}
		matched = append(matched, s)
	}
	return window(matched, req.Skip, req.Limit), len(matched), nil
}

func (f *fakeAPI) CreateSubject(_ context.Context, _ *session.Session, p dto.SubjectPayload) (*models.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failWrite != nil {
		return nil, f.failWrite
	}
	f.nextID++
	s := models.Subject{ID: fmt.Sprintf("s-new%d", f.nextID), Name: p.Name, Code: p.Code, Type: p.Type, CourseID: p.CourseID}
	f.subjects = append(f.subjects, s)
	return &s, nil
}

func (f *fakeAPI) UpdateSubject(_ context.Context, _ *session.Session, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.updates = append(f.updates, req.ID)
	for i := range f.subjects {
		if f.subjects[i].ID == req.ID {
			f.subjects[i].Name, f.subjects[i].Code, f.subjects[i].Type, f.subjects[i].CourseID = req.Name, req.Code, req.Type, req.CourseID
			s := f.subjects[i]
			return &s, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
}

func (f *fakeAPI) DeleteSubject(_ context.Context, _ *session.Session, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.deletes = append(f.deletes, id)
	for i := range f.subjects {
		if f.subjects[i].ID == id {
			f.subjects = append(f.subjects[:i], f.subjects[i+1:]...)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
}

func (f *fakeAPI) CreateEnquiry(_ context.Context, p dto.EnquiryPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failWrite != nil {
		return f.failWrite
	}
	f.enquiries = append(f.enquiries, p)
	return nil
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) lastCourseList() dto.ListCoursesRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.courseLists[len(f.courseLists)-1]
}

func window[T any](items []T, skip, limit int) []T {
	if limit <= 0 {
		return append([]T(nil), items...)
	}
	if skip > len(items) {
		return nil
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[skip:end]...)
}

func adminSession() *session.Session {
	return &session.Session{Role: models.RoleAdmin, AccessToken: "tok", IssuedAt: time.Now()}
}

type scriptedConfirmer struct {
	answer  bool
	prompts []string
}

func (c *scriptedConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, nil
}
