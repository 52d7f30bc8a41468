package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/session"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

// SubjectCatalog is the subject administration screen. Subjects may only point at
// courses in the loaded course set.
type SubjectCatalog struct {
	*Manager[models.Subject, dto.SubjectPayload]

	courseAPI CourseAPI
	session   *session.Session
	notifier  Notifier

	mu               sync.Mutex
	courses          []models.Course
	createCourseType models.CourseType
	filterCourseType models.CourseType
}

// NewSubjectCatalog wires the subject screen for sess.
func NewSubjectCatalog(subjects SubjectAPI, courses CourseAPI, sess *session.Session, opts Options) *SubjectCatalog {
	opts = opts.withDefaults()
	c := &SubjectCatalog{courseAPI: courses, session: sess, notifier: opts.Notifier}
	res := Resource[models.Subject, dto.SubjectPayload]{
		Singular: "subject",
		Plural:   "subjects",
		Filters:  []string{FilterName, FilterCode, FilterType, FilterCourseID},
		ID:       func(s models.Subject) string { return s.ID },
		Label:    func(s models.Subject) string { return s.Name + " (" + s.Code + ")" },
		Payload:  dto.SubjectPayloadFrom,
		Defaults: c.defaults,
	}
	c.Manager = NewManager[models.Subject, dto.SubjectPayload](res, subjectRemote{api: subjects, session: sess}, opts)
	c.Form().AddCheck(c.checkCourse)
	return c
}

func (c *SubjectCatalog) defaults() dto.SubjectPayload {
	p := dto.SubjectPayload{Type: models.SubjectTypeLanguage}
	if opts := c.CreateCourseOptions(); len(opts) > 0 {
		p.CourseID = opts[0].ID
	}
	return p
}

func (c *SubjectCatalog) checkCourse(p dto.SubjectPayload) map[string]string {
	if p.CourseID == "" {
		return nil
	}
	if _, ok := c.Course(p.CourseID); !ok {
		return map[string]string{"courseId": "courseId must be one of the loaded courses"}
	}
	return nil
}

// Reload refreshes the course set and then the subject page.
func (c *SubjectCatalog) Reload(ctx context.Context) error {
	if err := c.LoadCourses(ctx); err != nil {
		return err
	}
	return c.Manager.Reload(ctx)
}

// LoadCourses fetches the full course set used by the selectors. On failure the
// previous set is kept.
func (c *SubjectCatalog) LoadCourses(ctx context.Context) error {
	courses, _, err := c.courseAPI.ListCourses(ctx, c.session, dto.ListCoursesRequest{})
	if err != nil {
		c.notifier.Notify(failure(err, "Failed to load courses. Please try again."))
		return err
	}
	c.mu.Lock()
	c.courses = courses
	c.mu.Unlock()
	c.syncFormCourse()
	return nil
}

// syncFormCourse points a create-mode form at the first selectable course when its
// current course is no longer offered.
func (c *SubjectCatalog) syncFormCourse() {
	form := c.Form()
	if form.Mode() == ModeUpdate {
		return
	}
	options := c.CreateCourseOptions()
	form.Update(func(p *dto.SubjectPayload) {
		if containsCourse(options, p.CourseID) {
			return
		}
		p.CourseID = ""
		if len(options) > 0 {
			p.CourseID = options[0].ID
		}
	})
}

// Courses returns the loaded course set.
func (c *SubjectCatalog) Courses() []models.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Course(nil), c.courses...)
}

// Course looks up a loaded course.
func (c *SubjectCatalog) Course(id string) (models.Course, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, course := range c.courses {
		if course.ID == id {
			return course, true
		}
	}
	return models.Course{}, false
}

// CourseName resolves a course id for display.
func (c *SubjectCatalog) CourseName(id string) string {
	if course, ok := c.Course(id); ok {
		return course.Name
	}
	return "Unknown"
}

// CourseOptions lists loaded courses of type t; "" lists all.
func (c *SubjectCatalog) CourseOptions(t models.CourseType) []models.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return coursesOfType(c.courses, t)
}

// CreateCourseOptions lists the courses offered by the subject form.
func (c *SubjectCatalog) CreateCourseOptions() []models.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return coursesOfType(c.courses, c.createCourseType)
}

// FilterCourseOptions lists the courses offered by the course filter.
func (c *SubjectCatalog) FilterCourseOptions() []models.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return coursesOfType(c.courses, c.filterCourseType)
}

// SetCreateCourseType narrows the form's course selector.
func (c *SubjectCatalog) SetCreateCourseType(t models.CourseType) {
	c.mu.Lock()
	c.createCourseType = t
	c.mu.Unlock()
	c.syncFormCourse()
}

// SetFilterCourseType narrows the filter's course selector. A course filter that
// falls outside the narrowed set is dropped and the list reloaded.
func (c *SubjectCatalog) SetFilterCourseType(ctx context.Context, t models.CourseType) error {
	c.mu.Lock()
	c.filterCourseType = t
	options := coursesOfType(c.courses, t)
	c.mu.Unlock()

	current := c.List().Filter(FilterCourseID)
	if current == "" || containsCourse(options, current) {
		return nil
	}
	return c.ApplyFilter(ctx, FilterCourseID, "")
}

func (c *SubjectCatalog) FilterByName(ctx context.Context, name string) error {
	return c.ApplyFilter(ctx, FilterName, name)
}

func (c *SubjectCatalog) FilterByCode(ctx context.Context, code string) error {
	return c.ApplyFilter(ctx, FilterCode, code)
}

func (c *SubjectCatalog) FilterByType(ctx context.Context, t models.SubjectType) error {
	return c.ApplyFilter(ctx, FilterType, string(t))
}

// FilterByCourse narrows the list to one course from the filter options; "" removes the filter.
func (c *SubjectCatalog) FilterByCourse(ctx context.Context, courseID string) error {
	if courseID != "" && !containsCourse(c.FilterCourseOptions(), courseID) {
		return appErrors.Validation("invalid subject filter", map[string]string{
			"courseId": fmt.Sprintf("course %s is not among the selectable courses", courseID),
		})
	}
	return c.ApplyFilter(ctx, FilterCourseID, courseID)
}

func coursesOfType(courses []models.Course, t models.CourseType) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if t == "" || course.CourseType == t {
			out = append(out, course)
		}
	}
	return out
}

func containsCourse(courses []models.Course, id string) bool {
	for _, course := range courses {
		if course.ID == id {
			return true
		}
	}
	return false
}
