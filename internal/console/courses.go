package console

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/session"
	"github.com/noah-isme/council-console/pkg/export"
)

// CourseCatalog is the course administration screen: a paged, filterable course
// list with each course's subjects grouped beneath it.
type CourseCatalog struct {
	*Manager[models.Course, dto.CoursePayload]

	subjects SubjectAPI
	session  *session.Session
	notifier Notifier
	logger   *zap.Logger

	mu       sync.Mutex
	grouped  map[string][]models.Subject
	expanded map[string]bool
}

// NewCourseCatalog wires the course screen for sess.
func NewCourseCatalog(courses CourseAPI, subjects SubjectAPI, sess *session.Session, opts Options) *CourseCatalog {
	opts = opts.withDefaults()
	res := Resource[models.Course, dto.CoursePayload]{
		Singular: "course",
		Plural:   "courses",
		Filters:  []string{FilterName, FilterCourseType},
		ID:       func(c models.Course) string { return c.ID },
		Label:    func(c models.Course) string { return c.Name },
		Payload:  dto.CoursePayloadFrom,
		Defaults: dto.DefaultCoursePayload,
	}
	c := &CourseCatalog{
		Manager:  NewManager[models.Course, dto.CoursePayload](res, courseRemote{api: courses, session: sess}, opts),
		subjects: subjects,
		session:  sess,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		grouped:  map[string][]models.Subject{},
		expanded: map[string]bool{},
	}
	c.OnReload(c.reloadSubjects)
	return c
}

// reloadSubjects fetches every subject once and groups them by course. On failure
// the previous grouping is kept.
func (c *CourseCatalog) reloadSubjects(ctx context.Context) error {
	subjects, _, err := c.subjects.ListSubjects(ctx, c.session, dto.ListSubjectsRequest{})
	if err != nil {
		c.notifier.Notify(failure(err, "Failed to load subjects. Please try again."))
		return err
	}
	grouped := models.GroupSubjectsByCourse(subjects)
	c.mu.Lock()
	c.grouped = grouped
	c.mu.Unlock()
	return nil
}

// FilterByName narrows the list to names containing name.
func (c *CourseCatalog) FilterByName(ctx context.Context, name string) error {
	return c.ApplyFilter(ctx, FilterName, name)
}

// FilterByType narrows the list to one course type; "" removes the filter.
func (c *CourseCatalog) FilterByType(ctx context.Context, t models.CourseType) error {
	return c.ApplyFilter(ctx, FilterCourseType, string(t))
}

// SubjectsOf returns the subjects grouped under courseID.
func (c *CourseCatalog) SubjectsOf(courseID string) []models.Subject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Subject(nil), c.grouped[courseID]...)
}

// ToggleExpand flips whether a course's subjects are shown and returns the new state.
func (c *CourseCatalog) ToggleExpand(courseID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expanded[courseID] = !c.expanded[courseID]
	return c.expanded[courseID]
}

// Expanded reports whether a course's subjects are shown.
func (c *CourseCatalog) Expanded(courseID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded[courseID]
}

// Dataset renders the current page as an export table.
func (c *CourseCatalog) Dataset() export.Dataset {
	headers := []string{"Name", "Type", "Fees", "Duration", "Subjects"}
	courses := c.List().Items()
	rows := make([]map[string]string, 0, len(courses))
	for _, course := range courses {
		rows = append(rows, map[string]string{
			"Name":     course.Name,
			"Type":     course.CourseType.Label(),
			"Fees":     course.FeesLabel(),
			"Duration": course.DurationLabel(),
			"Subjects": subjectCodes(c.SubjectsOf(course.ID)),
		})
	}
	return export.Dataset{Title: "Courses - " + c.List().PageInfo().Label, Headers: headers, Rows: rows}
}

// Export renders the current page in format.
func (c *CourseCatalog) Export(format export.Format) ([]byte, error) {
	renderer, err := export.For(format)
	if err != nil {
		return nil, err
	}
	return renderer.Render(c.Dataset())
}

func subjectCodes(subjects []models.Subject) string {
	codes := make([]string, len(subjects))
	for i, s := range subjects {
		codes[i] = s.Code
	}
	return strings.Join(codes, " ")
}
