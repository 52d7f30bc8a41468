package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/council-console/internal/models"
)

// Memory is an in-process store backing the dev API when no database is configured.
// The repositories built on it behave like their SQL counterparts, including
// sql.ErrNoRows for missing rows and the course-to-subject cascade.
type Memory struct {
	mu        sync.RWMutex
	courses   map[string]models.Course
	subjects  map[string]models.Subject
	enquiries []models.Enquiry
	students  map[string]models.Student
	admins    map[string]models.Admin
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		courses:  make(map[string]models.Course),
		subjects: make(map[string]models.Subject),
		students: make(map[string]models.Student),
		admins:   make(map[string]models.Admin),
	}
}

// Courses returns the course repository view.
func (m *Memory) Courses() *MemoryCourses { return &MemoryCourses{m: m} }

// Subjects returns the subject repository view.
func (m *Memory) Subjects() *MemorySubjects { return &MemorySubjects{m: m} }

// Enquiries returns the enquiry repository view.
func (m *Memory) Enquiries() *MemoryEnquiries { return &MemoryEnquiries{m: m} }

// Students returns the student repository view.
func (m *Memory) Students() *MemoryStudents { return &MemoryStudents{m: m} }

// Admins returns the admin repository view.
func (m *Memory) Admins() *MemoryAdmins { return &MemoryAdmins{m: m} }

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	if skip > 0 {
		items = items[skip:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// MemoryCourses implements the course repository over Memory.
type MemoryCourses struct{ m *Memory }

func (r *MemoryCourses) List(_ context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	matched := []models.Course{}
	for _, c := range r.m.courses {
		if filter.Name != "" && !contains(c.Name, filter.Name) {
			continue
		}
		if filter.CourseType != "" && c.CourseType != filter.CourseType {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name == matched[j].Name {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].Name < matched[j].Name
	})
	return page(matched, filter.Skip, filter.Limit), len(matched), nil
}

func (r *MemoryCourses) FindByID(_ context.Context, id string) (*models.Course, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	c, ok := r.m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (r *MemoryCourses) Create(_ context.Context, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	r.m.courses[course.ID] = *course
	return nil
}

func (r *MemoryCourses) Update(_ context.Context, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.courses[course.ID]
	if !ok {
		return sql.ErrNoRows
	}
	course.CreatedAt = existing.CreatedAt
	course.UpdatedAt = time.Now().UTC()
	r.m.courses[course.ID] = *course
	return nil
}

func (r *MemoryCourses) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.m.courses, id)
	for sid, s := range r.m.subjects {
		if s.CourseID == id {
			delete(r.m.subjects, sid)
		}
	}
	return nil
}

// MemorySubjects implements the subject repository over Memory.
type MemorySubjects struct{ m *Memory }

func (r *MemorySubjects) List(_ context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	matched := []models.Subject{}
	for _, s := range r.m.subjects {
		switch {
		case filter.Name != "" && !contains(s.Name, filter.Name):
			continue
		case filter.Code != "" && !contains(s.Code, filter.Code):
			continue
		case filter.Type != "" && s.Type != filter.Type:
			continue
		case filter.CourseID != "" && s.CourseID != filter.CourseID:
			continue
		}
		matched = append(matched, s)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name == matched[j].Name {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].Name < matched[j].Name
	})
	return page(matched, filter.Skip, filter.Limit), len(matched), nil
}

func (r *MemorySubjects) FindByID(_ context.Context, id string) (*models.Subject, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	s, ok := r.m.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (r *MemorySubjects) ExistsByCode(_ context.Context, courseID, code, excludeID string) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for id, s := range r.m.subjects {
		if id != excludeID && s.CourseID == courseID && strings.EqualFold(s.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemorySubjects) Create(_ context.Context, subject *models.Subject) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.courses[subject.CourseID]; !ok {
		return sql.ErrNoRows
	}
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now
	r.m.subjects[subject.ID] = *subject
	return nil
}

func (r *MemorySubjects) Update(_ context.Context, subject *models.Subject) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.subjects[subject.ID]
	if !ok {
		return sql.ErrNoRows
	}
	subject.CreatedAt = existing.CreatedAt
	subject.UpdatedAt = time.Now().UTC()
	r.m.subjects[subject.ID] = *subject
	return nil
}

func (r *MemorySubjects) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.subjects[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.m.subjects, id)
	return nil
}

// MemoryEnquiries implements the enquiry repository over Memory.
type MemoryEnquiries struct{ m *Memory }

func (r *MemoryEnquiries) Create(_ context.Context, enquiry *models.Enquiry) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if enquiry.ID == "" {
		enquiry.ID = uuid.NewString()
	}
	if enquiry.CreatedAt.IsZero() {
		enquiry.CreatedAt = time.Now().UTC()
	}
	r.m.enquiries = append(r.m.enquiries, *enquiry)
	return nil
}

// All returns stored enquiries in submission order.
func (r *MemoryEnquiries) All() []models.Enquiry {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return append([]models.Enquiry(nil), r.m.enquiries...)
}

// MemoryStudents implements the student repository over Memory.
type MemoryStudents struct{ m *Memory }

func (r *MemoryStudents) FindByApplicationNumber(_ context.Context, appNo string) (*models.Student, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	s, ok := r.m.students[strings.TrimSpace(appNo)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (r *MemoryStudents) Upsert(_ context.Context, student *models.Student) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if existing, ok := r.m.students[student.ApplicationNumber]; ok {
		student.ID = existing.ID
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	r.m.students[student.ApplicationNumber] = *student
	return nil
}

// MemoryAdmins implements the admin repository over Memory.
type MemoryAdmins struct{ m *Memory }

func (r *MemoryAdmins) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	a, ok := r.m.admins[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (r *MemoryAdmins) Upsert(_ context.Context, admin *models.Admin) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := strings.ToLower(admin.Email)
	if existing, ok := r.m.admins[key]; ok {
		admin.ID = existing.ID
		admin.CreatedAt = existing.CreatedAt
	}
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}
	r.m.admins[key] = *admin
	return nil
}
