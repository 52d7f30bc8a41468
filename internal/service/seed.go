package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/council-console/internal/models"
)

// SeedStores groups the writers Seed needs.
type SeedStores struct {
	Courses interface {
		List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
		Create(ctx context.Context, course *models.Course) error
	}
	Subjects interface {
		Create(ctx context.Context, subject *models.Subject) error
	}
	Students interface {
		Upsert(ctx context.Context, student *models.Student) error
	}
	Admins interface {
		Upsert(ctx context.Context, admin *models.Admin) error
	}
}

// SeedAdmin is the operator account created by Seed.
type SeedAdmin struct {
	Email    string
	Password string
}

// DemoStudent is the student account created by Seed.
var DemoStudent = models.Student{
	ApplicationNumber: "APP-2024-001",
	Name:              "Asha Perera",
	PhoneNumber:       "+94 77 123 4567",
	DateOfBirth:       time.Date(2004, time.March, 9, 0, 0, 0, 0, time.UTC),
	PaymentStatus:     models.PaymentPartial,
	PaymentAmount:     45000,
}

type seedCourse struct {
	name     string
	fees     float64
	kind     models.CourseType
	duration float64
	unit     models.DurationUnit
	subjects []models.Subject
}

var demoCatalogue = []seedCourse{
	{"Diploma in English", 45000, models.CourseTypeDiploma, 1, models.DurationYear, []models.Subject{
		{Name: "Grammar", Code: "ENG101", Type: models.SubjectTypeLanguage},
		{Name: "Literature", Code: "ENG102", Type: models.SubjectTypeLanguage},
	}},
	{"Certificate in Bookkeeping", 18000, models.CourseTypeCertificate, 6, models.DurationMonth, []models.Subject{
		{Name: "Accounting Basics", Code: "ACC101", Type: models.SubjectTypeVocational},
	}},
	{"BSc Computing", 320000, models.CourseTypeDegree, 3, models.DurationYear, []models.Subject{
		{Name: "Programming", Code: "CS101", Type: models.SubjectTypeNonLanguage},
		{Name: "Discrete Mathematics", Code: "CS102", Type: models.SubjectTypeNonLanguage},
		{Name: "Technical Writing", Code: "CS103", Type: models.SubjectTypeLanguage},
	}},
	{"Advanced Level Science", 25000, models.CourseTypeAcademic, 2, models.DurationYear, []models.Subject{
		{Name: "Physics", Code: "SCI201", Type: models.SubjectTypeNonLanguage},
		{Name: "Chemistry", Code: "SCI202", Type: models.SubjectTypeNonLanguage},
	}},
}

// Seed loads a demo catalogue, one student and one admin. The catalogue is only
// written into an empty store; accounts are upserted every time.
func Seed(ctx context.Context, stores SeedStores, admin SeedAdmin, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := stores.Admins.Upsert(ctx, &models.Admin{Email: admin.Email, FullName: "Council Administrator", PasswordHash: string(hash), Active: true}); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	_, total, err := stores.Courses.List(ctx, models.CourseFilter{Limit: 1})
	if err != nil {
		return fmt.Errorf("inspect catalogue: %w", err)
	}

	var firstCourseID *string
	if total == 0 {
		for _, sc := range demoCatalogue {
			fees, duration := sc.fees, sc.duration
			course := &models.Course{Name: sc.name, Fees: &fees, CourseType: sc.kind, Duration: &duration, DurationType: sc.unit}
			if err := stores.Courses.Create(ctx, course); err != nil {
				return fmt.Errorf("seed course %q: %w", sc.name, err)
			}
			if firstCourseID == nil {
				id := course.ID
				firstCourseID = &id
			}
			for _, subject := range sc.subjects {
				subject.CourseID = course.ID
				if err := stores.Subjects.Create(ctx, &subject); err != nil {
					return fmt.Errorf("seed subject %q: %w", subject.Code, err)
				}
			}
		}
		logger.Info("demo catalogue seeded", zap.Int("courses", len(demoCatalogue)))
	}

	student := DemoStudent
	student.CourseID = firstCourseID
	if err := stores.Students.Upsert(ctx, &student); err != nil {
		return fmt.Errorf("seed student: %w", err)
	}
	logger.Info("demo accounts ready",
		zap.String("admin_email", admin.Email),
		zap.String("student_application_number", student.ApplicationNumber),
	)
	return nil
}
