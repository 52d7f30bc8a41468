package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/council-console/internal/handler"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/repository"
	"github.com/noah-isme/council-console/internal/service"
	"github.com/noah-isme/council-console/pkg/config"
	"github.com/noah-isme/council-console/pkg/database"
)

type courseRepo interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type subjectRepo interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ExistsByCode(ctx context.Context, courseID, code, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

type enquiryRepo interface {
	Create(ctx context.Context, enquiry *models.Enquiry) error
}

type studentRepo interface {
	FindByApplicationNumber(ctx context.Context, appNo string) (*models.Student, error)
	Upsert(ctx context.Context, student *models.Student) error
}

type adminRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Upsert(ctx context.Context, admin *models.Admin) error
}

// repositories is the storage backend selected by DEVAPI_STORE.
type repositories struct {
	courses   courseRepo
	subjects  subjectRepo
	enquiries enquiryRepo
	students  studentRepo
	admins    adminRepo
	name      string
	db        *sqlx.DB
}

func (r *repositories) seedStores() service.SeedStores {
	return service.SeedStores{Courses: r.courses, Subjects: r.subjects, Students: r.students, Admins: r.admins}
}

func (r *repositories) probes() map[string]handler.Probe {
	if r.db == nil {
		return nil
	}
	return map[string]handler.Probe{"postgres": r.db.PingContext}
}

func (r *repositories) Close() {
	if r.db != nil {
		_ = r.db.Close()
	}
}

func openRepositories(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*repositories, error) {
	switch cfg.DevAPI.Store {
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db, repository.Schema); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logr.Info("using postgres store", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
		return &repositories{
			courses:   repository.NewCourseRepository(db),
			subjects:  repository.NewSubjectRepository(db),
			enquiries: repository.NewEnquiryRepository(db),
			students:  repository.NewStudentRepository(db),
			admins:    repository.NewAdminRepository(db),
			name:      config.StorePostgres,
			db:        db,
		}, nil
	case config.StoreMemory, "":
		m := repository.NewMemory()
		logr.Info("using in-memory store")
		return &repositories{
			courses:   m.Courses(),
			subjects:  m.Subjects(),
			enquiries: m.Enquiries(),
			students:  m.Students(),
			admins:    m.Admins(),
			name:      config.StoreMemory,
		}, nil
	default:
		return nil, fmt.Errorf("unknown DEVAPI_STORE %q", cfg.DevAPI.Store)
	}
}
