package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/council-console/internal/client"
	"github.com/noah-isme/council-console/internal/console"
	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/middleware"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/repository"
	"github.com/noah-isme/council-console/internal/service"
	"github.com/noah-isme/council-console/internal/session"
	"github.com/noah-isme/council-console/internal/validation"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

const (
	testAdminEmail    = "admin@council.local"
	testAdminPassword = "secret123"
)

type stack struct {
	server *httptest.Server
	client *client.Client
	memory *repository.Memory
}

func newStack(t *testing.T, limiter *middleware.RateLimiter) *stack {
	t.Helper()
	m := repository.NewMemory()
	validate := validation.New()

	require.NoError(t, service.Seed(context.Background(),
		service.SeedStores{Courses: m.Courses(), Subjects: m.Subjects(), Students: m.Students(), Admins: m.Admins()},
		service.SeedAdmin{Email: testAdminEmail, Password: testAdminPassword}, nil))

	router := NewRouter(RouterConfig{
		Prefix:         "/api/v1",
		Courses:        service.NewCourseService(m.Courses(), validate, nil),
		Subjects:       service.NewSubjectService(m.Subjects(), m.Courses(), validate, nil),
		Enquiries:      service.NewEnquiryService(m.Enquiries(), nil, validate, nil),
		Auth:           service.NewAuthService(m.Students(), m.Admins(), validate, nil, service.AuthConfig{Secret: "e2e", AccessTokenExpiry: time.Hour}),
		Metrics:        service.NewMetricsService(),
		EnquiryLimiter: limiter,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &stack{server: srv, client: client.New(srv.URL+"/api/v1", 5*time.Second), memory: m}
}

func TestConsoleAgainstRouter(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, nil)

	sessions := session.NewManager(s.client, session.NewMemoryStore(), nil)
	sess, err := sessions.LoginAdmin(ctx, testAdminEmail, testAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, sess.Role)

	rec := &console.Recorder{}
	catalog := console.NewCourseCatalog(s.client, s.client, sess, console.Options{PageSize: 2, Notifier: rec, Confirmer: console.AlwaysConfirm})

	require.NoError(t, catalog.Reload(ctx))
	info := catalog.List().PageInfo()
	assert.Equal(t, 4, info.Total)
	assert.Equal(t, 2, info.TotalPages)
	items := catalog.List().Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Advanced Level Science", items[0].Name)
	assert.Equal(t, "BSc Computing", items[1].Name)
	assert.Len(t, catalog.SubjectsOf(items[1].ID), 3)

	catalog.Form().Set(dto.CoursePayload{Name: "Aardvark Studies", Fees: 10, CourseType: models.CourseTypeAcademic})
	require.NoError(t, catalog.Submit(ctx))
	note, _ := rec.Last()
	assert.Equal(t, "Course created successfully!", note.Message)
	assert.Equal(t, 3, catalog.List().PageInfo().TotalPages)
	created := catalog.List().Items()[0]
	assert.Equal(t, "Aardvark Studies", created.Name)

	deleted, err := catalog.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	note, _ = rec.Last()
	assert.Equal(t, "Course deleted successfully!", note.Message)
	assert.Equal(t, 4, catalog.List().PageInfo().Total)

	_, err = sessions.Current(ctx)
	require.NoError(t, err)
}

func TestStudentTokenCannotManageCatalogue(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, nil)

	sessions := session.NewManager(s.client, session.NewMemoryStore(), nil)
	portal := console.NewPortal(sessions, console.Options{})
	sess, err := portal.Login(ctx, service.DemoStudent.ApplicationNumber, service.DemoStudent.DateOfBirth.Format(console.DateLayout))
	require.NoError(t, err)

	dash, err := portal.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.DemoStudent.Name, dash.Name)
	assert.False(t, dash.ExpiresAt.IsZero())

	_, _, err = s.client.ListCourses(ctx, sess, dto.ListCoursesRequest{})
	assert.True(t, client.IsUnauthorized(err))
}

func TestSubjectValidationFieldsReachClient(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, nil)
	sessions := session.NewManager(s.client, session.NewMemoryStore(), nil)
	sess, err := sessions.LoginAdmin(ctx, testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	_, err = s.client.CreateSubject(ctx, sess, dto.SubjectPayload{Name: "Ghost", Code: "G1", CourseID: "missing", Type: models.SubjectTypeLanguage})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "courseId")
}

func TestEnquiryRateLimited(t *testing.T) {
	ctx := context.Background()
	limiter := middleware.NewRateLimiter(1, 1)
	defer limiter.Stop()
	s := newStack(t, limiter)

	payload := dto.EnquiryPayload{Name: "Nimal", Email: "nimal@example.com", PhoneNumber: "0771234567", Description: "Do you offer evening classes?"}
	require.NoError(t, s.client.CreateEnquiry(ctx, payload))

	err := s.client.CreateEnquiry(ctx, payload)
	assert.ErrorIs(t, err, appErrors.ErrTooManyRequests)
	assert.Len(t, s.memory.Enquiries().All(), 1)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newStack(t, nil)

	resp, err := http.Get(s.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(s.server.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
