package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/session"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
	"github.com/noah-isme/council-console/pkg/middleware/requestid"
)

type recorded struct {
	method string
	path   string
	auth   string
	reqID  string
	body   map[string]interface{}
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.reqID = r.Header.Get(requestid.Header)
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &rec.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func adminSession() *session.Session {
	return &session.Session{Role: models.RoleAdmin, AccessToken: "tok-123"}
}

func TestListCoursesSendsQueryAndBearer(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"courses":[{"id":"c1","name":"Biology","courseType":"DEGREE"}],"total":25}`)
	c := New(srv.URL+"/api/v1/", time.Second)

	courses, total, err := c.ListCourses(context.Background(), adminSession(), dto.ListCoursesRequest{Skip: 20, Limit: 10, Name: "Bio"})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, courses, 1)
	assert.Equal(t, models.CourseTypeDegree, courses[0].CourseType)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/v1/course/all", rec.path)
	assert.Equal(t, "Bearer tok-123", rec.auth)
	assert.Len(t, rec.reqID, 36)
	assert.Equal(t, map[string]interface{}{"skip": float64(20), "limit": float64(10), "name": "Bio"}, rec.body)
}

func TestUpdateCourseSendsID(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"id":"c9","name":"Physics","courseType":"ACADEMIC"}`)
	c := New(srv.URL, time.Second)

	req := dto.UpdateCourseRequest{ID: "c9", CoursePayload: dto.CoursePayload{Name: "Physics", Fees: 100, CourseType: models.CourseTypeAcademic}}
	course, err := c.UpdateCourse(context.Background(), adminSession(), req)
	require.NoError(t, err)
	assert.Equal(t, "Physics", course.Name)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/course/update", rec.path)
	assert.Equal(t, "c9", rec.body["id"])
	assert.Equal(t, "Physics", rec.body["name"])
}

func TestDeleteSubjectPath(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"message":"deleted"}`)
	c := New(srv.URL, time.Second)

	require.NoError(t, c.DeleteSubject(context.Background(), adminSession(), "s 1"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/subject/delete/s 1", rec.path)
}

func TestEnquiryNeedsNoSession(t *testing.T) {
	srv, rec := newServer(t, http.StatusCreated, `{"message":"received"}`)
	c := New(srv.URL, time.Second)

	err := c.CreateEnquiry(context.Background(), dto.EnquiryPayload{Name: "Asha", Email: "a@b.co", PhoneNumber: "9999999", Description: "Fees?"})
	require.NoError(t, err)
	assert.Empty(t, rec.auth)
	assert.Equal(t, "/enquiry/create", rec.path)
}

func TestAuthenticatedCallWithoutSession(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[]`)
	c := New(srv.URL, time.Second)

	_, _, err := c.ListSubjects(context.Background(), nil, dto.ListSubjectsRequest{})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, rec.method)
}

func TestServerErrorsAreTyped(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"error":{"code":"UNAUTHORIZED","message":"token expired"}}`)
	c := New(srv.URL, time.Second)

	_, err := c.CreateCourse(context.Background(), adminSession(), dto.CoursePayload{Name: "X"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "token expired", appErrors.FromError(err).Message)
}

func TestTransportErrors(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[]`)
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	_, _, err := c.ListCourses(context.Background(), adminSession(), dto.ListCoursesRequest{})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrTransport.Code))
}

func TestUndecodableResponse(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"unexpected":true}`)
	c := New(srv.URL, time.Second)
	_, _, err := c.ListCourses(context.Background(), adminSession(), dto.ListCoursesRequest{})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrTransport.Code))
}

func TestStudentLogin(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"student":{"id":"stu-1","name":"Asha","phoneNumber":"999","paymentStatus":"PAID","paymentAmount":5000},"accessToken":"a","refreshToken":"r"}`)
	c := New(srv.URL, time.Second)

	dob := time.Date(2004, 3, 9, 0, 0, 0, 0, time.UTC)
	resp, err := c.LoginStudent(context.Background(), dto.StudentLoginRequest{ApplicationNumber: "APP-1", DOB: dob})
	require.NoError(t, err)
	assert.Equal(t, "stu-1", resp.Student.ID)
	assert.Equal(t, models.PaymentPaid, resp.Student.PaymentStatus)
	assert.Equal(t, "r", resp.RefreshToken)
	assert.Equal(t, "2004-03-09T00:00:00Z", rec.body["dob"])
	assert.Equal(t, "APP-1", rec.body["applicationNumber"])
}

func TestMetricsRecorded(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, `{"message":"course not found"}`)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	c := New(srv.URL, time.Second, WithMetrics(metrics))

	err := c.DeleteCourse(context.Background(), adminSession(), "missing")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requests.WithLabelValues("delete_course", outcomeClient)))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.duration))
}

func TestCustomEndpoints(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `[]`)
	e := DefaultEndpoints()
	e.ListSubjects = "/v2/subjects/search"
	c := New(srv.URL, time.Second, WithEndpoints(e))

	_, total, err := c.ListSubjects(context.Background(), adminSession(), dto.ListSubjectsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Equal(t, "/v2/subjects/search", rec.path)
	assert.Equal(t, "/v2/subjects/search", c.Endpoints().ListSubjects)
}
