package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

type authMock struct {
	studentReq  dto.StudentLoginRequest
	studentResp *dto.StudentLoginResponse
	adminResp   *dto.AdminLoginResponse
	err         error
}

func (m *authMock) LoginStudent(_ context.Context, req dto.StudentLoginRequest) (*dto.StudentLoginResponse, error) {
	m.studentReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.studentResp, nil
}

func (m *authMock) LoginAdmin(_ context.Context, _ dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.adminResp, nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := models.JWTClaims{
		SubjectID:        "stu-1",
		Role:             models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestLoginStudentPersistsSession(t *testing.T) {
	auth := &authMock{studentResp: &dto.StudentLoginResponse{
		Student:      models.Student{ID: "stu-1", Name: "Asha Rao", PaymentStatus: models.PaymentPaid},
		AccessToken:  "access",
		RefreshToken: "refresh",
	}}
	store := NewMemoryStore()
	m := NewManager(auth, store, nil)

	dob := time.Date(2004, 3, 9, 0, 0, 0, 0, time.UTC)
	sess, err := m.LoginStudent(context.Background(), " APP-001 ", dob)
	require.NoError(t, err)
	assert.Equal(t, "APP-001", auth.studentReq.ApplicationNumber)
	assert.Equal(t, dob, auth.studentReq.DOB)
	assert.Equal(t, models.RoleStudent, sess.Role)
	assert.Equal(t, "Asha Rao", sess.DisplayName())

	current, err := m.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refresh", current.RefreshToken)

	require.NoError(t, m.Logout(context.Background(), sess))
	assert.Empty(t, sess.AccessToken)
	_, err = m.Current(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoginFailureLeavesStoreEmpty(t *testing.T) {
	auth := &authMock{err: appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid application number or date of birth")}
	store := NewMemoryStore()
	m := NewManager(auth, store, nil)

	_, err := m.LoginStudent(context.Background(), "APP-404", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoginWithoutTokenRejected(t *testing.T) {
	auth := &authMock{adminResp: &dto.AdminLoginResponse{Admin: models.Admin{ID: "adm-1"}}}
	m := NewManager(auth, nil, nil)
	_, err := m.LoginAdmin(context.Background(), "admin@council.local", "pw")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrTransport.Code))
}

func TestCurrentClearsExpiredSession(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	sess := sampleSession()
	sess.AccessToken = signedToken(t, now.Add(-time.Minute))
	require.NoError(t, store.Save(context.Background(), sess))

	m := NewManager(&authMock{}, store, nil)
	m.now = func() time.Time { return now }

	_, err := m.Current(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRequireChecksRole(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(&authMock{}, store, nil)

	_, err := m.Require(context.Background(), models.RoleAdmin)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized.Code))

	require.NoError(t, store.Save(context.Background(), sampleSession()))
	_, err = m.Require(context.Background(), models.RoleAdmin)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))

	sess, err := m.Require(context.Background(), models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", sess.Student.ID)
}

func TestExpiresAt(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	sess := &Session{AccessToken: signedToken(t, exp)}
	got, ok := sess.ExpiresAt()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
	assert.False(t, sess.Expired(exp.Add(-time.Second)))
	assert.True(t, sess.Expired(exp))

	opaque := &Session{AccessToken: "not-a-jwt"}
	_, ok = opaque.ExpiresAt()
	assert.False(t, ok)
	assert.False(t, opaque.Expired(time.Now()))
	assert.Equal(t, "Bearer not-a-jwt", opaque.Authorization())
}
