package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

// Authenticator exchanges credentials for tokens.
type Authenticator interface {
	LoginStudent(ctx context.Context, req dto.StudentLoginRequest) (*dto.StudentLoginResponse, error)
	LoginAdmin(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
}

// Manager runs the login -> session -> logout lifecycle against a Store.
type Manager struct {
	auth   Authenticator
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewManager builds a session manager.
func NewManager(auth Authenticator, store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{auth: auth, store: store, logger: logger, now: time.Now}
}

// LoginStudent authenticates a student and persists the new session.
func (m *Manager) LoginStudent(ctx context.Context, applicationNumber string, dob time.Time) (*Session, error) {
	resp, err := m.auth.LoginStudent(ctx, dto.StudentLoginRequest{
		ApplicationNumber: strings.TrimSpace(applicationNumber),
		DOB:               dob,
	})
	if err != nil {
		return nil, err
	}
	student := resp.Student
	sess := &Session{
		Role:         models.RoleStudent,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Student:      &student,
		IssuedAt:     m.now().UTC(),
	}
	if err := m.persist(ctx, sess); err != nil {
		return nil, err
	}
	m.logger.Info("student logged in", zap.String("student_id", student.ID))
	return sess, nil
}

// LoginAdmin authenticates a console operator and persists the new session.
func (m *Manager) LoginAdmin(ctx context.Context, email, password string) (*Session, error) {
	resp, err := m.auth.LoginAdmin(ctx, dto.AdminLoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	admin := resp.Admin
	sess := &Session{
		Role:        models.RoleAdmin,
		AccessToken: resp.AccessToken,
		Admin:       &admin,
		IssuedAt:    m.now().UTC(),
	}
	if err := m.persist(ctx, sess); err != nil {
		return nil, err
	}
	m.logger.Info("admin logged in", zap.String("admin_id", admin.ID))
	return sess, nil
}

func (m *Manager) persist(ctx context.Context, sess *Session) error {
	if err := sess.Valid(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "login response carried no access token")
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Current loads the persisted session. Expired sessions are cleared and reported as ErrNoSession.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	sess, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Expired(m.now()) {
		m.logger.Info("persisted session expired", zap.String("role", string(sess.Role)))
		if err := m.store.Clear(ctx); err != nil {
			m.logger.Warn("failed to clear expired session", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: token expired", ErrNoSession)
	}
	return sess, nil
}

// Require loads the session and checks its role.
func (m *Manager) Require(ctx context.Context, role models.Role) (*Session, error) {
	sess, err := m.Current(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "please log in first")
		}
		return nil, err
	}
	if sess.Role != role {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("this command needs a %s session", strings.ToLower(string(role))))
	}
	return sess, nil
}

// Logout erases the persisted session. The in-memory session must not be reused.
func (m *Manager) Logout(ctx context.Context, sess *Session) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if sess != nil {
		sess.AccessToken = ""
		sess.RefreshToken = ""
		m.logger.Info("logged out", zap.String("role", string(sess.Role)))
	}
	return nil
}
