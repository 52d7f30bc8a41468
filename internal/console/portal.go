package console

import (
	"context"
	"strings"
	"time"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/session"
	"github.com/noah-isme/council-console/internal/validation"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

// DateLayout is the accepted date-of-birth input format.
const DateLayout = "2006-01-02"

// StudentSessions is the login lifecycle the portal needs.
type StudentSessions interface {
	LoginStudent(ctx context.Context, applicationNumber string, dob time.Time) (*session.Session, error)
	Require(ctx context.Context, role models.Role) (*session.Session, error)
	Logout(ctx context.Context, sess *session.Session) error
}

// Dashboard is the student's view of their enrolment.
type Dashboard struct {
	StudentID     string
	Name          string
	PhoneNumber   string
	PaymentStatus models.PaymentStatus
	PaymentAmount float64
	ExpiresAt     time.Time
}

// Portal is the student login and dashboard.
type Portal struct {
	sessions  StudentSessions
	validator *validation.Validator
	notifier  Notifier
}

// NewPortal builds the student portal.
func NewPortal(sessions StudentSessions, opts Options) *Portal {
	opts = opts.withDefaults()
	return &Portal{sessions: sessions, validator: opts.Validator, notifier: opts.Notifier}
}

// Login validates the credentials and starts a student session. dob is YYYY-MM-DD.
func (p *Portal) Login(ctx context.Context, applicationNumber, dob string) (*session.Session, error) {
	fields := map[string]string{}
	birth, err := time.Parse(DateLayout, strings.TrimSpace(dob))
	if err != nil {
		fields["dob"] = "dob must be a date in YYYY-MM-DD format"
	}
	req := dto.StudentLoginRequest{ApplicationNumber: strings.TrimSpace(applicationNumber), DOB: birth}
	if err := p.validator.Struct(req, "invalid login"); err != nil {
		for k, v := range appErrors.FromError(err).Fields {
			if _, seen := fields[k]; !seen {
				fields[k] = v
			}
		}
	}
	if len(fields) > 0 {
		return nil, appErrors.Validation("invalid login", fields)
	}

	sess, err := p.sessions.LoginStudent(ctx, req.ApplicationNumber, req.DOB)
	if err != nil {
		p.notifier.Notify(failure(err, "Login failed. Please check your application number and date of birth."))
		return nil, err
	}
	p.notifier.Notify(successf("Welcome, %s!", sess.DisplayName()))
	return sess, nil
}

// Dashboard reads the persisted student session.
func (p *Portal) Dashboard(ctx context.Context) (Dashboard, error) {
	sess, err := p.sessions.Require(ctx, models.RoleStudent)
	if err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{}
	if s := sess.Student; s != nil {
		d = Dashboard{
			StudentID:     s.ID,
			Name:          s.Name,
			PhoneNumber:   s.PhoneNumber,
			PaymentStatus: s.PaymentStatus,
			PaymentAmount: s.PaymentAmount,
		}
	}
	if exp, ok := sess.ExpiresAt(); ok {
		d.ExpiresAt = exp
	}
	return d, nil
}

// Logout ends the student session.
func (p *Portal) Logout(ctx context.Context) error {
	sess, err := p.sessions.Require(ctx, models.RoleStudent)
	if err != nil {
		return err
	}
	if err := p.sessions.Logout(ctx, sess); err != nil {
		return err
	}
	p.notifier.Notify(successf("You have been logged out."))
	return nil
}
