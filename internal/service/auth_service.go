package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/models"
	"github.com/noah-isme/council-console/internal/validation"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

type studentRepository interface {
	FindByApplicationNumber(ctx context.Context, appNo string) (*models.Student, error)
}

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// AuthConfig defines token settings.
type AuthConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService signs in students and console operators.
type AuthService struct {
	students  studentRepository
	admins    adminRepository
	validator *validation.Validator
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students studentRepository, admins adminRepository, validate *validation.Validator, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "council-devapi"
	}
	return &AuthService{students: students, admins: admins, validator: validate, logger: logger, config: config, now: time.Now}
}

// LoginStudent matches the application number and date of birth.
func (s *AuthService) LoginStudent(ctx context.Context, req dto.StudentLoginRequest) (*dto.StudentLoginResponse, error) {
	if err := s.validator.Struct(req, "invalid login payload"); err != nil {
		return nil, err
	}
	student, err := s.students.FindByApplicationNumber(ctx, req.ApplicationNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid application number or date of birth")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	if !student.SameBirthDate(req.DOB) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid application number or date of birth")
	}

	access, err := s.sign(student.ID, models.RoleStudent, student.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	refresh, err := refreshToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}
	s.logger.Info("student signed in", zap.String("student_id", student.ID))
	return &dto.StudentLoginResponse{Student: *student, AccessToken: access, RefreshToken: refresh}, nil
}

// LoginAdmin checks the operator's bcrypt password hash.
func (s *AuthService) LoginAdmin(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if err := s.validator.Struct(req, "invalid login payload"); err != nil {
		return nil, err
	}
	admin, err := s.admins.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}
	if !admin.Active {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	access, err := s.sign(admin.ID, models.RoleAdmin, admin.FullName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	s.logger.Info("admin signed in", zap.String("admin_id", admin.ID))
	return &dto.AdminLoginResponse{
		Admin:       *admin,
		AccessToken: access,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) sign(subjectID string, role models.Role, name string) (string, error) {
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		SubjectID: subjectID,
		Role:      role,
		Name:      name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

func refreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
