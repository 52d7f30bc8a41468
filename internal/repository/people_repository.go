package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/council-console/internal/models"
)

// EnquiryRepository stores public enquiries.
type EnquiryRepository struct {
	db *sqlx.DB
}

// NewEnquiryRepository creates a new repository instance.
func NewEnquiryRepository(db *sqlx.DB) *EnquiryRepository {
	return &EnquiryRepository{db: db}
}

// Create persists an enquiry.
func (r *EnquiryRepository) Create(ctx context.Context, enquiry *models.Enquiry) error {
	if enquiry.ID == "" {
		enquiry.ID = uuid.NewString()
	}
	if enquiry.CreatedAt.IsZero() {
		enquiry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO enquiries (id, name, email, phone_number, title, description, created_at) VALUES (:id, :name, :email, :phone_number, :title, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enquiry); err != nil {
		return fmt.Errorf("create enquiry: %w", err)
	}
	return nil
}

// StudentRepository reads student records for portal login.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new repository instance.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByApplicationNumber returns a student or sql.ErrNoRows.
func (r *StudentRepository) FindByApplicationNumber(ctx context.Context, appNo string) (*models.Student, error) {
	const query = `SELECT id, application_number, name, phone_number, date_of_birth, payment_status, payment_amount, course_id FROM students WHERE application_number = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, strings.TrimSpace(appNo)); err != nil {
		return nil, err
	}
	return &student, nil
}

// Upsert inserts a student or refreshes an existing application number.
func (r *StudentRepository) Upsert(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	const query = `INSERT INTO students (id, application_number, name, phone_number, date_of_birth, payment_status, payment_amount, course_id)
		VALUES (:id, :application_number, :name, :phone_number, :date_of_birth, :payment_status, :payment_amount, :course_id)
		ON CONFLICT (application_number) DO UPDATE SET name = EXCLUDED.name, phone_number = EXCLUDED.phone_number,
		date_of_birth = EXCLUDED.date_of_birth, payment_status = EXCLUDED.payment_status, payment_amount = EXCLUDED.payment_amount`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}
	return nil
}

// AdminRepository reads console operators.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new repository instance.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByEmail returns an admin or sql.ErrNoRows.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const query = `SELECT id, email, full_name, password_hash, active, created_at FROM admins WHERE LOWER(email) = LOWER($1)`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, strings.TrimSpace(email)); err != nil {
		return nil, err
	}
	return &admin, nil
}

// Upsert inserts an admin or refreshes the password of an existing email.
func (r *AdminRepository) Upsert(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO admins (id, email, full_name, password_hash, active, created_at)
		VALUES (:id, :email, :full_name, :password_hash, :active, :created_at)
		ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name, password_hash = EXCLUDED.password_hash, active = EXCLUDED.active`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	return nil
}
