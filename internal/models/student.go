package models

import "time"

// PaymentStatus reflects whether a student's fees have been settled.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// Student is an enrolled learner as seen by the student portal.
type Student struct {
	ID                string        `db:"id" json:"id"`
	ApplicationNumber string        `db:"application_number" json:"applicationNumber,omitempty"`
	Name              string        `db:"name" json:"name"`
	PhoneNumber       string        `db:"phone_number" json:"phoneNumber"`
	DateOfBirth       time.Time     `db:"date_of_birth" json:"-"`
	PaymentStatus     PaymentStatus `db:"payment_status" json:"paymentStatus"`
	PaymentAmount     float64       `db:"payment_amount" json:"paymentAmount"`
	CourseID          *string       `db:"course_id" json:"courseId,omitempty"`
}

// SameBirthDate compares calendar dates in UTC, ignoring the time of day.
func (s Student) SameBirthDate(dob time.Time) bool {
	a := s.DateOfBirth.UTC()
	b := dob.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
