package dto

import (
	"time"

	"github.com/noah-isme/council-console/internal/models"
)

// EnquiryPayload is the public contact form.
type EnquiryPayload struct {
	Name        string `json:"name" validate:"required,notblank"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=7,max=20"`
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"required,notblank,max=4000"`
}

// StudentLoginRequest authenticates a student by application number and date of birth.
type StudentLoginRequest struct {
	ApplicationNumber string    `json:"applicationNumber" validate:"required,notblank"`
	DOB               time.Time `json:"dob" validate:"required"`
}

// StudentLoginResponse carries the student profile and issued tokens.
type StudentLoginResponse struct {
	Student      models.Student `json:"student"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
}

// AdminLoginRequest authenticates a console operator.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse carries the operator profile and access token.
type AdminLoginResponse struct {
	Admin       models.Admin `json:"admin"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
}
