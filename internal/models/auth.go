package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	SubjectID string `json:"sid"`
	Role      Role   `json:"role"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}
