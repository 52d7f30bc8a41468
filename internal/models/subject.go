package models

import (
	"fmt"
	"strings"
	"time"
)

// SubjectType classifies a subject within a course.
type SubjectType string

const (
	SubjectTypeLanguage    SubjectType = "LANGUAGE"
	SubjectTypeNonLanguage SubjectType = "NON_LANGUAGE"
	SubjectTypeVocational  SubjectType = "VOCATIONAL"
)

// AllSubjectTypes lists subject types in display order.
func AllSubjectTypes() []SubjectType {
	return []SubjectType{SubjectTypeLanguage, SubjectTypeNonLanguage, SubjectTypeVocational}
}

// Valid reports whether t is a known subject type.
func (t SubjectType) Valid() bool {
	for _, known := range AllSubjectTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseSubjectType accepts either the wire value or its label in any case.
func ParseSubjectType(raw string) (SubjectType, error) {
	t := SubjectType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")))
	if !t.Valid() {
		return "", fmt.Errorf("unknown subject type %q", raw)
	}
	return t, nil
}

// Subject belongs to exactly one course.
type Subject struct {
	ID        string      `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	Code      string      `db:"code" json:"code"`
	Type      SubjectType `db:"type" json:"type"`
	CourseID  string      `db:"course_id" json:"courseId"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt,omitempty"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Name     string
	Code     string
	Type     SubjectType
	CourseID string
	Skip     int
	Limit    int
}

// GroupSubjectsByCourse indexes subjects by their course id, keeping input order.
func GroupSubjectsByCourse(subjects []Subject) map[string][]Subject {
	grouped := make(map[string][]Subject)
	for _, s := range subjects {
		grouped[s.CourseID] = append(grouped[s.CourseID], s)
	}
	return grouped
}
