package models

import (
	"fmt"
	"strings"
	"time"
)

// CourseType classifies a course offering.
type CourseType string

const (
	CourseTypeAcademic     CourseType = "ACADEMIC"
	CourseTypeDiploma      CourseType = "DIPLOMA"
	CourseTypeCertificate  CourseType = "CERTIFICATE"
	CourseTypeDegree       CourseType = "DEGREE"
	CourseTypePostGraduate CourseType = "POST_GRADUATE"
	CourseTypePhD          CourseType = "PHD"
)

// AllCourseTypes lists course types in display order.
func AllCourseTypes() []CourseType {
	return []CourseType{
		CourseTypeAcademic,
		CourseTypeDiploma,
		CourseTypeCertificate,
		CourseTypeDegree,
		CourseTypePostGraduate,
		CourseTypePhD,
	}
}

// Valid reports whether t is a known course type.
func (t CourseType) Valid() bool {
	for _, known := range AllCourseTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Label renders the type for people, e.g. "POST GRADUATE".
func (t CourseType) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// ParseCourseType accepts either the wire value or its label in any case.
func ParseCourseType(raw string) (CourseType, error) {
	t := CourseType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")))
	if !t.Valid() {
		return "", fmt.Errorf("unknown course type %q", raw)
	}
	return t, nil
}

// DurationUnit is the unit of a course duration.
type DurationUnit string

const (
	DurationMonth DurationUnit = "MONTH"
	DurationYear  DurationUnit = "YEAR"
)

// AllDurationUnits lists the supported duration units.
func AllDurationUnits() []DurationUnit {
	return []DurationUnit{DurationMonth, DurationYear}
}

// Valid reports whether u is a known unit.
func (u DurationUnit) Valid() bool {
	return u == DurationMonth || u == DurationYear
}

// ParseDurationUnit accepts MONTH/YEAR in any case.
func ParseDurationUnit(raw string) (DurationUnit, error) {
	u := DurationUnit(strings.ToUpper(strings.TrimSpace(raw)))
	if !u.Valid() {
		return "", fmt.Errorf("unknown duration unit %q", raw)
	}
	return u, nil
}

// Course is a catalogue course. Fees, Duration and DurationType are optional.
type Course struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Fees         *float64     `db:"fees" json:"fees,omitempty"`
	CourseType   CourseType   `db:"course_type" json:"courseType"`
	Duration     *float64     `db:"duration" json:"duration,omitempty"`
	DurationType DurationUnit `db:"duration_type" json:"durationType,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt,omitempty"`
}

// DurationLabel renders "2 YEAR", or "N/A" when either part is missing.
func (c Course) DurationLabel() string {
	if c.Duration == nil || *c.Duration <= 0 || c.DurationType == "" {
		return "N/A"
	}
	return fmt.Sprintf("%s %s", trimFloat(*c.Duration), c.DurationType)
}

// FeesLabel renders the fee amount, or "N/A" when unset.
func (c Course) FeesLabel() string {
	if c.Fees == nil || *c.Fees == 0 {
		return "N/A"
	}
	return trimFloat(*c.Fees)
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Name       string
	CourseType CourseType
	Skip       int
	Limit      int
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
