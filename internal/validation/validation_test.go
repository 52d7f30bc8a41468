package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/council-console/internal/dto"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

func TestCoursePayloadFieldMessages(t *testing.T) {
	v := New()

	err := v.Struct(dto.CoursePayload{Name: "   ", Fees: -5, CourseType: "BOOTCAMP", DurationType: "WEEK"}, "invalid course")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "name cannot be blank", appErr.Fields["name"])
	assert.Equal(t, "fees must be greater than 0", appErr.Fields["fees"])
	assert.Contains(t, appErr.Fields["courseType"], "ACADEMIC, DIPLOMA")
	assert.Contains(t, appErr.Fields["durationType"], "MONTH, YEAR")
}

func TestCoursePayloadValid(t *testing.T) {
	v := New()
	p := dto.DefaultCoursePayload()
	p.Name = "B.Sc Biology"
	p.Fees = 12000
	assert.NoError(t, v.Struct(p, "invalid course"))
}

func TestEmbeddedPayloadUsesJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(dto.UpdateSubjectRequest{SubjectPayload: dto.SubjectPayload{Name: "Hindi", Code: "HIN", CourseID: "c1", Type: "LANGUAGE"}}, "invalid subject")
	require.Error(t, err)
	fields := appErrors.FromError(err).Fields
	assert.Len(t, fields, 1)
	assert.Contains(t, fields, "id")
}

func TestEnquiryEmail(t *testing.T) {
	v := New()
	err := v.Struct(dto.EnquiryPayload{Name: "Asha", Email: "not-an-email", PhoneNumber: "9999999999", Description: "Admissions?"}, "invalid enquiry")
	require.Error(t, err)
	fields := appErrors.FromError(err).Fields
	assert.Equal(t, "email must be a valid email address", fields["email"])
}
