package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/council-console/internal/dto"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

func validEnquiry() dto.EnquiryPayload {
	return dto.EnquiryPayload{
		Name:        "Asha Rao",
		Email:       "asha@example.com",
		PhoneNumber: "+91 98765 43210",
		Title:       "Admissions",
		Description: "When do admissions for the diploma open?",
	}
}

func TestEnquirySubmitsAndClears(t *testing.T) {
	api := &fakeAPI{}
	rec := &Recorder{}
	form := NewEnquiryForm(api, Options{Notifier: rec})

	form.Set(validEnquiry())
	require.NoError(t, form.Send(context.Background()))
	require.Len(t, api.enquiries, 1)
	assert.Equal(t, "asha@example.com", api.enquiries[0].Email)
	assert.Equal(t, dto.EnquiryPayload{}, form.Values())
	note, _ := rec.Last()
	assert.Equal(t, LevelSuccess, note.Level)
}

func TestEnquiryValidationStaysLocal(t *testing.T) {
	api := &fakeAPI{}
	rec := &Recorder{}
	form := NewEnquiryForm(api, Options{Notifier: rec})

	bad := validEnquiry()
	bad.Email = "asha-at-example"
	form.Set(bad)
	err := form.Send(context.Background())
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "email")
	assert.Zero(t, api.callCount())
	assert.Empty(t, rec.All())
	assert.Equal(t, bad, form.Values())
}

func TestEnquiryFailureKeepsInput(t *testing.T) {
	api := &fakeAPI{failWrite: appErrors.Clone(appErrors.ErrTooManyRequests, "slow down")}
	rec := &Recorder{}
	form := NewEnquiryForm(api, Options{Notifier: rec})

	form.Set(validEnquiry())
	require.Error(t, form.Send(context.Background()))
	assert.Equal(t, validEnquiry(), form.Values())
	note, _ := rec.Last()
	assert.Equal(t, "Failed to submit enquiry. Please try again.", note.Message)
}
