package console

import (
	"context"
	"errors"

	"github.com/noah-isme/council-console/internal/dto"
)

// EnquiryForm is the public contact form. It clears on success and keeps the
// visitor's input on failure.
type EnquiryForm struct {
	*Form[dto.EnquiryPayload]
	api      EnquiryAPI
	notifier Notifier
}

// NewEnquiryForm builds the contact form.
func NewEnquiryForm(api EnquiryAPI, opts Options) *EnquiryForm {
	opts = opts.withDefaults()
	return &EnquiryForm{
		Form:     NewForm[dto.EnquiryPayload](nil, opts.Validator, "invalid enquiry"),
		api:      api,
		notifier: opts.Notifier,
	}
}

// Send validates and submits the enquiry.
func (f *EnquiryForm) Send(ctx context.Context) error {
	sent := false
	_, err := f.Submit(ctx, func(ctx context.Context, _ Mode, _ string, values dto.EnquiryPayload) error {
		sent = true
		return f.api.CreateEnquiry(ctx, values)
	})
	switch {
	case err == nil:
		f.notifier.Notify(successf("Thank you! Your enquiry has been submitted."))
	case sent && !errors.Is(err, ErrSubmitInFlight):
		f.notifier.Notify(failure(err, "Failed to submit enquiry. Please try again."))
	}
	return err
}
