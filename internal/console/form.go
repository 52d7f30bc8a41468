package console

import (
	"context"
	"errors"
	"sync"

	"github.com/noah-isme/council-console/internal/validation"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

// ErrSubmitInFlight is returned when a form is submitted while a previous submit is pending.
var ErrSubmitInFlight = errors.New("form submission already in progress")

// Mode is what the next submit does.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// pastTense is used in notifications: "created", "updated".
func (m Mode) pastTense() string { return m.String() + "d" }

// CheckFunc runs after tag validation and returns field messages for failures.
type CheckFunc[P any] func(P) map[string]string

// SubmitFunc sends the form to the remote side. id is empty in create mode.
type SubmitFunc[P any] func(ctx context.Context, mode Mode, id string, values P) error

// Form binds a payload struct to validation and create/update intent.
type Form[P any] struct {
	mu         sync.Mutex
	defaults   func() P
	values     P
	editID     string
	submitting bool
	validator  *validation.Validator
	message    string
	checks     []CheckFunc[P]
}

// NewForm creates a form reset to defaults(). message heads validation errors.
func NewForm[P any](defaults func() P, validator *validation.Validator, message string) *Form[P] {
	if defaults == nil {
		defaults = func() P {
			var zero P
			return zero
		}
	}
	if validator == nil {
		validator = validation.New()
	}
	return &Form[P]{defaults: defaults, values: defaults(), validator: validator, message: message}
}

// AddCheck registers an entity-specific rule.
func (f *Form[P]) AddCheck(check CheckFunc[P]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks = append(f.checks, check)
}

func (f *Form[P]) Values() P {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Set replaces all field values.
func (f *Form[P]) Set(values P) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = values
}

// Update edits field values in place.
func (f *Form[P]) Update(fn func(*P)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.values)
}

// Edit selects id as the edit target and pre-populates the fields. Any previous
// target is replaced.
func (f *Form[P]) Edit(id string, values P) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.editID = id
	f.values = values
}

// Cancel leaves edit mode without submitting.
func (f *Form[P]) Cancel() {
	f.Reset()
}

// Reset clears the edit target and restores defaults.
func (f *Form[P]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.editID = ""
	f.values = f.defaults()
}

func (f *Form[P]) EditID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editID
}

func (f *Form[P]) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode()
}

func (f *Form[P]) mode() Mode {
	if f.editID != "" {
		return ModeUpdate
	}
	return ModeCreate
}

// Submitting reports whether a submit is pending.
func (f *Form[P]) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Validate checks the current values.
func (f *Form[P]) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validate(f.values)
}

func (f *Form[P]) validate(values P) error {
	err := f.validator.Struct(values, f.message)
	if err != nil {
		return err
	}
	fields := map[string]string{}
	for _, check := range f.checks {
		for k, v := range check(values) {
			if _, seen := fields[k]; !seen {
				fields[k] = v
			}
		}
	}
	if len(fields) > 0 {
		return appErrors.Validation(f.message, fields)
	}
	return nil
}

// Submit validates and hands the values to fn. Invalid values never reach fn.
// On success the form returns to create mode with default values; on failure
// values and edit target are kept.
func (f *Form[P]) Submit(ctx context.Context, fn SubmitFunc[P]) (Mode, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return f.Mode(), ErrSubmitInFlight
	}
	mode, id, values := f.mode(), f.editID, f.values
	if err := f.validate(values); err != nil {
		f.mu.Unlock()
		return mode, err
	}
	f.submitting = true
	f.mu.Unlock()

	err := fn(ctx, mode, id, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		return mode, err
	}
	if f.editID == id {
		f.editID = ""
		f.values = f.defaults()
	}
	return mode, nil
}
