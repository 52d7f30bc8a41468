// Package validation wires go-playground/validator with the council's enum tags and
// English field messages keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/noah-isme/council-console/internal/models"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

const (
	notBlankTag     = "notblank"
	courseTypeTag   = "course_type"
	subjectTypeTag  = "subject_type"
	durationUnitTag = "duration_unit"
)

// Validator bundles the validator with its translator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator with the custom tags registered.
func New() *Validator {
	validate := validator.New()

	locale := en.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(courseTypeTag, func(fl validator.FieldLevel) bool {
		return models.CourseType(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation(subjectTypeTag, func(fl validator.FieldLevel) bool {
		return models.SubjectType(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation(durationUnitTag, func(fl validator.FieldLevel) bool {
		return models.DurationUnit(fl.Field().String()).Valid()
	})

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, courseTypeTag, subjectTypeTag, durationUnitTag} {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}

	return &Validator{validate: validate, translator: translator}
}

// Engine exposes the underlying validator for callers that validate single values.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Struct validates s and returns nil or a VALIDATION_ERROR carrying field messages.
func (v *Validator) Struct(s interface{}, message string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fields := v.Fields(err)
	if len(fields) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	return appErrors.Validation(message, fields)
}

// Fields flattens validator errors into field -> message. The first failing rule wins per field.
func (v *Validator) Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = fe.Translate(v.translator)
	}
	return fields
}

func notBlank(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case courseTypeTag:
		return fe.Field() + " must be one of " + joinValues(models.AllCourseTypes())
	case subjectTypeTag:
		return fe.Field() + " must be one of " + joinValues(models.AllSubjectTypes())
	case durationUnitTag:
		return fe.Field() + " must be one of " + joinValues(models.AllDurationUnits())
	default:
		return fe.Error()
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
