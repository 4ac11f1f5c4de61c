// Package validation checks user input against the struct tags declared on
// the domain input types and reports failures in Spanish.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
	"github.com/shopspring/decimal"
)

// custom validation tags & texts
const (
	notBlankTag  = "notblank"
	notBlankText = "{0} no puede estar vacío"
)

// Validator wraps a configured validator and its Spanish translator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator with Spanish messages, JSON field names and
// decimal support.
func New() (*Validator, error) {
	validate := validator.New()

	locale := es.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("es")
	if err := es_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, fmt.Errorf("registering translations: %w", err)
	}

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Costs are compared as numbers.
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	if err := validate.RegisterValidation(notBlankTag, notBlank); err != nil {
		return nil, fmt.Errorf("registering %s: %w", notBlankTag, err)
	}
	err := validate.RegisterTranslation(
		notBlankTag, translator,
		func(t ut.Translator) error { return t.Add(notBlankTag, notBlankText, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(notBlankTag, fe.Field())
			return s
		},
	)
	if err != nil {
		return nil, fmt.Errorf("registering %s translation: %w", notBlankTag, err)
	}

	return &Validator{validate: validate, translator: translator}, nil
}

// Struct validates s. Field failures come back as *domain.ValidationError.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating input: %w", err)
	}
	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fieldPath(fe),
			Message: fe.Translate(v.translator),
		})
	}
	return out
}

// Var validates a single value against tag.
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// fieldPath drops the root struct name from the namespace, keeping nested
// paths like "certifications[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}
