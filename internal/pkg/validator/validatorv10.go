package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// patternRule is a string rule backed by a regular expression.
type patternRule struct {
	tag     string
	re      *regexp.Regexp
	message string
}

var patternRules = []patternRule{
	{
		// NIST 800-63B length bounds, 72 is the bcrypt input limit.
		tag:     "password",
		re:      regexp.MustCompile(`^.{8,72}$`),
		message: "{0} must be 8-72 characters",
	},
	{
		// Digits with an optional leading plus and common separators.
		// E.164 normalization happens when the SMS is sent.
		tag:     "phone",
		re:      regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{7,31}$`),
		message: "{0} must be a valid phone number",
	},
}

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError is a field-to-message map returned when validation fails.
//
// Keys are the json names of the fields, or the field name in snake_case when
// the struct carries no json tag.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerCustomRules(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	errV10 := make(V10ValidationError, len(validateErrs))
	for _, fe := range validateErrs {
		errV10[fe.Field()] = fe.Translate(v.translator)
	}

	return errV10
}

func fieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return lo.SnakeCase(fld.Name)
	default:
		return name
	}
}

func translateField(ut ut.Translator, fe validator.FieldError) string {
	t, err := ut.T(fe.Tag(), fe.Field())
	if err != nil {
		slog.Warn("failed to translate validation error", "tag", fe.Tag(), "field", fe.Field(), "error", err)
		return fe.Error()
	}

	return t
}

func registerCustomRules(validate *validator.Validate, enTrans ut.Translator) error {
	for _, rule := range patternRules {
		re := rule.re
		if err := validate.RegisterValidation(rule.tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && re.MatchString(s)
		}); err != nil {
			return fmt.Errorf("register rule %s: %w", rule.tag, err)
		}

		if err := registerMessage(validate, enTrans, rule.tag, rule.message); err != nil {
			return err
		}
	}

	return nil
}

func registerMessage(validate *validator.Validate, enTrans ut.Translator, tag, message string) error {
	err := validate.RegisterTranslation(tag, enTrans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, false)
		},
		translateField,
	)
	if err != nil {
		return fmt.Errorf("register message %s: %w", tag, err)
	}

	return nil
}
