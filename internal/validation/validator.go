package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"
)

const carSizeTag = "car_size"

type violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PayloadError lists fields of request payload which failed validation
type PayloadError struct {
	violations []violation
}

func (e *PayloadError) Error() string {
	msgs := make([]string, 0, len(e.violations))
	for _, v := range e.violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "\n")
}

func (e *PayloadError) Violation(v violation) {
	e.violations = append(e.violations, v)
}

func (e *PayloadError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Errors []violation `json:"errors"`
	}{
		Errors: e.violations,
	})
}

type EchoValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

// New builds validator with english messages, json names are reported as field names
func New() (*EchoValidator, error) {
	enLocale := en.New()
	trans, ok := ut.New(enLocale, enLocale).GetTranslator("en")
	if !ok {
		return nil, errors.New("missing en translations")
	}

	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("failed to register translations - %w", err)
	}

	if err := v.RegisterValidation(carSizeTag, func(fl validator.FieldLevel) bool {
		return model.CarSize(fl.Field().String()).Valid()
	}); err != nil {
		return nil, fmt.Errorf("failed to register %s validation - %w", carSizeTag, err)
	}

	err := v.RegisterTranslation(carSizeTag, trans, func(ut ut.Translator) error {
		return ut.Add(carSizeTag, "{0} must be either small or bakkie_suv", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		msg, _ := ut.T(carSizeTag, fe.Field())
		return msg
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register %s translation - %w", carSizeTag, err)
	}

	return Echo(v, trans), nil
}

func Echo(validator *validator.Validate, translator ut.Translator) *EchoValidator {
	return &EchoValidator{
		validator:  validator,
		translator: translator,
	}
}

func (v *EchoValidator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return v.payloadError(ve)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (v *EchoValidator) payloadError(ve validator.ValidationErrors) error {
	pldErr := &PayloadError{violations: make([]violation, 0, len(ve))}
	for _, e := range ve {
		pldErr.Violation(violation{
			Field:   e.Field(),
			Message: e.Translate(v.translator),
		})
	}
	return pldErr
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "param"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}
