package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"tratador/pkg/logger"
)

// ProcessRequest carries the form fields of an upload, already parsed.
type ProcessRequest struct {
	Filename  string `json:"filename" validate:"required,max=255"`
	Label     string `json:"etiqueta_nome" validate:"required,max=100"`
	GroupSize int    `json:"num_grupos"`
	WarmUp    bool   `json:"aquecimento"`
	RequestID string `json:"-"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type RequestValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRequestValidator(log *logger.Logger) *RequestValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterStructValidation(validateGroupSize, ProcessRequest{})

	log.Debug("Request validator initialized successfully")

	return &RequestValidator{
		validate: v,
		logger:   log,
	}
}

// validateGroupSize requires a positive chunk size unless warm-up tiers
// decide the group sizes.
func validateGroupSize(sl validator.StructLevel) {
	req := sl.Current().Interface().(ProcessRequest)
	if !req.WarmUp && req.GroupSize <= 0 {
		sl.ReportError(req.GroupSize, "num_grupos", "GroupSize", "gt", "0")
	}
}

func (v *RequestValidator) Validate(req *ProcessRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *RequestValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be a positive integer when aquecimento is off", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
