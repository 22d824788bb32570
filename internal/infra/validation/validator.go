// Package validation validates request payloads with go-playground/validator.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"authflow/internal/domain/entity"
	domainerrors "authflow/internal/domain/errors"
	"authflow/internal/domain/service"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,19}$`)

// displayNames are the labels used in user-facing messages, keyed by json field name.
var displayNames = map[string]string{
	"id":          "Id",
	"first_name":  "First Name",
	"middle_name": "Middle Name",
	"last_name":   "Last Name",
	"email":       "Email",
	"phone":       "Phone Number",
	"country":     "Country",
	"province":    "Province",
	"city":        "City",
	"district":    "District",
	"password":    "Password",
	"code":        "Code",
}

// registrationForm is the schema of the completion payload.
type registrationForm struct {
	ExternalID string `json:"id" validate:"required,max=255"`
	FirstName  string `json:"first_name" validate:"required,min=3,max=50"`
	MiddleName string `json:"middle_name" validate:"omitempty,max=50"`
	LastName   string `json:"last_name" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone"`
	Country    string `json:"country" validate:"required,max=100"`
	Province   string `json:"province" validate:"required,max=100"`
	City       string `json:"city" validate:"required,max=100"`
	District   string `json:"district" validate:"required,max=100"`
	Password   string `json:"password" validate:"required,max=72"`
}

// Validator validates echo request structs and the registration completion payload.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator reporting fields by their json names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

var _ service.ProfileValidator = (*Validator)(nil)

// Validate implements echo.Validator. Failures are returned as a ValidationError.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fields := FieldErrors(err)
	if fields == nil {
		return errors.Wrap(domainerrors.ErrBadRequest, err.Error())
	}

	return domainerrors.NewValidationError(fields)
}

// ValidateRegistration returns nil when the payload is acceptable, otherwise one message per failing field.
func (v *Validator) ValidateRegistration(reg *entity.AccountRegistration) map[string]string {
	form := registrationForm{
		ExternalID: strings.TrimSpace(reg.ExternalID),
		FirstName:  strings.TrimSpace(reg.FirstName),
		MiddleName: strings.TrimSpace(reg.MiddleName),
		LastName:   strings.TrimSpace(reg.LastName),
		Email:      strings.TrimSpace(reg.Email),
		Phone:      strings.TrimSpace(reg.Phone),
		Country:    strings.TrimSpace(reg.Country),
		Province:   strings.TrimSpace(reg.Province),
		City:       strings.TrimSpace(reg.City),
		District:   strings.TrimSpace(reg.District),
		Password:   reg.Password,
	}

	if err := v.validate.Struct(form); err != nil {
		if fields := FieldErrors(err); fields != nil {
			return fields
		}

		return map[string]string{"form": err.Error()}
	}

	return nil
}

// FieldErrors converts validator errors into a json field -> message map.
// It returns nil when err is not a validation failure.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		// Keep the first failure per field.
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = message(fe)
		}
	}

	return fields
}

func message(fe validator.FieldError) string {
	name := displayName(fe.Field())

	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return fmt.Sprintf("%s must be longer than %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be shorter than %s", name, fe.Param())
	case "email", "phone":
		return fmt.Sprintf("Invalid %s format", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, fe.Param())
	default:
		return fmt.Sprintf("Invalid %s", name)
	}
}

func displayName(field string) string {
	if name, ok := displayNames[field]; ok {
		return name
	}

	return strings.ReplaceAll(field, "_", " ")
}
