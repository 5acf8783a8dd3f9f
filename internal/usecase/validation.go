package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator checks inputs against their struct tags and normalizes phone numbers
// for a default region.
type Validator struct {
	validate *validator.Validate
	region   string
}

func NewValidator(phoneRegion string) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if phoneRegion == "" {
		phoneRegion = "US"
	}
	return &Validator{validate: v, region: strings.ToUpper(phoneRegion)}
}

func (v *Validator) Struct(s any) []ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "input", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is invalid"
	case "min":
		return fmt.Sprintf("must have at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "oneof":
		return "is not an accepted value"
	default:
		return "is invalid"
	}
}

// NormalizePhone parses a number for the configured region. Valid numbers are
// returned in E.164; parseable but unverifiable numbers are returned trimmed.
func (v *Validator) NormalizePhone(number string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", nil
	}

	parsed, err := libphonenumber.Parse(number, v.region)
	if err != nil {
		return "", err
	}
	if libphonenumber.IsValidNumber(parsed) {
		return libphonenumber.Format(parsed, libphonenumber.E164), nil
	}
	return number, nil
}

// ValidateAccountDraft checks the account step form and returns a normalized copy.
func (v *Validator) ValidateAccountDraft(d entity.AccountDraft) (entity.AccountDraft, []ValidationError) {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Website = strings.TrimSpace(d.Website)

	errs := v.Struct(d)

	phone, err := v.NormalizePhone(d.MobileNumber)
	if err != nil {
		errs = append(errs, ValidationError{"mobileNumber", "must be a valid phone number"})
	} else {
		d.MobileNumber = phone
	}

	return d, errs
}

func (v *Validator) ValidateRegisterInput(input RegisterUserInput) []ValidationError {
	return v.Struct(input)
}

func (v *Validator) ValidateListingDraft(d entity.ListingDraft) []ValidationError {
	return v.Struct(d)
}

func (v *Validator) ValidateIntakeInput(input SubmitIntakeInput) []ValidationError {
	errs := v.Struct(input)
	if input.BusinessType != "" && !entity.IsBusinessCategory(input.BusinessType) {
		errs = append(errs, ValidationError{"businessType", "is not an accepted category"})
	}
	return errs
}
