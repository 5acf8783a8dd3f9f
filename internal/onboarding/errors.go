package onboarding

import (
	"errors"
	"fmt"

	"github.com/xavierca1/rewards-onboarding/internal/usecase"
)

var (
	ErrEmptyQuery           = errors.New("search query is required")
	ErrOwnershipNotAttested = errors.New("ownership attestation is required")
	ErrTermsNotAccepted     = errors.New("terms must be accepted")
	ErrActivationInProgress = errors.New("activation already in progress")
	ErrUpsellFailed         = errors.New("upsell checkout could not be started")
)

// ActivationFailedMessage is shown for every activation failure, whatever the step.
const ActivationFailedMessage = "Failed to activate your listing. Please try again."

const (
	StepRegister      = "register"
	StepAuthenticate  = "authenticate"
	StepCreateListing = "create_listing"
)

// ActivationStepFailedError names the first activation step that failed.
// Steps that completed before it are not rolled back.
type ActivationStepFailedError struct {
	Step string
	Err  error
}

func (e *ActivationStepFailedError) Error() string {
	return fmt.Sprintf("activation step %s failed: %v", e.Step, e.Err)
}

func (e *ActivationStepFailedError) Unwrap() error {
	return e.Err
}

// ValidationFailedError carries the account form problems back to the page.
type ValidationFailedError struct {
	Fields []usecase.ValidationError
}

func (e *ValidationFailedError) Error() string {
	msg := "invalid account details:"
	for _, f := range e.Fields {
		msg += " " + f.Error() + ";"
	}
	return msg
}
