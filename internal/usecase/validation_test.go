package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

func TestValidateAccountDraft(t *testing.T) {
	v := NewValidator("US")

	t.Run("normalizes a valid draft", func(t *testing.T) {
		d, errs := v.ValidateAccountDraft(entity.AccountDraft{
			FullName:     " Ann Lee ",
			Email:        " ANN@Example.com",
			MobileNumber: "(650) 253-0000",
			Password:     "s3cretpass",
		})

		assert.Empty(t, errs)
		assert.Equal(t, "Ann Lee", d.FullName)
		assert.Equal(t, "ann@example.com", d.Email)
		assert.Equal(t, "+16502530000", d.MobileNumber)
	})

	t.Run("keeps short local numbers as entered", func(t *testing.T) {
		d, errs := v.ValidateAccountDraft(entity.AccountDraft{
			FullName: "Ann", Email: "a@b.com", MobileNumber: "555-1111", Password: "s3cretpass",
		})

		assert.Empty(t, errs)
		assert.Equal(t, "555-1111", d.MobileNumber)
	})

	t.Run("reports each bad field", func(t *testing.T) {
		_, errs := v.ValidateAccountDraft(entity.AccountDraft{
			FullName: "", Email: "bad", MobileNumber: "call me", Password: "123",
		})

		got := map[string]string{}
		for _, e := range errs {
			got[e.Field] = e.Message
		}
		assert.Equal(t, "is required", got["fullName"])
		assert.Equal(t, "is invalid", got["email"])
		assert.Equal(t, "must have at least 8 characters", got["password"])
		assert.Equal(t, "must be a valid phone number", got["mobileNumber"])
	})
}

func TestValidateIntakeInputCategory(t *testing.T) {
	v := NewValidator("")

	assert.Empty(t, v.ValidateIntakeInput(SubmitIntakeInput{BusinessName: "A", BusinessType: "Restaurant", Address: "1 St"}))
	errs := v.ValidateIntakeInput(SubmitIntakeInput{BusinessName: "A", BusinessType: "Casino", Address: "1 St"})
	assert.Equal(t, []ValidationError{{"businessType", "is not an accepted category"}}, errs)
}
