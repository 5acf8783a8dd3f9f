package usecase

import "github.com/xavierca1/rewards-onboarding/internal/entity"

type RegisterUserInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=200"`
}

type AuthenticateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthenticateUserOutput struct {
	User    *entity.User
	Session *entity.Session
}

// SubmitIntakeInput is the manual listing form, with a category chosen by the user.
type SubmitIntakeInput struct {
	BusinessName string `json:"businessName" validate:"required,max=255"`
	BusinessType string `json:"businessType" validate:"required"`
	Address      string `json:"address" validate:"required"`
	Phone        string `json:"phone" validate:"max=50"`
	Email        string `json:"email" validate:"omitempty,email,max=255"`
	Website      string `json:"website" validate:"max=255"`
	Description  string `json:"description"`
}

type ListingStatusOutput struct {
	ID           int64                `json:"id"`
	BusinessName string               `json:"businessName"`
	Status       entity.ListingStatus `json:"status"`
	IsPremium    bool                 `json:"isPremium"`
}

type CreateCheckoutOutput struct {
	SessionID  string `json:"sessionId"`
	SessionURL string `json:"sessionUrl"`
}
