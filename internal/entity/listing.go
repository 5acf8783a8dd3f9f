package entity

import (
	"context"
	"time"
)

type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusPending ListingStatus = "pending"
)

// GeneralBusinessType is the category written for listings activated from a verified place.
const GeneralBusinessType = "General Business"

// BusinessCategories is the fixed list offered by the manual intake form.
var BusinessCategories = []string{
	"Restaurant",
	"Retail Store",
	"Service Provider",
	"Healthcare",
	"Beauty & Wellness",
	"Automotive",
	"Real Estate",
	"Professional Services",
	"Entertainment",
	"Other",
}

func IsBusinessCategory(category string) bool {
	for _, c := range BusinessCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Listing struct {
	ID              int64         `json:"id"`
	OwnerUserID     int64         `json:"ownerUserId"`
	BusinessName    string        `json:"businessName"`
	BusinessType    string        `json:"businessType"`
	Address         string        `json:"address"`
	Phone           string        `json:"phone"`
	Email           string        `json:"email"`
	Website         string        `json:"website"`
	Description     string        `json:"description"`
	ExternalPlaceID string        `json:"externalPlaceId,omitempty"`
	Latitude        *float64      `json:"latitude,omitempty"`
	Longitude       *float64      `json:"longitude,omitempty"`
	Status          ListingStatus `json:"status"`
	IsPremium       bool          `json:"isPremium"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// ListingDraft is the field set accepted by the listing-creation endpoint.
type ListingDraft struct {
	BusinessName    string   `json:"businessName" validate:"required,max=255"`
	BusinessType    string   `json:"businessType" validate:"required,max=255"`
	Address         string   `json:"address" validate:"required"`
	Phone           string   `json:"phone" validate:"max=50"`
	Email           string   `json:"email" validate:"omitempty,email,max=255"`
	Website         string   `json:"website" validate:"max=255"`
	Description     string   `json:"description"`
	ExternalPlaceID string   `json:"googlePlaceId,omitempty" validate:"max=255"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

// NewListing builds an active, free listing owned by userID.
func NewListing(userID int64, d ListingDraft) *Listing {
	now := time.Now()
	return &Listing{
		OwnerUserID:     userID,
		BusinessName:    d.BusinessName,
		BusinessType:    d.BusinessType,
		Address:         d.Address,
		Phone:           d.Phone,
		Email:           d.Email,
		Website:         d.Website,
		Description:     d.Description,
		ExternalPlaceID: d.ExternalPlaceID,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		Status:          ListingStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

type ListingRepositoryInterface interface {
	Create(ctx context.Context, l *Listing) error
	FindByID(ctx context.Context, id int64) (*Listing, error)
}
