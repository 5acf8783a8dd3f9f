package entity

// CandidateBusiness is an unverified match returned by the place directory.
type CandidateBusiness struct {
	PlaceID   string   `json:"placeId"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	PhotoURL  string   `json:"photoUrl,omitempty"`
}

// VerifiedBusiness is a candidate the visitor explicitly confirmed as their own.
type VerifiedBusiness struct {
	CandidateBusiness
}

// Verify promotes a candidate. It is the only way to build a VerifiedBusiness.
func (c CandidateBusiness) Verify() VerifiedBusiness {
	return VerifiedBusiness{CandidateBusiness: c}
}

// AccountDraft holds the account step form until activation.
type AccountDraft struct {
	FullName             string `json:"fullName" validate:"required,min=2,max=200"`
	Email                string `json:"email" validate:"required,email,max=255"`
	MobileNumber         string `json:"mobileNumber,omitempty" validate:"omitempty,max=50"`
	Password             string `json:"password" validate:"required,min=8,max=72"`
	Website              string `json:"website,omitempty" validate:"omitempty,max=255"`
	OwnershipAttestation bool   `json:"ownershipAttestation"`
	SMSOptIn             bool   `json:"smsOptIn"`
}

// Redacted returns a copy safe to echo back to the client.
func (d AccountDraft) Redacted() AccountDraft {
	d.Password = ""
	return d
}
