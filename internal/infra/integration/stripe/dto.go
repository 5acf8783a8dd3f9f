package stripe

type CreateCustomerInput struct {
	Email  string
	Name   string
	UserID int64
}

// CheckoutSessionInput describes a subscription-mode hosted checkout.
type CheckoutSessionInput struct {
	CustomerID         string
	UserID             int64
	ProductName        string
	ProductDescription string
	Currency           string
	UnitAmount         int64
	Interval           string
	TrialPeriodDays    int
	SuccessURL         string
	CancelURL          string
}

type CheckoutSession struct {
	ID  string
	URL string
}
