package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const DefaultBaseURL = stripego.APIURL

// Client wraps the Stripe SDK behind the payment gateway contract.
type Client struct {
	api *client.API
}

// NewClient builds an SDK client bound to baseURL, so tests and stripe-mock can stand in for the API.
func NewClient(apiKey, baseURL string, logger logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cfg := &stripego.BackendConfig{
		URL:               stripego.String(baseURL),
		HTTPClient:        &http.Client{Timeout: 15 * time.Second},
		MaxNetworkRetries: stripego.Int64(1),
	}
	if logger != nil {
		cfg.LeveledLogger = logger.WithField("module", "stripe")
	} else {
		cfg.LeveledLogger = &stripego.LeveledLogger{Level: stripego.LevelNull}
	}

	backends := &stripego.Backends{
		API:     stripego.GetBackendWithConfig(stripego.APIBackend, cfg),
		Connect: stripego.GetBackendWithConfig(stripego.ConnectBackend, cfg),
		Uploads: stripego.GetBackendWithConfig(stripego.UploadsBackend, cfg),
	}

	return &Client{api: client.New(apiKey, backends)}
}

// CreateCustomer returns the Stripe customer id (cus_xxx).
func (c *Client) CreateCustomer(ctx context.Context, input CreateCustomerInput) (string, error) {
	params := &stripego.CustomerParams{
		Email: stripego.String(input.Email),
		Name:  stripego.String(input.Name),
	}
	params.Context = ctx
	params.AddMetadata("userId", strconv.FormatInt(input.UserID, 10))

	customer, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe customer: %w", describe(err))
	}
	return customer.ID, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSession, error) {
	productData := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripego.String(input.ProductName),
	}
	if input.ProductDescription != "" {
		productData.Description = stripego.String(input.ProductDescription)
	}

	params := &stripego.CheckoutSessionParams{
		Mode:               stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		Customer:           stripego.String(input.CustomerID),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems: []*stripego.CheckoutSessionLineItemParams{{
			Quantity: stripego.Int64(1),
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String(input.Currency),
				UnitAmount:  stripego.Int64(input.UnitAmount),
				ProductData: productData,
				Recurring: &stripego.CheckoutSessionLineItemPriceDataRecurringParams{
					Interval: stripego.String(input.Interval),
				},
			},
		}},
		SubscriptionData: &stripego.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripego.Int64(int64(input.TrialPeriodDays)),
			TrialSettings: &stripego.CheckoutSessionSubscriptionDataTrialSettingsParams{
				EndBehavior: &stripego.CheckoutSessionSubscriptionDataTrialSettingsEndBehaviorParams{
					MissingPaymentMethod: stripego.String("cancel"),
				},
			},
			Metadata: map[string]string{"userId": strconv.FormatInt(input.UserID, 10)},
		},
		SuccessURL: stripego.String(input.SuccessURL),
		CancelURL:  stripego.String(input.CancelURL),
	}
	params.Context = ctx

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", describe(err))
	}
	if session.URL == "" {
		return nil, fmt.Errorf("checkout session %s has no url", session.ID)
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// describe keeps the API message readable while preserving the typed error.
func describe(err error) error {
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("stripe status %d: %s: %w", stripeErr.HTTPStatusCode, stripeErr.Msg, err)
	}
	return err
}
