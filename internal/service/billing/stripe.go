package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeCharger implements the Charger interface for Stripe
type StripeCharger struct {
	secretKey string
}

// NewStripeCharger creates a new Stripe charger
func NewStripeCharger(secretKey string) *StripeCharger {
	stripe.Key = secretKey
	return &StripeCharger{secretKey: secretKey}
}

// Charge creates and confirms a payment intent for a metered usage charge
func (c *StripeCharger) Charge(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	if metadata != nil {
		params.Metadata = make(map[string]string)
		for k, v := range metadata {
			params.Metadata[k] = v
		}
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe error: %w", err)
	}

	return pi.ID, nil
}
