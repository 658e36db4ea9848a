package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/sscott1990/contests-unlimited-sub000/config"
	"github.com/sscott1990/contests-unlimited-sub000/model"
)

// StripeGateway implements Gateway on the Stripe client library.
type StripeGateway struct {
	price         string
	webhookSecret string
}

func NewStripe(cfg config.Config) *StripeGateway {
	stripe.Key = cfg.StripeSecretKey
	return &StripeGateway{
		price:         cfg.StripePrice,
		webhookSecret: cfg.StripeWebhookSecret,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(g.price),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return s.ID, nil
}

func (g *StripeGateway) VerifyWebhook(rawBody []byte, sigHeader string) (Event, error) {
	// Verification runs over the raw bytes; the body must not be parsed
	// or rewritten before this point. API version drift is tolerated, the
	// signature is not.
	ev, err := webhook.ConstructEventWithOptions(rawBody, sigHeader, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s", ErrSignature, err)
	}

	out := Event{ID: ev.ID, Type: string(ev.Type)}
	if out.Type != EventCheckoutCompleted {
		return out, nil
	}

	var cs stripe.CheckoutSession
	err = json.Unmarshal(ev.Data.Raw, &cs)
	if err != nil {
		return Event{}, fmt.Errorf("stripe: decode checkout session: %w", err)
	}

	email := cs.CustomerEmail
	if cs.CustomerDetails != nil && cs.CustomerDetails.Email != "" {
		email = cs.CustomerDetails.Email
	}

	out.Session = model.PaymentSession{
		ID:            cs.ID,
		PaymentStatus: string(cs.PaymentStatus),
		CustomerEmail: email,
		Timestamp:     time.Now(),
	}
	return out, nil
}
