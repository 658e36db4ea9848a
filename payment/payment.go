// Package payment adapts the hosted payment provider: checkout session
// creation and webhook verification.
package payment

import (
	"context"
	"errors"

	"github.com/sscott1990/contests-unlimited-sub000/model"
)

const EventCheckoutCompleted = "checkout.session.completed"

// ErrSignature: the webhook signature does not match the raw request body.
// The HTTP layer answers 400 and applies no side effect.
var ErrSignature = errors.New("payment: webhook signature mismatch")

// Event is a verified provider notification. Session is populated for
// checkout completion events.
type Event struct {
	ID      string
	Type    string
	Session model.PaymentSession
}

type Gateway interface {
	// CreateCheckoutSession opens a hosted checkout and returns the session
	// id, later the sole admission credential for one submission.
	CreateCheckoutSession(ctx context.Context, successURL, cancelURL string) (string, error)

	// VerifyWebhook checks the provider signature over the exact raw body
	// and decodes the event. It fails closed: any verification problem is
	// reported as ErrSignature and no event is returned.
	VerifyWebhook(rawBody []byte, sigHeader string) (Event, error)
}
