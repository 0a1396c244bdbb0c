package billing

import (
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

// StripeProvider implements Provider against the Stripe API through an
// explicitly constructed client.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	backends := stripe.NewBackends(httpClient)
	return &StripeProvider{api: client.New(secretKey, backends)}
}

func (p *StripeProvider) PauseCollection(subscriptionRef string, resumeAt time.Time) error {
	params := &stripe.SubscriptionParams{
		PauseCollection: &stripe.SubscriptionPauseCollectionParams{
			Behavior:  stripe.String(string(stripe.SubscriptionPauseCollectionBehaviorKeepAsDraft)),
			ResumesAt: stripe.Int64(resumeAt.Unix()),
		},
	}
	if _, err := p.api.Subscriptions.Update(subscriptionRef, params); err != nil {
		return &Error{Op: "pause collection", Err: err}
	}
	return nil
}

func (p *StripeProvider) CancelAtPeriodEnd(subscriptionRef, reason string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	if reason != "" {
		params.AddMetadata("cancellation_reason", reason)
	}
	if _, err := p.api.Subscriptions.Update(subscriptionRef, params); err != nil {
		return &Error{Op: "cancel at period end", Err: err}
	}
	return nil
}

func (p *StripeProvider) ClearCancelAtPeriodEnd(subscriptionRef string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(false),
	}
	if _, err := p.api.Subscriptions.Update(subscriptionRef, params); err != nil {
		return &Error{Op: "clear cancel at period end", Err: err}
	}
	return nil
}
