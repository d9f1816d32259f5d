package testutil

import (
	"context"
	"fmt"

	"coaching-app/internal/infra/drm"
	"coaching-app/internal/infra/payments"

	"github.com/stripe/stripe-go/v75"
)

// FakeStripe is an in-memory payments.Client that records every call.
type FakeStripe struct {
	Subscriptions map[string]*stripe.Subscription
	Prices        map[string][]*stripe.Price
	Products      []*stripe.Product
	CheckoutURL   string

	GetSubscriptionCalls int
	CreateCustomerCalls  int
	CheckoutCalls        int
}

var _ payments.Client = (*FakeStripe)(nil)

func NewFakeStripe() *FakeStripe {
	return &FakeStripe{
		Subscriptions: map[string]*stripe.Subscription{},
		Prices:        map[string][]*stripe.Price{},
		CheckoutURL:   "https://checkout.stripe.test/session",
	}
}

// InstallFakeStripe swaps payments.Default for the fake for the duration of
// the test.
func InstallFakeStripe(t interface{ Cleanup(func()) }) *FakeStripe {
	fake := NewFakeStripe()
	prev := payments.Default
	payments.Default = fake
	t.Cleanup(func() { payments.Default = prev })
	return fake
}

func (f *FakeStripe) GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	f.GetSubscriptionCalls++
	sub, ok := f.Subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("no such subscription: %s", id)
	}
	return sub, nil
}

func (f *FakeStripe) ListPricesForProduct(ctx context.Context, productID string) ([]*stripe.Price, error) {
	return f.Prices[productID], nil
}

func (f *FakeStripe) ListProducts(ctx context.Context) ([]*stripe.Product, error) {
	return f.Products, nil
}

func (f *FakeStripe) CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error) {
	f.CreateCustomerCalls++
	return &stripe.Customer{ID: fmt.Sprintf("cus_fake_%d", f.CreateCustomerCalls)}, nil
}

func (f *FakeStripe) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.CheckoutCalls++
	return &stripe.CheckoutSession{URL: f.CheckoutURL}, nil
}

func (f *FakeStripe) CreateBillingPortalSession(ctx context.Context, params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	return &stripe.BillingPortalSession{URL: "https://billing.stripe.test/portal"}, nil
}

// FakeDRM issues canned playback sessions.
type FakeDRM struct {
	Calls []string
	Err   error
}

var _ drm.Client = (*FakeDRM)(nil)

func (f *FakeDRM) IssuePlaybackSession(ctx context.Context, videoID string) (*drm.PlaybackSession, error) {
	f.Calls = append(f.Calls, videoID)
	if f.Err != nil {
		return nil, f.Err
	}
	return &drm.PlaybackSession{
		OTP:          "otp-" + videoID,
		PlaybackInfo: "playback-" + videoID,
	}, nil
}
