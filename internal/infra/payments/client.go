package payments

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v75"
	portalsession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/customer"
	"github.com/stripe/stripe-go/v75/price"
	"github.com/stripe/stripe-go/v75/product"
	"github.com/stripe/stripe-go/v75/subscription"
)

// Client is the slice of the Stripe API the app consumes. Handlers call the
// package-level Default so tests can swap in a fake without network access.
type Client interface {
	GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error)
	ListPricesForProduct(ctx context.Context, productID string) ([]*stripe.Price, error)
	ListProducts(ctx context.Context) ([]*stripe.Product, error)
	CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error)
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	CreateBillingPortalSession(ctx context.Context, params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error)
}

var Default Client = &stripeClient{}

// Every outbound call carries a bounded deadline; a timeout surfaces as an
// ordinary lookup error to the caller.
const callTimeout = 10 * time.Second

type stripeClient struct{}

func withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, callTimeout)
}

func (s *stripeClient) GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	return subscription.Get(id, params)
}

func (s *stripeClient) ListPricesForProduct(ctx context.Context, productID string) ([]*stripe.Price, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	params := &stripe.PriceListParams{Product: stripe.String(productID)}
	params.Context = ctx

	var prices []*stripe.Price
	it := price.List(params)
	for it.Next() {
		prices = append(prices, it.Price())
	}
	return prices, it.Err()
}

func (s *stripeClient) ListProducts(ctx context.Context) ([]*stripe.Product, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	params := &stripe.ProductListParams{}
	params.Active = stripe.Bool(true)
	params.Context = ctx

	var products []*stripe.Product
	it := product.List(params)
	for it.Next() {
		products = append(products, it.Product())
	}
	return products, it.Err()
}

func (s *stripeClient) CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	params.Context = ctx
	return customer.New(params)
}

func (s *stripeClient) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	params.Context = ctx
	return checkoutsession.New(params)
}

func (s *stripeClient) CreateBillingPortalSession(ctx context.Context, params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	ctx, cancel := withDeadline(ctx)
	defer cancel()

	params.Context = ctx
	return portalsession.New(params)
}
