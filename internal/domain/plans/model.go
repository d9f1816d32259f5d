package plans

type Plan struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Description     string
	StripeProductID string `gorm:"column:stripe_product_id;not null;uniqueIndex:idx_plans_stripe_product_id"`

	// FullAccess marks administrative tiers granted out of band. They have no
	// purchasable Stripe price and never appear in checkout.
	FullAccess bool `gorm:"not null;default:false"`
}
