package users

import (
	"coaching-app/internal/domain/plans"
	"time"
)

type User struct {
	ID           uint    `gorm:"primaryKey"`
	Username     string  `gorm:"not null;uniqueIndex:idx_users_username"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Realname     string
	Password     *string `gorm:"" json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string
	Confirmed    bool
	Blocked      *bool

	StripeCustomerID *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id"`

	SubscriptionID     *uint       `gorm:"column:subscription_id"`
	Subscription       *plans.Plan `gorm:"foreignKey:SubscriptionID"`
	SubscriptionStart  *time.Time
	SubscriptionEnd    *time.Time
	SubscriptionActive *bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocked treats the unset flag as not blocked.
func (u *User) IsBlocked() bool {
	return u.Blocked != nil && *u.Blocked
}

// HasSubscriptionActive treats the unset flag as inactive. The flag is only
// meaningful when Subscription and SubscriptionEnd are both set; a user with
// no plan is never subscribed, not inactive.
func (u *User) HasSubscriptionActive() bool {
	return u.SubscriptionActive != nil && *u.SubscriptionActive
}
