package stripewebhooks

import (
	"log"

	"coaching-app/database"
	"coaching-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

// handleInvoicePaymentFailed revokes access for the current period. Plan and
// period bounds are left untouched so the user lands in the suspended state
// until the period lapses or a later invoice.paid restores access.
func handleInvoicePaymentFailed(c *gin.Context, eventType string, inv *stripe.Invoice) error {
	customerID := ""
	if inv.Customer != nil {
		customerID = inv.Customer.ID
	}

	var user users.User
	if customerID != "" {
		database.DB.Where("stripe_customer_id = ?", customerID).First(&user)
	}
	if user.ID == 0 {
		log.Printf("[Webhook Error](%s) User not found with Stripe customer id: %s", eventType, customerID)
		return nil
	}

	return database.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Update("subscription_active", false).Error
}
