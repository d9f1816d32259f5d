package stripewebhooks

import (
	"log"
	"time"

	"coaching-app/database"
	"coaching-app/internal/domain/billing"
	"coaching-app/internal/domain/plans"
	"coaching-app/internal/domain/users"
	"coaching-app/internal/infra/payments"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm/clause"
)

// handleInvoicePaid grants access for the new billing period. The user,
// provider subscription and local plan must all resolve before anything is
// written; any miss is logged and the whole transition is skipped.
func handleInvoicePaid(c *gin.Context, eventType string, inv *stripe.Invoice) error {
	customerID := ""
	if inv.Customer != nil {
		customerID = inv.Customer.ID
	}

	var user users.User
	if customerID != "" {
		database.DB.Where("stripe_customer_id = ?", customerID).First(&user)
	}

	var sub *stripe.Subscription
	if inv.Subscription != nil && inv.Subscription.ID != "" {
		var err error
		sub, err = payments.Default.GetSubscription(c.Request.Context(), inv.Subscription.ID)
		if err != nil {
			log.Printf("[Webhook Error](%s) Failed to fetch Stripe subscription %s: %v", eventType, inv.Subscription.ID, err)
			sub = nil
		}
	}

	productID := ""
	if sub != nil && sub.Items != nil && len(sub.Items.Data) > 0 &&
		sub.Items.Data[0].Price != nil && sub.Items.Data[0].Price.Product != nil {
		productID = sub.Items.Data[0].Price.Product.ID
	}

	var plan plans.Plan
	if productID != "" {
		database.DB.Where("stripe_product_id = ?", productID).First(&plan)
	}

	if user.ID == 0 || sub == nil || plan.ID == 0 {
		if user.ID == 0 {
			log.Printf("[Webhook Error](%s) User not found with Stripe customer id: %s", eventType, customerID)
		}
		if sub == nil {
			subID := ""
			if inv.Subscription != nil {
				subID = inv.Subscription.ID
			}
			log.Printf("[Webhook Error](%s) Stripe subscription not found with: %s", eventType, subID)
		}
		if plan.ID == 0 {
			log.Printf("[Webhook Error](%s) Plan not found with: %s", eventType, productID)
		}
		return nil
	}

	start := time.Unix(sub.StartDate, 0)
	end := time.Unix(sub.CurrentPeriodEnd, 0)

	// Partial update: the password column is never part of this write.
	updates := map[string]interface{}{
		"subscription_id":     plan.ID,
		"subscription_start":  start,
		"subscription_end":    end,
		"subscription_active": true,
	}

	if err := database.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Updates(updates).Error; err != nil {
		return err
	}

	recordPayment(&user, &plan, inv)
	return nil
}

func recordPayment(user *users.User, plan *plans.Plan, inv *stripe.Invoice) {
	if inv.ID == "" {
		return
	}

	payment := billing.Payment{
		UserID:          user.ID,
		PlanID:          &plan.ID,
		StripeInvoiceID: inv.ID,
		AmountEUR:       float64(inv.AmountPaid) / 100.0,
		Status:          string(inv.Status),
	}

	if err := database.DB.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&payment).Error; err != nil {
		log.Printf("[Webhook Error](invoice.paid) Failed to record payment for invoice %s: %v", inv.ID, err)
	}
}
