package billing

import (
	"net/http"

	"coaching-app/config"
	"coaching-app/database"
	"coaching-app/internal/domain/plans"
	"coaching-app/internal/domain/users"
	"coaching-app/internal/infra/payments"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PlanID uint `json:"plan_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PlanID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan_id"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// Unknown and administrative plans both resolve to an empty result, not
	// an error.
	var plan plans.Plan
	if err := database.DB.Where("id = ?", body.PlanID).First(&plan).Error; err != nil || plan.FullAccess {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	// Lazily provision the provider-side customer on first purchase; only the
	// customer id column is written back.
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		cus, err := payments.Default.CreateCustomer(c.Request.Context(), &stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.Realname),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
			return
		}

		if err := database.DB.Model(&users.User{}).
			Where("id = ?", user.ID).
			Update("stripe_customer_id", cus.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store Stripe customer"})
			return
		}

		user.StripeCustomerID = stripe.String(cus.ID)
	}

	prices, err := payments.Default.ListPricesForProduct(c.Request.Context(), plan.StripeProductID)
	if err != nil || len(prices) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No price configured for plan"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Customer:           stripe.String(*user.StripeCustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(prices[0].ID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(config.SITE_HOST + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(config.SITE_HOST + "/canceled"),
	}

	s, err := payments.Default.CreateCheckoutSession(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

func CreateBillingPortal(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No Stripe customer yet (subscribe first)"})
		return
	}

	portal, err := payments.Default.CreateBillingPortalSession(c.Request.Context(), &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(config.SITE_HOST + "/account"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}
