package stripewebhooks

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"coaching-app/config"
	"coaching-app/database"
	"coaching-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"gorm.io/gorm/clause"
)

// StripeWebhook is the single entry point for payment-provider events. The
// raw body is needed for signature verification, so it is read before any
// JSON binding.
func StripeWebhook(c *gin.Context) {
	endpointSecret := config.STRIPE_WEBHOOK_SECRET
	if endpointSecret == "" {
		log.Println("[Webhook Error] Webhook signature required (STRIPE_WEBHOOK_SECRET not configured)")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature required"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Println("[Webhook Error] Webhook signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "invoice.paid":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse invoice"})
			return
		}
		if alreadyProcessed(event) {
			c.JSON(http.StatusOK, gin.H{"status": "already processed"})
			return
		}
		if err := handleInvoicePaid(c, string(event.Type), &inv); err != nil {
			// Retryable: forget the event id so the redelivery is handled.
			forgetEvent(event)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse invoice"})
			return
		}
		if alreadyProcessed(event) {
			c.JSON(http.StatusOK, gin.H{"status": "already processed"})
			return
		}
		if err := handleInvoicePaymentFailed(c, string(event.Type), &inv); err != nil {
			forgetEvent(event)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	default:
		log.Printf("[Webhook Error] Unhandled type %s", event.Type)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unhandled type " + string(event.Type)})
	}
}

// alreadyProcessed claims the event id. The unique index makes the claim
// atomic across concurrent deliveries of the same event.
func alreadyProcessed(event stripe.Event) bool {
	res := database.DB.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&billing.ProcessedEvent{StripeEventID: event.ID, Type: string(event.Type)})
	if res.Error != nil {
		log.Printf("[Webhook Error](%s) Failed to record event %s: %v", event.Type, event.ID, res.Error)
		return false
	}
	return res.RowsAffected == 0
}

func forgetEvent(event stripe.Event) {
	database.DB.Where("stripe_event_id = ?", event.ID).Delete(&billing.ProcessedEvent{})
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
