package billing

import (
	"net/http"
	"time"

	"coaching-app/database"
	"coaching-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

type PaymentEntry struct {
	ID        uint      `json:"id"`
	PlanName  *string   `json:"plan_name"`
	AmountEUR float64   `json:"amount_eur"`
	Status    string    `json:"status"`
	PaidAt    time.Time `json:"paid_at"`
}

// GetPaymentHistory lists the caller's invoices, newest first.
func GetPaymentHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payments []billing.Payment
	if err := database.DB.
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	history := make([]PaymentEntry, 0, len(payments))
	for _, p := range payments {
		entry := PaymentEntry{
			ID:        p.ID,
			AmountEUR: p.AmountEUR,
			Status:    p.Status,
			PaidAt:    p.CreatedAt,
		}
		if p.Plan != nil {
			entry.PlanName = &p.Plan.Name
		}
		history = append(history, entry)
	}

	c.JSON(http.StatusOK, history)
}
